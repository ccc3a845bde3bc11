package acronis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	TaskTypeFullScan = "antimalware_full_scan"
	TaskTypeRestore  = "restore"
	TaskStateDone    = "completed"
)

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if req.Schedule.Start == "" {
		req.Schedule.Start = "now"
	}
	var task Task
	if err := c.request(ctx, http.MethodPost, "/api/task_manager/v2/tasks", req, &task); err != nil {
		return nil, fmt.Errorf("create %s task for %s: %w", req.Type, req.ResourceID, err)
	}
	return &task, nil
}

// ListTasks returns tasks newest first.
func (c *Client) ListTasks(ctx context.Context, f TaskFilter) ([]Task, error) {
	q := url.Values{"order": {"desc(completed_at)"}}
	if f.TenantID != "" {
		q.Set("tenant_id", f.TenantID)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.State != "" {
		q.Set("state", f.State)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	var resp struct {
		Items []Task `json:"items"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/task_manager/v2/tasks?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return resp.Items, nil
}

// ListBackups returns the backups of a resource, newest first.
func (c *Client) ListBackups(ctx context.Context, resourceID string, limit int) ([]Backup, error) {
	q := url.Values{"resource_id": {resourceID}, "order": {"desc(created_at)"}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Items []Backup `json:"items"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/backup/v1/backups?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list backups of %s: %w", resourceID, err)
	}
	return resp.Items, nil
}

// ListAlerts returns the alerts of a tenant, newest first.
func (c *Client) ListAlerts(ctx context.Context, tenantID string, limit int) ([]Alert, error) {
	q := url.Values{"order": {"desc(created_at)"}}
	if tenantID != "" {
		q.Set("tenant_id", tenantID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Items []Alert `json:"items"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/alert_manager/v1/alerts?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return resp.Items, nil
}
