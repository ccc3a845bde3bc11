package acronis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	resourcesPath       = "/api/resource_management/v4/resources"
	ResourceTypeMachine = "resource.machine"
)

func resourcePath(resourceID string, suffix string) string {
	return resourcesPath + "/" + url.PathEscape(resourceID) + suffix
}

func (c *Client) ListResources(ctx context.Context, tenantID string) ([]Resource, error) {
	var resp struct {
		Items []Resource `json:"items"`
	}
	q := url.Values{"tenant_id": {tenantID}, "type": {ResourceTypeMachine}}
	if err := c.request(ctx, http.MethodGet, resourcesPath+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list resources for tenant %s: %w", tenantID, err)
	}
	return resp.Items, nil
}

func (c *Client) GetResource(ctx context.Context, resourceID string) (*Resource, error) {
	var res Resource
	if err := c.request(ctx, http.MethodGet, resourcePath(resourceID, ""), nil, &res); err != nil {
		return nil, fmt.Errorf("get resource %s: %w", resourceID, err)
	}
	return &res, nil
}

func (c *Client) RegisterResource(ctx context.Context, req RegisterResourceRequest) (*Resource, error) {
	if req.Type == "" {
		req.Type = ResourceTypeMachine
	}
	if req.Registration.TokenType == "" {
		req.Registration.TokenType = "permanent"
	}
	var res Resource
	if err := c.request(ctx, http.MethodPost, resourcesPath, req, &res); err != nil {
		return nil, fmt.Errorf("register resource %q: %w", req.Name, err)
	}
	return &res, nil
}

func (c *Client) DeleteResource(ctx context.Context, resourceID string) error {
	if err := c.request(ctx, http.MethodDelete, resourcePath(resourceID, ""), nil, nil); err != nil {
		return fmt.Errorf("delete resource %s: %w", resourceID, err)
	}
	return nil
}

func (c *Client) GetIsolationStatus(ctx context.Context, resourceID string) (*IsolationStatus, error) {
	var status IsolationStatus
	if err := c.request(ctx, http.MethodGet, resourcePath(resourceID, "/isolation"), nil, &status); err != nil {
		return nil, fmt.Errorf("get isolation status of %s: %w", resourceID, err)
	}
	return &status, nil
}

func (c *Client) Isolate(ctx context.Context, resourceID, reason string) (*ActionResult, error) {
	body := map[string]any{}
	if reason != "" {
		body["reason"] = reason
	}
	var result ActionResult
	if err := c.request(ctx, http.MethodPost, resourcePath(resourceID, "/isolate"), body, &result); err != nil {
		return nil, fmt.Errorf("isolate %s: %w", resourceID, err)
	}
	return &result, nil
}

// RestoreNetwork lifts network isolation. A non-empty reason is recorded by
// the vendor alongside the action.
func (c *Client) RestoreNetwork(ctx context.Context, resourceID, reason string) (*ActionResult, error) {
	body := map[string]any{}
	if reason != "" {
		body["reason"] = reason
	}
	var result ActionResult
	if err := c.request(ctx, http.MethodPost, resourcePath(resourceID, "/restore"), body, &result); err != nil {
		return nil, fmt.Errorf("restore network of %s: %w", resourceID, err)
	}
	return &result, nil
}
