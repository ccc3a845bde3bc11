package security

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/bitdefender"
	"github.com/edvin/clinicguard/internal/model"
)

// mockAcronis implements AcronisAPI.
type mockAcronis struct {
	mock.Mock
}

func (m *mockAcronis) ListChildTenants(ctx context.Context, parentID string) ([]acronis.Tenant, error) {
	args := m.Called(ctx, parentID)
	tenants, _ := args.Get(0).([]acronis.Tenant)
	return tenants, args.Error(1)
}

func (m *mockAcronis) GetTenant(ctx context.Context, tenantID string) (*acronis.Tenant, error) {
	args := m.Called(ctx, tenantID)
	tenant, _ := args.Get(0).(*acronis.Tenant)
	return tenant, args.Error(1)
}

func (m *mockAcronis) CreateTenant(ctx context.Context, req acronis.CreateTenantRequest) (*acronis.Tenant, error) {
	args := m.Called(ctx, req)
	tenant, _ := args.Get(0).(*acronis.Tenant)
	return tenant, args.Error(1)
}

func (m *mockAcronis) ActivateTenant(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *mockAcronis) EnableTenant(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *mockAcronis) SetTenantEnabled(ctx context.Context, tenantID string, enabled bool) error {
	return m.Called(ctx, tenantID, enabled).Error(0)
}

func (m *mockAcronis) ListResources(ctx context.Context, tenantID string) ([]acronis.Resource, error) {
	args := m.Called(ctx, tenantID)
	resources, _ := args.Get(0).([]acronis.Resource)
	return resources, args.Error(1)
}

func (m *mockAcronis) RegisterResource(ctx context.Context, req acronis.RegisterResourceRequest) (*acronis.Resource, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*acronis.Resource)
	return res, args.Error(1)
}

func (m *mockAcronis) DeleteResource(ctx context.Context, resourceID string) error {
	return m.Called(ctx, resourceID).Error(0)
}

func (m *mockAcronis) GetIsolationStatus(ctx context.Context, resourceID string) (*acronis.IsolationStatus, error) {
	args := m.Called(ctx, resourceID)
	if fn, ok := args.Get(0).(func(context.Context, string) *acronis.IsolationStatus); ok {
		return fn(ctx, resourceID), args.Error(1)
	}
	status, _ := args.Get(0).(*acronis.IsolationStatus)
	return status, args.Error(1)
}

func (m *mockAcronis) Isolate(ctx context.Context, resourceID, reason string) (*acronis.ActionResult, error) {
	args := m.Called(ctx, resourceID, reason)
	res, _ := args.Get(0).(*acronis.ActionResult)
	return res, args.Error(1)
}

func (m *mockAcronis) RestoreNetwork(ctx context.Context, resourceID, reason string) (*acronis.ActionResult, error) {
	args := m.Called(ctx, resourceID, reason)
	res, _ := args.Get(0).(*acronis.ActionResult)
	return res, args.Error(1)
}

func (m *mockAcronis) CreateTask(ctx context.Context, req acronis.CreateTaskRequest) (*acronis.Task, error) {
	args := m.Called(ctx, req)
	task, _ := args.Get(0).(*acronis.Task)
	return task, args.Error(1)
}

func (m *mockAcronis) ListTasks(ctx context.Context, f acronis.TaskFilter) ([]acronis.Task, error) {
	args := m.Called(ctx, f)
	tasks, _ := args.Get(0).([]acronis.Task)
	return tasks, args.Error(1)
}

func (m *mockAcronis) ListBackups(ctx context.Context, resourceID string, limit int) ([]acronis.Backup, error) {
	args := m.Called(ctx, resourceID, limit)
	backups, _ := args.Get(0).([]acronis.Backup)
	return backups, args.Error(1)
}

func (m *mockAcronis) ListAlerts(ctx context.Context, tenantID string, limit int) ([]acronis.Alert, error) {
	args := m.Called(ctx, tenantID, limit)
	alerts, _ := args.Get(0).([]acronis.Alert)
	return alerts, args.Error(1)
}

// mockBitdefender implements BitdefenderAPI.
type mockBitdefender struct {
	mock.Mock
}

func (m *mockBitdefender) GetEndpointsList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.EndpointList, error) {
	args := m.Called(ctx, companyID, page, perPage)
	list, _ := args.Get(0).(*bitdefender.EndpointList)
	return list, args.Error(1)
}

func (m *mockBitdefender) GetIncidentsList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.IncidentList, error) {
	args := m.Called(ctx, companyID, page, perPage)
	list, _ := args.Get(0).(*bitdefender.IncidentList)
	return list, args.Error(1)
}

func (m *mockBitdefender) GetPoliciesList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.PolicyList, error) {
	args := m.Called(ctx, companyID, page, perPage)
	list, _ := args.Get(0).(*bitdefender.PolicyList)
	return list, args.Error(1)
}

func (m *mockBitdefender) CreatePackage(ctx context.Context, companyID, name, description string) (string, error) {
	args := m.Called(ctx, companyID, name, description)
	return args.String(0), args.Error(1)
}

func (m *mockBitdefender) GetInstallationLinks(ctx context.Context, packageName string) ([]bitdefender.InstallationLink, error) {
	args := m.Called(ctx, packageName)
	links, _ := args.Get(0).([]bitdefender.InstallationLink)
	return links, args.Error(1)
}

// memoryActionLog is an in-memory ActionLog.
type memoryActionLog struct {
	records []model.SecurityAction
	err     error
}

func (l *memoryActionLog) Record(_ context.Context, a *model.SecurityAction) error {
	if l.err != nil {
		return l.err
	}
	l.records = append(l.records, *a)
	return nil
}

func (l *memoryActionLog) ListByDevice(_ context.Context, userID, deviceID string, limit int) ([]model.SecurityAction, error) {
	var out []model.SecurityAction
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r := l.records[i]; r.UserID == userID && r.DeviceID == deviceID {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockLinker implements TenantLinker.
type mockLinker struct {
	mock.Mock
}

func (m *mockLinker) SetAcronisTenant(ctx context.Context, userID, tenantID string) error {
	return m.Called(ctx, userID, tenantID).Error(0)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func userWithTenant(plan model.PlanTier) *model.User {
	return &model.User{ID: "user-1", Email: "ana.silva@clinica.com", Plan: plan, AcronisTenantID: strPtr("tenant-1")}
}

func machines(ids ...string) []acronis.Resource {
	out := make([]acronis.Resource, 0, len(ids))
	for _, id := range ids {
		out = append(out, acronis.Resource{ID: id, Name: strPtr("PC " + id)})
	}
	return out
}
