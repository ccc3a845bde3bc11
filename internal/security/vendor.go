package security

import (
	"context"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/bitdefender"
	"github.com/edvin/clinicguard/internal/model"
)

// TenantAPI is the tenant subset of the backup/EDR vendor client.
type TenantAPI interface {
	ListChildTenants(ctx context.Context, parentID string) ([]acronis.Tenant, error)
	GetTenant(ctx context.Context, tenantID string) (*acronis.Tenant, error)
	CreateTenant(ctx context.Context, req acronis.CreateTenantRequest) (*acronis.Tenant, error)
	ActivateTenant(ctx context.Context, tenantID string) error
	EnableTenant(ctx context.Context, tenantID string) error
	SetTenantEnabled(ctx context.Context, tenantID string, enabled bool) error
}

// ResourceAPI is the machine subset of the backup/EDR vendor client.
type ResourceAPI interface {
	ListResources(ctx context.Context, tenantID string) ([]acronis.Resource, error)
	RegisterResource(ctx context.Context, req acronis.RegisterResourceRequest) (*acronis.Resource, error)
	DeleteResource(ctx context.Context, resourceID string) error
	GetIsolationStatus(ctx context.Context, resourceID string) (*acronis.IsolationStatus, error)
	Isolate(ctx context.Context, resourceID, reason string) (*acronis.ActionResult, error)
	RestoreNetwork(ctx context.Context, resourceID, reason string) (*acronis.ActionResult, error)
}

// TaskAPI covers background tasks, backups and alerts.
type TaskAPI interface {
	CreateTask(ctx context.Context, req acronis.CreateTaskRequest) (*acronis.Task, error)
	ListTasks(ctx context.Context, f acronis.TaskFilter) ([]acronis.Task, error)
	ListBackups(ctx context.Context, resourceID string, limit int) ([]acronis.Backup, error)
	ListAlerts(ctx context.Context, tenantID string, limit int) ([]acronis.Alert, error)
}

// BitdefenderAPI is the JSON-RPC client surface used here.
type BitdefenderAPI interface {
	GetEndpointsList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.EndpointList, error)
	GetIncidentsList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.IncidentList, error)
	GetPoliciesList(ctx context.Context, companyID string, page, perPage int) (*bitdefender.PolicyList, error)
	CreatePackage(ctx context.Context, companyID, name, description string) (string, error)
	GetInstallationLinks(ctx context.Context, packageName string) ([]bitdefender.InstallationLink, error)
}

// ActionLog persists isolation audit records.
type ActionLog interface {
	Record(ctx context.Context, a *model.SecurityAction) error
	ListByDevice(ctx context.Context, userID, deviceID string, limit int) ([]model.SecurityAction, error)
}

// TenantLinker stores the tenant id on the owning user.
type TenantLinker interface {
	SetAcronisTenant(ctx context.Context, userID, tenantID string) error
}

func requireTenant(user *model.User) (string, error) {
	if !user.HasTenant() {
		return "", newError(KindInvalid, CodeNoTenant, "nenhum tenant registrado para este usuário")
	}
	return *user.AcronisTenantID, nil
}

// findDevice returns the device from the user's tenant, or a not-found error
// when it belongs elsewhere.
func findDevice(ctx context.Context, api ResourceAPI, user *model.User, deviceID string) (*acronis.Resource, error) {
	tenantID, err := requireTenant(user)
	if err != nil {
		return nil, err
	}
	resources, err := api.ListResources(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].ID == deviceID {
			return &resources[i], nil
		}
	}
	return nil, newError(KindNotFound, CodeDeviceNotFound, "dispositivo %s não encontrado", deviceID)
}
