package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/model"
)

// Placeholder values used when the vendor omits a field.
const (
	UnknownValue  = "unknown"
	NotAvailable  = "N/A"
	UnnamedDevice = "unnamed device"
	StatusPending = "pending"
)

// Endpoint is the vendor-neutral shape of a protected device.
type Endpoint struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OS               string `json:"os"`
	Status           string `json:"status"`
	ProtectionStatus string `json:"protectionStatus"`
	IsIsolated       bool   `json:"isIsolated"`
	LastSeen         string `json:"lastSeen"`
	IPAddress        string `json:"ipAddress"`
	MACAddress       string `json:"macAddress"`
	InstallLink      string `json:"installLink,omitempty"`
}

type EndpointList struct {
	Endpoints []Endpoint `json:"endpoints"`
	Limits    Limits     `json:"limits"`
}

// NormalizeEndpoint maps a raw vendor machine onto Endpoint.
func NormalizeEndpoint(raw acronis.Resource) Endpoint {
	return Endpoint{
		ID:               raw.ID,
		Name:             endpointName(raw),
		OS:               endpointOS(raw),
		Status:           orDefault(raw.Status, UnknownValue),
		ProtectionStatus: orDefault(raw.ProtectionStatus, UnknownValue),
		IsIsolated:       endpointIsolated(raw),
		LastSeen:         formatTime(raw.LastSeen),
		IPAddress:        orDefault(raw.IPAddress, NotAvailable),
		MACAddress:       orDefault(raw.MACAddress, NotAvailable),
	}
}

// endpointName: name, then hostname, then UnnamedDevice.
func endpointName(raw acronis.Resource) string {
	switch {
	case raw.Name != nil && *raw.Name != "":
		return *raw.Name
	case raw.Hostname != nil && *raw.Hostname != "":
		return *raw.Hostname
	default:
		return UnnamedDevice
	}
}

func endpointOS(raw acronis.Resource) string {
	if raw.OS == nil || raw.OS.Family == "" {
		return UnknownValue
	}
	return raw.OS.Family
}

// endpointIsolated: a missing isolation block means not isolated.
func endpointIsolated(raw acronis.Resource) bool {
	return raw.IsolationStatus != nil && raw.IsolationStatus.Isolated != nil && *raw.IsolationStatus.Isolated
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

// EndpointRegistry lists, registers and removes devices of a user's tenant.
type EndpointRegistry struct {
	api   ResourceAPI
	plans Plans
}

func NewEndpointRegistry(api ResourceAPI, plans Plans) *EndpointRegistry {
	return &EndpointRegistry{api: api, plans: plans}
}

func (r *EndpointRegistry) List(ctx context.Context, user *model.User) (*EndpointList, error) {
	tenantID, err := requireTenant(user)
	if err != nil {
		return nil, err
	}
	resources, err := r.api.ListResources(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	endpoints := make([]Endpoint, 0, len(resources))
	for _, raw := range resources {
		endpoints = append(endpoints, NormalizeEndpoint(raw))
	}
	return &EndpointList{
		Endpoints: endpoints,
		Limits:    r.plans.Limits(user.Plan, len(resources)),
	}, nil
}

// Create registers a device after checking the plan limit against a fresh
// count. Two concurrent creates may both pass the check.
func (r *EndpointRegistry) Create(ctx context.Context, user *model.User, name, osFamily string) (*Endpoint, error) {
	tenantID, err := requireTenant(user)
	if err != nil {
		return nil, err
	}
	resources, err := r.api.ListResources(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(r.plans.Limits(user.Plan, len(resources))); err != nil {
		return nil, err
	}

	res, err := r.api.RegisterResource(ctx, acronis.RegisterResourceRequest{
		TenantID:     tenantID,
		Name:         name,
		Type:         acronis.ResourceTypeMachine,
		OS:           acronis.ResourceOS{Family: osFamily},
		Registration: acronis.RegistrationOptions{TokenType: "permanent"},
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("tenant_id", tenantID).Str("endpoint_id", res.ID).Msg("endpoint registered")
	return &Endpoint{
		ID:               res.ID,
		Name:             name,
		OS:               orDefault(&osFamily, UnknownValue),
		Status:           StatusPending,
		ProtectionStatus: StatusPending,
		LastSeen:         NotAvailable,
		IPAddress:        NotAvailable,
		MACAddress:       NotAvailable,
	}, nil
}

// Delete unregisters a device. Devices not in the user's tenant, or already
// gone at the vendor, count as deleted.
func (r *EndpointRegistry) Delete(ctx context.Context, user *model.User, endpointID string) error {
	if _, err := findDevice(ctx, r.api, user, endpointID); err != nil {
		if HasCode(err, CodeDeviceNotFound) {
			return nil
		}
		return err
	}
	if err := r.api.DeleteResource(ctx, endpointID); err != nil && !acronis.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	return nil
}
