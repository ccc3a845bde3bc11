package acronis

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// TenantKindCustomer is the kind used for clinic tenants.
const TenantKindCustomer = "customer"

func (c *Client) ListChildTenants(ctx context.Context, parentID string) ([]Tenant, error) {
	var resp struct {
		Items []Tenant `json:"items"`
	}
	endpoint := "/api/2/tenants?" + url.Values{"parent_id": {parentID}}.Encode()
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("list child tenants of %s: %w", parentID, err)
	}
	return resp.Items, nil
}

func (c *Client) GetTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	var tenant Tenant
	if err := c.request(ctx, http.MethodGet, "/api/2/tenants/"+url.PathEscape(tenantID), nil, &tenant); err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", tenantID, err)
	}
	return &tenant, nil
}

func (c *Client) CreateTenant(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	if req.Kind == "" {
		req.Kind = TenantKindCustomer
	}
	var tenant Tenant
	if err := c.request(ctx, http.MethodPost, "/api/2/tenants", req, &tenant); err != nil {
		return nil, fmt.Errorf("create tenant %q: %w", req.Name, err)
	}
	return &tenant, nil
}

// ActivateTenant calls the dedicated activation endpoint.
func (c *Client) ActivateTenant(ctx context.Context, tenantID string) error {
	return c.request(ctx, http.MethodPost, "/api/2/tenants/"+url.PathEscape(tenantID)+"/activate", nil, nil)
}

// EnableTenant calls the enable endpoint, which some datacenters expose
// instead of activate.
func (c *Client) EnableTenant(ctx context.Context, tenantID string) error {
	return c.request(ctx, http.MethodPost, "/api/2/tenants/"+url.PathEscape(tenantID)+"/enable", nil, nil)
}

// SetTenantEnabled patches the tenant record directly.
func (c *Client) SetTenantEnabled(ctx context.Context, tenantID string, enabled bool) error {
	body := map[string]any{"enabled": enabled}
	return c.request(ctx, http.MethodPatch, "/api/2/tenants/"+url.PathEscape(tenantID), body, nil)
}
