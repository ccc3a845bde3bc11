package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/core"
	"github.com/edvin/clinicguard/internal/model"
)

// maxNameAttempts bounds the tenant-name collision loop: name, name-1 ... name-9.
const maxNameAttempts = 10

const (
	defaultTenantLanguage = "en"
	defaultContactCountry = "BR"
)

// ActivationResult reports which strategy, if any, enabled a tenant.
type ActivationResult int

const (
	ActivationFailed ActivationResult = iota
	ActivationAlreadyEnabled
	ActivationActivated
	ActivationEnabled
	ActivationPatched
)

func (r ActivationResult) String() string {
	switch r {
	case ActivationAlreadyEnabled:
		return "already_enabled"
	case ActivationActivated:
		return "activated"
	case ActivationEnabled:
		return "enabled"
	case ActivationPatched:
		return "patched"
	default:
		return "failed"
	}
}

type Provisioner struct {
	api      TenantAPI
	users    TenantLinker
	parentID string
}

func NewProvisioner(api TenantAPI, users TenantLinker, parentID string) *Provisioner {
	return &Provisioner{api: api, users: users, parentID: parentID}
}

// Registration is the outcome of provisioning a tenant for a user.
type Registration struct {
	Tenant     *acronis.Tenant
	Activation ActivationResult
	// Renamed is set when the tenant got a suffixed name.
	Renamed bool
}

// Register provisions a tenant for a user that has none and links it.
func (p *Provisioner) Register(ctx context.Context, user *model.User, name, phone string) (*Registration, error) {
	if user.HasTenant() {
		return nil, alreadyRegistered()
	}

	tenant, err := p.CreateTenant(ctx, name, user.Email, phone)
	if err != nil {
		return nil, err
	}
	activation := p.ActivateTenant(ctx, tenant.ID)

	if err := p.users.SetAcronisTenant(ctx, user.ID, tenant.ID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("user_id", user.ID).
			Str("tenant_id", tenant.ID).
			Msg("tenant created but not linked to user")
		if errors.Is(err, core.ErrTenantAlreadyLinked) {
			return nil, alreadyRegistered()
		}
		return nil, fmt.Errorf("link tenant %s: %w", tenant.ID, err)
	}

	return &Registration{
		Tenant:     tenant,
		Activation: activation,
		Renamed:    !strings.EqualFold(tenant.Name, name),
	}, nil
}

func alreadyRegistered() *Error {
	return newError(KindInvalid, CodeAlreadyRegistered, "usuário já possui um tenant registrado")
}

// CreateTenant creates a customer tenant under the configured parent. When
// the name is taken it tries name-1 through name-9; the returned tenant's
// name may therefore differ from the requested one.
func (p *Provisioner) CreateTenant(ctx context.Context, name, email, phone string) (*acronis.Tenant, error) {
	if p.parentID == "" {
		return nil, newError(KindConfig, "", "ACRONIS_PARENT_TENANT_ID is not configured")
	}

	children, err := p.api.ListChildTenants(ctx, p.parentID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(children))
	for _, child := range children {
		taken[strings.ToLower(child.Name)] = true
	}

	first, last := contactNames(email)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		candidate := candidateName(name, attempt)
		if taken[strings.ToLower(candidate)] {
			continue
		}

		tenant, err := p.api.CreateTenant(ctx, acronis.CreateTenantRequest{
			Name:     candidate,
			ParentID: p.parentID,
			Kind:     acronis.TenantKindCustomer,
			Language: defaultTenantLanguage,
			Enabled:  true,
			Contact: acronis.Contact{
				Firstname: first,
				Lastname:  last,
				Email:     email,
				Phone:     phone,
				Country:   defaultContactCountry,
			},
		})
		if acronis.IsStatus(err, http.StatusConflict) {
			// Created concurrently by someone else since the listing.
			taken[strings.ToLower(candidate)] = true
			continue
		}
		if err != nil {
			return nil, err
		}
		return tenant, nil
	}

	return nil, newError(KindConflict, CodeNameConflict,
		"não foi possível encontrar um nome disponível para %q após %d tentativas", name, maxNameAttempts)
}

func candidateName(name string, attempt int) string {
	if attempt == 0 {
		return name
	}
	return fmt.Sprintf("%s-%d", name, attempt)
}

// contactNames splits the email local part on "." into first and last name.
// A local part without a dot is used for both.
func contactNames(email string) (first, last string) {
	local, _, _ := strings.Cut(email, "@")
	first, last, found := strings.Cut(local, ".")
	if !found || last == "" {
		return first, first
	}
	return first, strings.ReplaceAll(last, ".", " ")
}

// ActivateTenant is best effort: failures are logged and the tenant is left
// as created.
func (p *Provisioner) ActivateTenant(ctx context.Context, tenantID string) ActivationResult {
	result := p.tryActivate(ctx, tenantID)
	logger := zerolog.Ctx(ctx)
	if result == ActivationFailed {
		logger.Warn().Str("tenant_id", tenantID).Msg("tenant activation failed, continuing")
	} else {
		logger.Info().Str("tenant_id", tenantID).Stringer("result", result).Msg("tenant activation")
	}
	return result
}

func (p *Provisioner) tryActivate(ctx context.Context, tenantID string) ActivationResult {
	logger := zerolog.Ctx(ctx)

	tenant, err := p.api.GetTenant(ctx, tenantID)
	if err != nil {
		logger.Debug().Err(err).Str("tenant_id", tenantID).Msg("fetch tenant before activation")
	} else if tenant.Enabled {
		return ActivationAlreadyEnabled
	}

	strategies := []struct {
		result ActivationResult
		run    func() error
	}{
		{ActivationActivated, func() error { return p.api.ActivateTenant(ctx, tenantID) }},
		{ActivationEnabled, func() error { return p.api.EnableTenant(ctx, tenantID) }},
		{ActivationPatched, func() error { return p.api.SetTenantEnabled(ctx, tenantID, true) }},
	}
	for _, s := range strategies {
		if err := s.run(); err != nil {
			logger.Debug().Err(err).Str("tenant_id", tenantID).Stringer("strategy", s.result).Msg("activation strategy failed")
			continue
		}
		return s.result
	}
	return ActivationFailed
}
