package model

import "time"

type User struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	DisplayName          *string   `json:"display_name"`
	Plan                 PlanTier  `json:"plan"`
	AcronisTenantID      *string   `json:"acronis_tenant_id"`
	BitdefenderCompanyID *string   `json:"bitdefender_company_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// HasTenant reports whether the user already owns a backup vendor tenant.
func (u *User) HasTenant() bool {
	return u.AcronisTenantID != nil && *u.AcronisTenantID != ""
}
