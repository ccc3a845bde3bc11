package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edvin/clinicguard/internal/model"
)

// ErrTenantAlreadyLinked is returned when a user already owns a tenant.
var ErrTenantAlreadyLinked = errors.New("user already has a tenant")

// ErrUserNotFound is returned when no user row matches.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, password_hash, display_name, plan, acronis_tenant_id, bitdefender_company_id, created_at, updated_at`

type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Plan,
		&u.AcronisTenantID, &u.BitdefenderCompanyID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user with an already hashed password.
func (s *UserService) Create(ctx context.Context, u *model.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, plan, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Plan)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SetAcronisTenant links the tenant to the user. The update only matches a
// user without a tenant, so a second link attempt returns ErrTenantAlreadyLinked.
func (s *UserService) SetAcronisTenant(ctx context.Context, userID, tenantID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET acronis_tenant_id = $1, updated_at = now()
		 WHERE id = $2 AND acronis_tenant_id IS NULL`, tenantID, userID)
	if err != nil {
		return fmt.Errorf("set acronis tenant for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantAlreadyLinked
	}
	return nil
}
