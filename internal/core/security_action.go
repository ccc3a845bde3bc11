package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edvin/clinicguard/internal/model"
)

// SecurityActionService stores the append-only isolation audit trail.
type SecurityActionService struct {
	db DB
}

func NewSecurityActionService(db DB) *SecurityActionService {
	return &SecurityActionService{db: db}
}

// Record appends an audit record, filling in ID and CreatedAt when unset.
func (s *SecurityActionService) Record(ctx context.Context, a *model.SecurityAction) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO security_actions (id, user_id, device_id, action, reason, status, task_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.DeviceID, a.Action, a.Reason, a.Status, a.TaskID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("record security action: %w", err)
	}
	return nil
}

// ListByDevice returns the user's records for a device, newest first.
func (s *SecurityActionService) ListByDevice(ctx context.Context, userID, deviceID string, limit int) ([]model.SecurityAction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, device_id, action, reason, status, task_id, created_at
		 FROM security_actions
		 WHERE user_id = $1 AND device_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`, userID, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list security actions for device %s: %w", deviceID, err)
	}
	defer rows.Close()

	var actions []model.SecurityAction
	for rows.Next() {
		var a model.SecurityAction
		if err := rows.Scan(&a.ID, &a.UserID, &a.DeviceID, &a.Action, &a.Reason, &a.Status, &a.TaskID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan security action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
