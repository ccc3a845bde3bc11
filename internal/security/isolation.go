package security

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/model"
)

const (
	ActionIsolate = model.SecurityActionIsolate
	ActionRestore = model.SecurityActionRestore
	ActionScan    = "scan"
)

const defaultHistoryLimit = 50

// IsolationStatus is the isolation state of one device.
type IsolationStatus struct {
	DeviceID   string     `json:"deviceId"`
	DeviceName string     `json:"deviceName"`
	IsIsolated bool       `json:"isIsolated"`
	IsolatedAt *time.Time `json:"isolatedAt"`
	IsolatedBy *string    `json:"isolatedBy"`
	Reason     *string    `json:"reason"`
}

// ActionResult is returned by every fire-and-forget vendor action.
type ActionResult struct {
	TaskID  string `json:"taskId"`
	Message string `json:"message"`
}

// IsolationController toggles network isolation. A request that would not
// change the current state is rejected.
type IsolationController struct {
	api ResourceAPI
	log ActionLog
}

func NewIsolationController(api ResourceAPI, log ActionLog) *IsolationController {
	return &IsolationController{api: api, log: log}
}

func (c *IsolationController) GetStatus(ctx context.Context, user *model.User, deviceID string) (*IsolationStatus, error) {
	device, err := findDevice(ctx, c.api, user, deviceID)
	if err != nil {
		return nil, err
	}
	status, err := c.api.GetIsolationStatus(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return &IsolationStatus{
		DeviceID:   deviceID,
		DeviceName: endpointName(*device),
		IsIsolated: status.Isolated,
		IsolatedAt: status.IsolatedAt,
		IsolatedBy: status.IsolatedBy,
		Reason:     status.Reason,
	}, nil
}

// SetIsolation isolates or restores a device and appends an audit record.
// Completion on the vendor side is not tracked.
func (c *IsolationController) SetIsolation(ctx context.Context, user *model.User, deviceID, action, reason string) (*ActionResult, error) {
	if action != ActionIsolate && action != ActionRestore {
		return nil, newError(KindInvalid, CodeInvalidAction, "ação inválida %q: use isolate ou restore", action)
	}
	if _, err := findDevice(ctx, c.api, user, deviceID); err != nil {
		return nil, err
	}

	status, err := c.api.GetIsolationStatus(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	var (
		res     *acronis.ActionResult
		message string
	)
	switch {
	case action == ActionIsolate && status.Isolated:
		return nil, newError(KindConflict, CodeAlreadyIsolated, "o dispositivo %s já está isolado", deviceID)
	case action == ActionRestore && !status.Isolated:
		return nil, newError(KindConflict, CodeNotIsolated, "o dispositivo %s não está isolado", deviceID)
	case action == ActionIsolate:
		res, err = c.api.Isolate(ctx, deviceID, reason)
		message = "dispositivo isolado da rede"
	default:
		res, err = c.api.RestoreNetwork(ctx, deviceID, reason)
		message = "conexão de rede restaurada"
	}
	if err != nil {
		return nil, err
	}

	record := &model.SecurityAction{
		UserID:   user.ID,
		DeviceID: deviceID,
		Action:   action,
		Status:   model.SecurityActionStatusCompleted,
	}
	if reason != "" {
		record.Reason = &reason
	}
	if res.TaskID != "" {
		record.TaskID = &res.TaskID
	}
	// The vendor action has been issued at this point; audit failures are logged only.
	if err := c.log.Record(ctx, record); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("device_id", deviceID).
			Str("action", action).
			Msg("failed to record security action")
	}

	return &ActionResult{TaskID: res.TaskID, Message: message}, nil
}

// History returns the user's audit records for a device, newest first.
func (c *IsolationController) History(ctx context.Context, user *model.User, deviceID string) ([]model.SecurityAction, error) {
	return c.log.ListByDevice(ctx, user.ID, deviceID, defaultHistoryLimit)
}
