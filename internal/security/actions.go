package security

import (
	"context"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/model"
)

// ActionDispatcher fires one-shot commands as vendor background tasks.
// Isolation goes through the IsolationController so the same state check and
// audit record apply on both routes.
type ActionDispatcher struct {
	resources ResourceAPI
	tasks     TaskAPI
	isolation *IsolationController
}

func NewActionDispatcher(resources ResourceAPI, tasks TaskAPI, isolation *IsolationController) *ActionDispatcher {
	return &ActionDispatcher{resources: resources, tasks: tasks, isolation: isolation}
}

func (d *ActionDispatcher) Dispatch(ctx context.Context, user *model.User, action, deviceID string) (*ActionResult, error) {
	switch action {
	case ActionScan:
		return d.scan(ctx, user, deviceID)
	case ActionIsolate:
		return d.isolation.SetIsolation(ctx, user, deviceID, ActionIsolate, "")
	case ActionRestore:
		return d.restore(ctx, user, deviceID)
	default:
		return nil, newError(KindInvalid, CodeUnsupportedAction, "ação não suportada: %q", action)
	}
}

func (d *ActionDispatcher) scan(ctx context.Context, user *model.User, deviceID string) (*ActionResult, error) {
	if _, err := findDevice(ctx, d.resources, user, deviceID); err != nil {
		return nil, err
	}
	task, err := d.tasks.CreateTask(ctx, acronis.CreateTaskRequest{
		Type:       acronis.TaskTypeFullScan,
		ResourceID: deviceID,
		Schedule:   acronis.TaskSchedule{Start: "now"},
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{TaskID: task.ID, Message: "verificação completa iniciada"}, nil
}

// restore recovers the device from its most recent backup. The ownership
// check runs first: a device outside the caller's tenant fails with
// DEVICE_NOT_FOUND before any backup lookup, so NO_BACKUP is only reported
// for the caller's own devices.
func (d *ActionDispatcher) restore(ctx context.Context, user *model.User, deviceID string) (*ActionResult, error) {
	if _, err := findDevice(ctx, d.resources, user, deviceID); err != nil {
		return nil, err
	}
	backups, err := d.tasks.ListBackups(ctx, deviceID, 1)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, newError(KindNotFound, CodeNoBackup, "nenhum backup encontrado para o dispositivo %s", deviceID)
	}

	task, err := d.tasks.CreateTask(ctx, acronis.CreateTaskRequest{
		Type:       acronis.TaskTypeRestore,
		ResourceID: deviceID,
		BackupID:   backups[0].ID,
		Schedule:   acronis.TaskSchedule{Start: "now"},
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{TaskID: task.ID, Message: "restauração a partir do backup iniciada"}, nil
}
