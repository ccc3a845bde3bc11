package model

import "time"

const (
	SecurityActionIsolate = "isolate"
	SecurityActionRestore = "restore"

	SecurityActionStatusCompleted = "completed"
)

// SecurityAction is an append-only audit record of an isolation change.
type SecurityAction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	Action    string    `json:"action"`
	Reason    *string   `json:"reason"`
	Status    string    `json:"status"`
	TaskID    *string   `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
