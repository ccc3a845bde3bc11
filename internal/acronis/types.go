package acronis

import "time"

type Contact struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Country   string `json:"country,omitempty"`
}

type Tenant struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	ParentID string   `json:"parent_id"`
	Enabled  bool     `json:"enabled"`
	Version  int      `json:"version"`
	Language string   `json:"language,omitempty"`
	Contact  *Contact `json:"contact,omitempty"`
}

type CreateTenantRequest struct {
	Name     string  `json:"name"`
	ParentID string  `json:"parent_id"`
	Kind     string  `json:"kind"`
	Language string  `json:"language"`
	Enabled  bool    `json:"enabled"`
	Contact  Contact `json:"contact"`
}

type ResourceOS struct {
	Family string `json:"family"`
	Name   string `json:"name,omitempty"`
}

type IsolationFlag struct {
	Isolated *bool `json:"isolated"`
}

// Resource is a machine as returned by resource management. Every field may
// be absent depending on agent version and registration state.
type Resource struct {
	ID               string         `json:"id"`
	Name             *string        `json:"name"`
	Hostname         *string        `json:"hostname"`
	OS               *ResourceOS    `json:"os"`
	Status           *string        `json:"status"`
	ProtectionStatus *string        `json:"protection_status"`
	IsolationStatus  *IsolationFlag `json:"isolation_status"`
	LastSeen         *time.Time     `json:"last_seen_at"`
	IPAddress        *string        `json:"ip_address"`
	MACAddress       *string        `json:"mac_address"`
}

type RegistrationOptions struct {
	TokenType string `json:"token_type"`
}

type RegisterResourceRequest struct {
	TenantID     string              `json:"tenant_id"`
	Name         string              `json:"name"`
	Type         string              `json:"type"`
	OS           ResourceOS          `json:"os"`
	Registration RegistrationOptions `json:"registration"`
}

type IsolationStatus struct {
	Isolated   bool       `json:"isolated"`
	IsolatedAt *time.Time `json:"isolated_at"`
	IsolatedBy *string    `json:"isolated_by"`
	Reason     *string    `json:"reason"`
}

type ActionResult struct {
	TaskID string `json:"task_id"`
}

type TaskSchedule struct {
	Start string `json:"start"`
}

type CreateTaskRequest struct {
	Type       string       `json:"type"`
	ResourceID string       `json:"resource_id"`
	BackupID   string       `json:"backup_id,omitempty"`
	Schedule   TaskSchedule `json:"schedule"`
}

type Task struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	State       string     `json:"state"`
	ResourceID  string     `json:"resource_id"`
	CompletedAt *time.Time `json:"completed_at"`
}

// TaskFilter narrows ListTasks. Empty fields are not sent.
type TaskFilter struct {
	TenantID string
	Type     string
	State    string
	Limit    int
}

type Backup struct {
	ID         string    `json:"id"`
	ResourceID string    `json:"resource_id"`
	CreatedAt  time.Time `json:"created_at"`
	Size       int64     `json:"size"`
}

type AlertDetails struct {
	ResourceID   string `json:"resourceId"`
	ResourceName string `json:"resourceName"`
}

type Alert struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Severity    string       `json:"severity"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
	Details     AlertDetails `json:"details"`
}
