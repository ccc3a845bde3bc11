package request

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterTenant struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type CreateEndpoint struct {
	Name string `json:"name" validate:"required"`
	OS   string `json:"os"`
}

// SetIsolation is validated for presence only; the action value is checked
// by the isolation controller.
type SetIsolation struct {
	DeviceID string `json:"deviceId" validate:"required"`
	Action   string `json:"action" validate:"required"`
	Reason   string `json:"reason"`
}

type DispatchAction struct {
	Action   string `json:"action" validate:"required"`
	DeviceID string `json:"deviceId" validate:"required"`
}
