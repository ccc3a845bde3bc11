package core

type Services struct {
	Auth           *AuthService
	User           *UserService
	SecurityAction *SecurityActionService
}

func NewServices(db DB, sessionSecret, sessionIssuer string) *Services {
	return &Services{
		Auth:           NewAuthService(db, sessionSecret, sessionIssuer),
		User:           NewUserService(db),
		SecurityAction: NewSecurityActionService(db),
	}
}
