package security

// Services bundles the domain components used by the HTTP handlers.
type Services struct {
	Provisioner *Provisioner
	Endpoints   *EndpointRegistry
	Isolation   *IsolationController
	Actions     *ActionDispatcher
	Stats       *StatsAggregator
	Bitdefender *BitdefenderService
}

// AcronisAPI is everything the backup/EDR vendor client provides.
type AcronisAPI interface {
	TenantAPI
	ResourceAPI
	TaskAPI
}

func NewServices(acr AcronisAPI, bd BitdefenderAPI, users TenantLinker, log ActionLog, plans Plans, parentTenantID string) *Services {
	isolation := NewIsolationController(acr, log)
	return &Services{
		Provisioner: NewProvisioner(acr, users, parentTenantID),
		Endpoints:   NewEndpointRegistry(acr, plans),
		Isolation:   isolation,
		Actions:     NewActionDispatcher(acr, acr, isolation),
		Stats:       NewStatsAggregator(acr, acr),
		Bitdefender: NewBitdefenderService(bd, plans),
	}
}
