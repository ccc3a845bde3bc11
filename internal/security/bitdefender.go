package security

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/clinicguard/internal/bitdefender"
	"github.com/edvin/clinicguard/internal/model"
)

// Security states derived from the numeric securityStatus field.
const (
	StateProtected = "protected"
	StateAtRisk    = "at-risk"
	StateCritical  = "critical"
)

// SecurityState maps securityStatus: 1 is protected, 0 is critical and
// anything else, including a missing value, is at risk.
func SecurityState(status *int) string {
	switch {
	case status == nil:
		return StateAtRisk
	case *status == 1:
		return StateProtected
	case *status == 0:
		return StateCritical
	default:
		return StateAtRisk
	}
}

// NormalizeBitdefenderEndpoint maps a JSON-RPC endpoint onto Endpoint.
func NormalizeBitdefenderEndpoint(raw bitdefender.Endpoint) Endpoint {
	name := raw.Name
	if name == "" {
		name = raw.FQDN
	}
	if name == "" {
		name = UnnamedDevice
	}

	status := "unmanaged"
	if raw.IsManaged {
		status = "managed"
	}

	mac := NotAvailable
	if len(raw.MACs) > 0 && raw.MACs[0] != "" {
		mac = raw.MACs[0]
	}

	return Endpoint{
		ID:               raw.ID,
		Name:             name,
		OS:               orDefault(&raw.OperatingSystemVersion, UnknownValue),
		Status:           status,
		ProtectionStatus: SecurityState(raw.SecurityStatus),
		LastSeen:         orDefault(raw.LastSeen, NotAvailable),
		IPAddress:        orDefault(&raw.IP, NotAvailable),
		MACAddress:       mac,
	}
}

type BitdefenderCounters struct {
	TotalEndpoints     int `json:"totalEndpoints"`
	ProtectedEndpoints int `json:"protectedEndpoints"`
	AtRiskEndpoints    int `json:"atRiskEndpoints"`
	CriticalEndpoints  int `json:"criticalEndpoints"`
}

type BitdefenderStats struct {
	Stats           BitdefenderCounters `json:"stats"`
	RecentIncidents []Incident          `json:"recentIncidents"`
}

// BitdefenderService serves the second vendor's endpoints, stats and policies.
// The company comes from the user record, falling back to the client default.
type BitdefenderService struct {
	api   BitdefenderAPI
	plans Plans
}

func NewBitdefenderService(api BitdefenderAPI, plans Plans) *BitdefenderService {
	return &BitdefenderService{api: api, plans: plans}
}

func companyFor(user *model.User) string {
	if user.BitdefenderCompanyID != nil {
		return *user.BitdefenderCompanyID
	}
	return ""
}

// maxEndpointPages bounds the page walk when the vendor keeps reporting more pages.
const maxEndpointPages = 50

// allEndpoints walks every page of the company's endpoints. The returned
// count is the number of items actually fetched, so it always agrees with
// per-item tallies; it falls back to the reported total only when the walk
// stops at maxEndpointPages.
func (s *BitdefenderService) allEndpoints(ctx context.Context, company string) ([]bitdefender.Endpoint, int, error) {
	var (
		items    []bitdefender.Endpoint
		reported int
	)
	for page := 1; page <= maxEndpointPages; page++ {
		list, err := s.api.GetEndpointsList(ctx, company, page, bitdefender.DefaultPerPage)
		if err != nil {
			return nil, 0, err
		}
		if page == 1 {
			reported = list.Total
		}
		items = append(items, list.Items...)
		if page >= list.PagesCount || len(list.Items) == 0 {
			return items, len(items), nil
		}
	}
	zerolog.Ctx(ctx).Warn().Str("company_id", company).Int("pages", maxEndpointPages).
		Msg("bitdefender endpoint listing truncated")
	return items, max(reported, len(items)), nil
}

func (s *BitdefenderService) ListEndpoints(ctx context.Context, user *model.User) (*EndpointList, error) {
	items, total, err := s.allEndpoints(ctx, companyFor(user))
	if err != nil {
		return nil, err
	}

	endpoints := make([]Endpoint, 0, len(items))
	for _, raw := range items {
		endpoints = append(endpoints, NormalizeBitdefenderEndpoint(raw))
	}
	return &EndpointList{
		Endpoints: endpoints,
		Limits:    s.plans.Limits(user.Plan, total),
	}, nil
}

// CreateEndpoint checks the plan limit, creates an installation package and
// returns a pending endpoint carrying the installer link for its OS.
func (s *BitdefenderService) CreateEndpoint(ctx context.Context, user *model.User, name, osFamily string) (*Endpoint, error) {
	company := companyFor(user)
	_, total, err := s.allEndpoints(ctx, company)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(s.plans.Limits(user.Plan, total)); err != nil {
		return nil, err
	}

	packageID, err := s.api.CreatePackage(ctx, company, name, "ClinicGuard - "+name)
	if err != nil {
		return nil, err
	}

	endpoint := &Endpoint{
		ID:               packageID,
		Name:             name,
		OS:               orDefault(&osFamily, UnknownValue),
		Status:           StatusPending,
		ProtectionStatus: StatusPending,
		LastSeen:         NotAvailable,
		IPAddress:        NotAvailable,
		MACAddress:       NotAvailable,
	}

	links, err := s.api.GetInstallationLinks(ctx, name)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("package_id", packageID).Msg("installation links unavailable")
		return endpoint, nil
	}
	endpoint.InstallLink = installLinkFor(links, osFamily)
	return endpoint, nil
}

func installLinkFor(links []bitdefender.InstallationLink, osFamily string) string {
	if len(links) == 0 {
		return ""
	}
	l := links[0]
	switch strings.ToLower(osFamily) {
	case "mac", "macos", "darwin":
		return l.InstallLinkMac
	case "linux":
		return l.InstallLinkLinux
	default:
		return l.InstallLinkWindows
	}
}

// Stats never fails: without endpoints the counters are zero, and a failed
// incidents call yields an empty incident list. Counters cover every page of
// endpoints.
func (s *BitdefenderService) Stats(ctx context.Context, user *model.User) *BitdefenderStats {
	logger := zerolog.Ctx(ctx)
	company := companyFor(user)
	out := &BitdefenderStats{RecentIncidents: []Incident{}}

	items, total, err := s.allEndpoints(ctx, company)
	if err != nil {
		logger.Error().Err(err).Msg("bitdefender endpoints unavailable, returning zeroed stats")
		return out
	}
	out.Stats.TotalEndpoints = total
	for _, raw := range items {
		switch SecurityState(raw.SecurityStatus) {
		case StateProtected:
			out.Stats.ProtectedEndpoints++
		case StateCritical:
			out.Stats.CriticalEndpoints++
		default:
			out.Stats.AtRiskEndpoints++
		}
	}

	incidents, err := s.api.GetIncidentsList(ctx, company, 1, maxRecentIncident)
	if err != nil {
		logger.Warn().Err(err).Msg("bitdefender incidents unavailable")
		return out
	}
	out.RecentIncidents = bitdefenderIncidents(incidents.Items)
	return out
}

func bitdefenderIncidents(items []bitdefender.Incident) []Incident {
	out := make([]Incident, 0, len(items))
	for _, it := range items {
		inc := Incident{
			ID:          it.ID,
			Type:        it.Type,
			Severity:    it.Severity,
			Status:      it.Status,
			Description: it.Description,
			DeviceName:  orDefault(it.EndpointName, UnknownDevice),
			Timestamp:   it.Created,
		}
		out = append(out, inc)
	}
	sortIncidents(out)
	if len(out) > maxRecentIncident {
		out = out[:maxRecentIncident]
	}
	return out
}

func (s *BitdefenderService) Policies(ctx context.Context, user *model.User) ([]bitdefender.Policy, error) {
	list, err := s.api.GetPoliciesList(ctx, companyFor(user), 1, bitdefender.DefaultPerPage)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}
