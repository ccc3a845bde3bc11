package security

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/model"
)

const (
	alertWindow       = 100
	maxRecentIncident = 10
	UnknownDevice     = "Unknown Device"
)

const (
	AlertMalwareDetected    = "malware_detected"
	AlertRansomwareDetected = "ransomware_detected"
	AlertSuspiciousActivity = "suspicious_activity"
)

var incidentTypes = map[string]bool{
	AlertMalwareDetected:    true,
	AlertRansomwareDetected: true,
	AlertSuspiciousActivity: true,
}

type Counters struct {
	TotalEndpoints     int        `json:"totalEndpoints"`
	ProtectedEndpoints int        `json:"protectedEndpoints"`
	ThreatsBlocked     int        `json:"threatsBlocked"`
	LastScan           *time.Time `json:"lastScan"`
}

type Incident struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	DeviceName  string     `json:"deviceName"`
	Timestamp   *time.Time `json:"timestamp"`
}

type Stats struct {
	Stats           Counters   `json:"stats"`
	RecentIncidents []Incident `json:"recentIncidents"`
	Endpoints       []Endpoint `json:"endpoints"`
}

// StatsAggregator builds dashboard counters from the backup/EDR vendor.
// Any failed vendor call fails the whole request.
type StatsAggregator struct {
	resources ResourceAPI
	tasks     TaskAPI
}

func NewStatsAggregator(resources ResourceAPI, tasks TaskAPI) *StatsAggregator {
	return &StatsAggregator{resources: resources, tasks: tasks}
}

func (a *StatsAggregator) Stats(ctx context.Context, user *model.User) (*Stats, error) {
	tenantID, err := requireTenant(user)
	if err != nil {
		return nil, err
	}

	var (
		resources []acronis.Resource
		alerts    []acronis.Alert
		scans     []acronis.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resources, err = a.resources.ListResources(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = a.tasks.ListAlerts(gctx, tenantID, alertWindow)
		return err
	})
	g.Go(func() error {
		var err error
		scans, err = a.tasks.ListTasks(gctx, acronis.TaskFilter{
			TenantID: tenantID,
			Type:     acronis.TaskTypeFullScan,
			State:    acronis.TaskStateDone,
			Limit:    1,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Stats{
		Stats:           countResources(resources),
		RecentIncidents: recentIncidents(alerts),
		Endpoints:       make([]Endpoint, 0, len(resources)),
	}
	out.Stats.ThreatsBlocked = countThreatsBlocked(alerts)
	if len(scans) > 0 {
		out.Stats.LastScan = scans[0].CompletedAt
	}
	for _, raw := range resources {
		out.Endpoints = append(out.Endpoints, NormalizeEndpoint(raw))
	}
	return out, nil
}

// countResources counts all devices and those both online and protected.
func countResources(resources []acronis.Resource) Counters {
	c := Counters{TotalEndpoints: len(resources)}
	for _, raw := range resources {
		if orDefault(raw.Status, "") == "online" && orDefault(raw.ProtectionStatus, "") == "protected" {
			c.ProtectedEndpoints++
		}
	}
	return c
}

func countThreatsBlocked(alerts []acronis.Alert) int {
	n := 0
	for _, a := range alerts {
		if a.Type == AlertMalwareDetected && a.Status == "resolved" {
			n++
		}
	}
	return n
}

// recentIncidents keeps threat alerts, newest first, capped at maxRecentIncident.
func recentIncidents(alerts []acronis.Alert) []Incident {
	out := make([]Incident, 0, maxRecentIncident)
	for _, a := range alerts {
		if !incidentTypes[a.Type] {
			continue
		}
		created := a.CreatedAt
		inc := Incident{
			ID:          a.ID,
			Type:        a.Type,
			Severity:    a.Severity,
			Status:      a.Status,
			Description: a.Description,
			DeviceName:  a.Details.ResourceName,
		}
		if inc.DeviceName == "" {
			inc.DeviceName = UnknownDevice
		}
		if !created.IsZero() {
			inc.Timestamp = &created
		}
		out = append(out, inc)
	}
	sortIncidents(out)
	if len(out) > maxRecentIncident {
		out = out[:maxRecentIncident]
	}
	return out
}

// sortIncidents orders newest first; incidents without a timestamp go last.
func sortIncidents(incidents []Incident) {
	sort.SliceStable(incidents, func(i, j int) bool {
		ti, tj := incidents[i].Timestamp, incidents[j].Timestamp
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
}
