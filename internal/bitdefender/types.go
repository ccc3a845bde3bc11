package bitdefender

import "time"

// Endpoint as returned by network.getEndpointsList.
type Endpoint struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Label                  string   `json:"label"`
	FQDN                   string   `json:"fqdn"`
	GroupID                string   `json:"groupId"`
	IsManaged              bool     `json:"isManaged"`
	MachineType            int      `json:"machineType"`
	OperatingSystemVersion string   `json:"operatingSystemVersion"`
	IP                     string   `json:"ip"`
	MACs                   []string `json:"macs"`
	SecurityStatus         *int     `json:"securityStatus"`
	LastSeen               *string  `json:"lastSeen"`
}

type EndpointList struct {
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"perPage"`
	PagesCount int        `json:"pagesCount"`
	Items      []Endpoint `json:"items"`
}

type Incident struct {
	ID           string     `json:"incidentId"`
	Type         string     `json:"type"`
	Severity     string     `json:"severity"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	EndpointName *string    `json:"endpointName"`
	Created      *time.Time `json:"created"`
}

type IncidentList struct {
	Total int        `json:"total"`
	Items []Incident `json:"items"`
}

type Policy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PolicyList struct {
	Total int      `json:"total"`
	Items []Policy `json:"items"`
}

// InstallationLink holds the download links of one installation package.
type InstallationLink struct {
	PackageName        string `json:"packageName"`
	CompanyName        string `json:"companyName"`
	InstallLinkWindows string `json:"installLinkWindows"`
	InstallLinkMac     string `json:"installLinkMac"`
	InstallLinkLinux   string `json:"installLinkLinux"`
}
