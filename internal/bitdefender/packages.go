package bitdefender

import (
	"context"
	"fmt"
)

// CreatePackage creates an installation package and returns its id.
func (c *Client) CreatePackage(ctx context.Context, companyID, name, description string) (string, error) {
	params := map[string]any{
		"packageName": name,
		"description": description,
		"language":    "en_US",
		"modules": map[string]any{
			"antimalware":           1,
			"advancedThreatControl": 1,
			"firewall":              1,
			"contentControl":        1,
		},
	}
	if companyID != "" {
		params["companyId"] = companyID
	}

	// The result is [packageId, companyId].
	var result []string
	if err := c.Call(ctx, ServicePackages, "createPackage", params, &result); err != nil {
		return "", fmt.Errorf("create package %q: %w", name, err)
	}
	if len(result) == 0 || result[0] == "" {
		return "", fmt.Errorf("create package %q: empty result", name)
	}
	return result[0], nil
}

// GetInstallationLinks is partner-level; packages are looked up by name.
func (c *Client) GetInstallationLinks(ctx context.Context, packageName string) ([]InstallationLink, error) {
	var links []InstallationLink
	if err := c.Call(ctx, ServicePackages, "getInstallationLinks", map[string]any{"packageName": packageName}, &links); err != nil {
		return nil, fmt.Errorf("installation links for %q: %w", packageName, err)
	}
	return links, nil
}
