package bitdefender

import (
	"context"
	"fmt"
)

// DefaultPerPage is the page size used by list calls that take no explicit size.
const DefaultPerPage = 100

// GetEndpointsList returns one page of endpoints of a company. An empty
// companyID uses the client default.
func (c *Client) GetEndpointsList(ctx context.Context, companyID string, page, perPage int) (*EndpointList, error) {
	params := pageParams(companyID, page, perPage)
	params["isManaged"] = true

	var list EndpointList
	if err := c.Call(ctx, ServiceNetwork, "getEndpointsList", params, &list); err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	return &list, nil
}

func pageParams(companyID string, page, perPage int) map[string]any {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	params := map[string]any{"page": page, "perPage": perPage}
	if companyID != "" {
		params["companyId"] = companyID
	}
	return params
}
