package bitdefender

import (
	"context"
	"fmt"
)

func (c *Client) GetIncidentsList(ctx context.Context, companyID string, page, perPage int) (*IncidentList, error) {
	var list IncidentList
	if err := c.Call(ctx, ServiceIncidents, "getIncidentsList", pageParams(companyID, page, perPage), &list); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return &list, nil
}
