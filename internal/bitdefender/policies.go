package bitdefender

import (
	"context"
	"fmt"
)

func (c *Client) GetPoliciesList(ctx context.Context, companyID string, page, perPage int) (*PolicyList, error) {
	var list PolicyList
	if err := c.Call(ctx, ServicePolicies, "getPoliciesList", pageParams(companyID, page, perPage), &list); err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return &list, nil
}
