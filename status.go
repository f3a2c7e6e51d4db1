package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetSystemStatus reports whether the exchange is fully online or in a
// degraded mode (maintenance, cancel_only, post_only). Trading methods do not
// gate on this; callers that care should check before submitting orders.
func (c *KrakenClient) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	raw, err := c.publicGet(ctx, EndpointSystemStatus, nil)
	if err != nil {
		return nil, err
	}
	var status SystemStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("kraken: parsing system status: %w", err)
	}
	return &status, nil
}
