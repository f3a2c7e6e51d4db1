package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetWebSocketsToken requests a token for authenticating private WebSocket
// subscriptions. The token must be presented within its Expires window when
// opening a subscription; feeds established with it stay live after expiry.
func (c *KrakenClient) GetWebSocketsToken(ctx context.Context) (*WebSocketsToken, error) {
	raw, err := c.privateCall(ctx, EndpointWebSocketsToken, nil)
	if err != nil {
		return nil, err
	}
	var token WebSocketsToken
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("kraken: parsing websockets token: %w", err)
	}
	return &token, nil
}
