package ws

import "context"

// UnsubscribeTicker stops ticker updates for the given symbols. Tracked
// subscriptions naming any of them are dropped so a reconnect won't replay
// them; listeners stay open until their context ends.
func (c *Client) UnsubscribeTicker(ctx context.Context, symbols ...string) error {
	c.mu.Lock()
	conn := c.pubConn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	params := subscription{Channel: ChannelTicker, Symbol: symbols}
	if err := conn.sendJSON(request{Method: MethodUnsubscribe, Params: &params}); err != nil {
		return err
	}
	conn.removeTrackedSymbols(ChannelTicker, symbols)
	return nil
}
