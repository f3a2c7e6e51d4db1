package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
)

// GetBalance returns the account's asset balances. The server omits assets
// the account has never held.
func (c *KrakenClient) GetBalance(ctx context.Context) (Balance, error) {
	raw, err := c.privateCall(ctx, EndpointBalance, nil)
	if err != nil {
		return nil, err
	}
	var balance Balance
	if err := json.Unmarshal(raw, &balance); err != nil {
		return nil, fmt.Errorf("kraken: parsing balance: %w", err)
	}
	return balance, nil
}

// GetOpenOrders returns the account's open orders keyed by transaction ID.
func (c *KrakenClient) GetOpenOrders(ctx context.Context, opts OpenOrdersOptions) (map[string]OpenOrder, error) {
	var params signing.Form
	if opts.Trades {
		params.Add("trades", "true")
	}
	if opts.UserRef != 0 {
		params.Add("userref", strconv.FormatInt(int64(opts.UserRef), 10))
	}

	raw, err := c.privateCall(ctx, EndpointOpenOrders, params)
	if err != nil {
		return nil, err
	}
	var result OpenOrdersResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing open orders: %w", err)
	}
	return result.Open, nil
}
