package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
)

// GetLedgers returns one page of the account's ledger entries keyed by ledger
// ID, oldest entries reachable by advancing opts.Ofs. The ledger covers every
// balance movement: trades, deposits, withdrawals, margin events and fees.
func (c *KrakenClient) GetLedgers(ctx context.Context, opts LedgersOptions) (*LedgersResult, error) {
	var params signing.Form
	if len(opts.Asset) > 0 {
		params.Add("asset", strings.Join(opts.Asset, ","))
	}
	if opts.Type != "" {
		params.Add("type", opts.Type)
	}
	if opts.Start != "" {
		params.Add("start", opts.Start)
	}
	if opts.End != "" {
		params.Add("end", opts.End)
	}
	if opts.Ofs > 0 {
		params.Add("ofs", strconv.Itoa(opts.Ofs))
	}

	raw, err := c.privateCall(ctx, EndpointLedgers, params)
	if err != nil {
		return nil, err
	}
	var result LedgersResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing ledgers: %w", err)
	}
	return &result, nil
}
