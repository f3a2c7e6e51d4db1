package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
)

// GetTradesHistory returns one page of the account's fills, newest first,
// along with the total count available. Page through older fills by advancing
// opts.Ofs; the server caps each page at 50 entries.
func (c *KrakenClient) GetTradesHistory(ctx context.Context, opts TradesHistoryOptions) (*TradesHistoryResult, error) {
	var params signing.Form
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

	raw, err := c.privateCall(ctx, EndpointTradesHistory, params)
	if err != nil {
		return nil, err
	}
	var result TradesHistoryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing trades history: %w", err)
	}
	return &result, nil
}
