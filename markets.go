package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Public market data methods (no authentication)
// ---------------------------------------------------------------------------

// GetServerTime returns the server's wall-clock reading. Useful as a
// connectivity check and for spotting clock drift that would produce stale
// nonces.
func (c *KrakenClient) GetServerTime(ctx context.Context) (*ServerTime, error) {
	raw, err := c.publicGet(ctx, EndpointServerTime, nil)
	if err != nil {
		return nil, err
	}
	var st ServerTime
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("kraken: parsing server time: %w", err)
	}
	return &st, nil
}

// GetAssetPairs returns tradable pairs keyed by canonical name. With no
// arguments the full listing is returned; otherwise only the requested pairs
// (canonical names or altnames).
func (c *KrakenClient) GetAssetPairs(ctx context.Context, pairs ...string) (map[string]AssetPair, error) {
	query := map[string]string{}
	if len(pairs) > 0 {
		query["pair"] = strings.Join(pairs, ",")
	}
	raw, err := c.publicGet(ctx, EndpointAssetPairs, query)
	if err != nil {
		return nil, err
	}
	var result map[string]AssetPair
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing asset pairs: %w", err)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Cached metadata lookups
// ---------------------------------------------------------------------------

// pairInfo returns precision metadata for a pair (cached after first lookup).
// Entries are stored under both the canonical name and the altname so either
// spelling hits the cache.
func (c *KrakenClient) pairInfo(ctx context.Context, pair string) (*AssetPair, error) {
	if v, ok := c.pairMeta.Load(pair); ok {
		p := v.(AssetPair)
		return &p, nil
	}
	listing, err := c.GetAssetPairs(ctx, pair)
	if err != nil {
		return nil, err
	}
	for name, p := range listing {
		c.pairMeta.Store(name, p)
		if p.Altname != "" && p.Altname != name {
			c.pairMeta.Store(p.Altname, p)
		}
	}
	if v, ok := c.pairMeta.Load(pair); ok {
		p := v.(AssetPair)
		return &p, nil
	}
	return nil, &ValidationError{Field: "pair", Message: fmt.Sprintf("unknown asset pair %q", pair)}
}

// ClearPairCache invalidates cached asset-pair metadata for the given pairs,
// or for all pairs when called with no arguments.
func (c *KrakenClient) ClearPairCache(pairs ...string) {
	if len(pairs) == 0 {
		c.pairMeta.Range(func(k, _ interface{}) bool {
			c.pairMeta.Delete(k)
			return true
		})
		return
	}
	for _, p := range pairs {
		c.pairMeta.Delete(p)
	}
}
