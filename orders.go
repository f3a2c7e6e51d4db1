package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/konrad-grochowski/kraken-client-go/internal/precision"
	"github.com/konrad-grochowski/kraken-client-go/internal/signing"
)

// requiresPrice reports whether an order type carries a primary price.
func requiresPrice(t OrderType) bool {
	switch t {
	case Limit, StopLoss, TakeProfit, StopLossLimit, TakeProfitLimit:
		return true
	}
	return false
}

// requiresPrice2 reports whether an order type carries a secondary price
// (the limit leg of a triggered order).
func requiresPrice2(t OrderType) bool {
	return t == StopLossLimit || t == TakeProfitLimit
}

// AddOrder submits a new order. Volume and prices are truncated to the
// pair's advertised precision before encoding, and a volume below the pair's
// minimum is rejected locally without touching the network. Set req.Validate
// to have the server check the order without executing it.
func (c *KrakenClient) AddOrder(ctx context.Context, req AddOrderRequest) (*AddOrderResult, error) {
	if req.Pair == "" {
		return nil, &ValidationError{Field: "pair", Message: "required"}
	}
	if req.Side != Buy && req.Side != Sell {
		return nil, &ValidationError{Field: "side", Message: `must be "buy" or "sell"`}
	}
	if req.OrderType == "" {
		return nil, &ValidationError{Field: "ordertype", Message: "required"}
	}
	if !req.Volume.IsPositive() {
		return nil, &ValidationError{Field: "volume", Message: "must be positive"}
	}
	if requiresPrice(req.OrderType) && !req.Price.IsPositive() {
		return nil, &ValidationError{Field: "price", Message: fmt.Sprintf("required for %s orders", req.OrderType)}
	}
	if requiresPrice2(req.OrderType) && !req.Price2.IsPositive() {
		return nil, &ValidationError{Field: "price2", Message: fmt.Sprintf("required for %s orders", req.OrderType)}
	}

	meta, err := c.pairInfo(ctx, req.Pair)
	if err != nil {
		return nil, err
	}
	if err := precision.CheckOrderMin(req.Volume, meta.OrderMin); err != nil {
		return nil, &ValidationError{Field: "volume", Message: err.Error()}
	}

	var params signing.Form
	params.Add("pair", req.Pair)
	params.Add("type", string(req.Side))
	params.Add("ordertype", string(req.OrderType))
	params.Add("volume", precision.FormatVolume(req.Volume, meta.LotDecimals))
	if req.Price.IsPositive() {
		params.Add("price", precision.FormatPrice(req.Price, meta.PairDecimals))
	}
	if req.Price2.IsPositive() {
		params.Add("price2", precision.FormatPrice(req.Price2, meta.PairDecimals))
	}
	if req.Leverage != "" {
		params.Add("leverage", req.Leverage)
	}
	if len(req.Flags) > 0 {
		params.Add("oflags", strings.Join(req.Flags, ","))
	}
	if req.TimeInForce != "" {
		params.Add("timeinforce", string(req.TimeInForce))
	}
	if req.StartTime != "" {
		params.Add("starttm", req.StartTime)
	}
	if req.ExpireTime != "" {
		params.Add("expiretm", req.ExpireTime)
	}
	if req.UserRef != 0 {
		params.Add("userref", strconv.FormatInt(int64(req.UserRef), 10))
	}
	if req.Validate {
		params.Add("validate", "true")
	}

	raw, err := c.privateCall(ctx, EndpointAddOrder, params)
	if err != nil {
		return nil, err
	}
	var result AddOrderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing add order response: %w", err)
	}
	return &result, nil
}

// CancelOrder cancels an order by transaction ID. A userref value may be
// passed instead, in which case every order carrying it is cancelled.
func (c *KrakenClient) CancelOrder(ctx context.Context, txid string) (*CancelOrderResult, error) {
	if txid == "" {
		return nil, &ValidationError{Field: "txid", Message: "required"}
	}

	params := signing.Form{{Key: "txid", Value: txid}}
	raw, err := c.privateCall(ctx, EndpointCancelOrder, params)
	if err != nil {
		return nil, err
	}
	var result CancelOrderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing cancel order response: %w", err)
	}
	return &result, nil
}

// CancelAllOrders cancels every open order on the account.
func (c *KrakenClient) CancelAllOrders(ctx context.Context) (*CancelOrderResult, error) {
	raw, err := c.privateCall(ctx, EndpointCancelAll, nil)
	if err != nil {
		return nil, err
	}
	var result CancelOrderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("kraken: parsing cancel all response: %w", err)
	}
	return &result, nil
}
