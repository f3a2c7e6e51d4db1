package ws

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Channel names on the v2 stream. Data frames are tagged by the "channel"
// field; heartbeat and status frames arrive without being subscribed.
const (
	ChannelTicker     = "ticker"
	ChannelExecutions = "executions"
	ChannelBalances   = "balances"
	ChannelHeartbeat  = "heartbeat"
	ChannelStatus     = "status"
)

// Request method names.
const (
	MethodSubscribe   = "subscribe"
	MethodUnsubscribe = "unsubscribe"
	MethodPing        = "ping"
	MethodPong        = "pong"
)

// request is the client-to-server envelope.
type request struct {
	Method string        `json:"method"`
	Params *subscription `json:"params,omitempty"`
}

// subscription carries the channel parameters of a subscribe or unsubscribe.
// Token authenticates private channels and is injected at send time so every
// reconnect uses a fresh one.
type subscription struct {
	Channel string   `json:"channel"`
	Symbol  []string `json:"symbol,omitempty"`
	Token   string   `json:"token,omitempty"`
}

// message is the server-to-client envelope used for dispatch. Data frames set
// Channel; method acknowledgements set Method plus Success/Error.
type message struct {
	Channel string          `json:"channel"`
	Type    string          `json:"type"` // snapshot or update
	Method  string          `json:"method"`
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Ticker is a level-1 market data update for one symbol.
type Ticker struct {
	Symbol    string          `json:"symbol"`
	Bid       decimal.Decimal `json:"bid"`
	BidQty    decimal.Decimal `json:"bid_qty"`
	Ask       decimal.Decimal `json:"ask"`
	AskQty    decimal.Decimal `json:"ask_qty"`
	Last      decimal.Decimal `json:"last"`
	Volume    decimal.Decimal `json:"volume"`
	VWAP      decimal.Decimal `json:"vwap"`
	Low       decimal.Decimal `json:"low"`
	High      decimal.Decimal `json:"high"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// Execution is an order lifecycle event from the private executions channel.
type Execution struct {
	OrderID     string          `json:"order_id"`
	ExecID      string          `json:"exec_id"`
	ExecType    string          `json:"exec_type"` // pending_new, new, trade, filled, canceled, expired
	OrderStatus string          `json:"order_status"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	OrderType   string          `json:"order_type"`
	OrderQty    decimal.Decimal `json:"order_qty"`
	CumQty      decimal.Decimal `json:"cum_qty"`
	LastQty     decimal.Decimal `json:"last_qty"`
	LastPrice   decimal.Decimal `json:"last_price"`
	AvgPrice    decimal.Decimal `json:"avg_price"`
	LimitPrice  decimal.Decimal `json:"limit_price"`
	Fees        []AssetAmount   `json:"fees"`
	Timestamp   string          `json:"timestamp"`
}

// AssetAmount is a quantity denominated in a single asset.
type AssetAmount struct {
	Asset string          `json:"asset"`
	Qty   decimal.Decimal `json:"qty"`
}

// BalanceUpdate is a wallet balance event from the private balances channel.
type BalanceUpdate struct {
	Asset   string          `json:"asset"`
	Balance decimal.Decimal `json:"balance"`
	Type    string          `json:"type,omitempty"` // movement type on updates, e.g. trade or deposit
}
