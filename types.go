package client

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Enums
// ---------------------------------------------------------------------------

// OrderSide represents the direction of an order.
type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OrderType represents the execution strategy for an order.
type OrderType string

const (
	Market          OrderType = "market"
	Limit           OrderType = "limit"
	StopLoss        OrderType = "stop-loss"
	TakeProfit      OrderType = "take-profit"
	StopLossLimit   OrderType = "stop-loss-limit"
	TakeProfitLimit OrderType = "take-profit-limit"
	SettlePosition  OrderType = "settle-position"
)

// TimeInForce represents how long an order remains active.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	GTD TimeInForce = "GTD"
)

// Order flag values for the oflags request parameter.
const (
	FlagPostOnly        = "post" // maker-only; reject if it would take liquidity
	FlagFeeInBase       = "fcib"
	FlagFeeInQuote      = "fciq"
	FlagNoMarketProtect = "nompp"
)

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials holds the long-lived key material for private endpoints.
// ApiSecret is the base64 string exactly as issued; OtpSeed is the base32
// two-factor seed and stays empty when the key has no one-time-password
// requirement. The client never mutates or logs these values.
type Credentials struct {
	ApiKey    string
	ApiSecret string
	OtpSeed   string
}

// ---------------------------------------------------------------------------
// Public market data types
// ---------------------------------------------------------------------------

// ServerTime is the server's wall-clock reading.
type ServerTime struct {
	UnixTime int64  `json:"unixtime"`
	RFC1123  string `json:"rfc1123"`
}

// SystemStatus reports the exchange's operational mode.
type SystemStatus struct {
	Status    string `json:"status"` // online, maintenance, cancel_only, post_only
	Timestamp string `json:"timestamp"`
}

// AssetPair describes one tradable pair, including the precision metadata
// that order parameters must respect.
type AssetPair struct {
	Altname           string              `json:"altname"`
	WSName            string              `json:"wsname"`
	Base              string              `json:"base"`
	Quote             string              `json:"quote"`
	Status            string              `json:"status"`
	PairDecimals      int32               `json:"pair_decimals"` // price precision
	CostDecimals      int32               `json:"cost_decimals"`
	LotDecimals       int32               `json:"lot_decimals"` // volume precision
	LotMultiplier     int                 `json:"lot_multiplier"`
	LeverageBuy       []int               `json:"leverage_buy"`
	LeverageSell      []int               `json:"leverage_sell"`
	Fees              [][]decimal.Decimal `json:"fees"`
	FeesMaker         [][]decimal.Decimal `json:"fees_maker"`
	FeeVolumeCurrency string              `json:"fee_volume_currency"`
	MarginCall        int                 `json:"margin_call"`
	MarginStop        int                 `json:"margin_stop"`
	OrderMin          decimal.Decimal     `json:"ordermin"`
	CostMin           decimal.Decimal     `json:"costmin"`
	TickSize          decimal.Decimal     `json:"tick_size"`
}

// ---------------------------------------------------------------------------
// Account types
// ---------------------------------------------------------------------------

// Balance maps asset names to their available amounts.
type Balance map[string]decimal.Decimal

// OrderDescription is the human-oriented breakdown of an order's terms.
type OrderDescription struct {
	Pair      string          `json:"pair"`
	Side      OrderSide       `json:"type"`
	OrderType OrderType       `json:"ordertype"`
	Price     decimal.Decimal `json:"price"`
	Price2    decimal.Decimal `json:"price2"`
	Leverage  string          `json:"leverage"`
	Order     string          `json:"order"`
	Close     string          `json:"close"`
}

// OpenOrder is a single live order as reported by the open-orders endpoint.
type OpenOrder struct {
	RefID          *string          `json:"refid"`
	UserRef        int32            `json:"userref"`
	Status         string           `json:"status"` // pending, open, closed, canceled, expired
	OpenTime       float64          `json:"opentm"`
	StartTime      float64          `json:"starttm"`
	ExpireTime     float64          `json:"expiretm"`
	Description    OrderDescription `json:"descr"`
	Volume         decimal.Decimal  `json:"vol"`
	VolumeExecuted decimal.Decimal  `json:"vol_exec"`
	Cost           decimal.Decimal  `json:"cost"`
	Fee            decimal.Decimal  `json:"fee"`
	Price          decimal.Decimal  `json:"price"`
	StopPrice      decimal.Decimal  `json:"stopprice"`
	LimitPrice     decimal.Decimal  `json:"limitprice"`
	Misc           string           `json:"misc"`
	Flags          string           `json:"oflags"`
	Trades         []string         `json:"trades"`
}

// OpenOrdersResult wraps the open-orders map, keyed by transaction ID.
type OpenOrdersResult struct {
	Open map[string]OpenOrder `json:"open"`
}

// OpenOrdersOptions narrows an open-orders query.
type OpenOrdersOptions struct {
	Trades  bool  // include trade IDs for partially filled orders
	UserRef int32 // restrict to orders carrying this user reference
}

// TradeHistoryEntry is a single fill from the trades-history endpoint.
type TradeHistoryEntry struct {
	OrderTxID string          `json:"ordertxid"`
	PosTxID   string          `json:"postxid"`
	Pair      string          `json:"pair"`
	Time      float64         `json:"time"`
	Side      OrderSide       `json:"type"`
	OrderType OrderType       `json:"ordertype"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Fee       decimal.Decimal `json:"fee"`
	Volume    decimal.Decimal `json:"vol"`
	Margin    decimal.Decimal `json:"margin"`
	Misc      string          `json:"misc"`
	TradeID   int64           `json:"trade_id"`
	Maker     bool            `json:"maker"`
}

// TradesHistoryResult wraps the fills map, keyed by trade ID, plus the total
// count available for pagination.
type TradesHistoryResult struct {
	Trades map[string]TradeHistoryEntry `json:"trades"`
	Count  int                          `json:"count"`
}

// TradesHistoryOptions narrows a trades-history query.
type TradesHistoryOptions struct {
	Type  string // all, any position, closed position, closing position, no position
	Start string // starting unix timestamp or trade ID
	End   string // ending unix timestamp or trade ID
	Ofs   int    // result offset for pagination
}

// LedgerEntry is a single ledger movement (trade, deposit, withdrawal, ...).
type LedgerEntry struct {
	RefID      string          `json:"refid"`
	Time       float64         `json:"time"`
	Type       string          `json:"type"`
	Subtype    string          `json:"subtype"`
	AssetClass string          `json:"aclass"`
	Asset      string          `json:"asset"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	Balance    decimal.Decimal `json:"balance"`
}

// LedgersResult wraps the ledger map, keyed by ledger ID.
type LedgersResult struct {
	Ledger map[string]LedgerEntry `json:"ledger"`
	Count  int                    `json:"count"`
}

// LedgersOptions narrows a ledgers query.
type LedgersOptions struct {
	Asset []string // restrict to these assets
	Type  string   // all, trade, deposit, withdrawal, margin, ...
	Start string
	End   string
	Ofs   int
}

// ---------------------------------------------------------------------------
// Trading types
// ---------------------------------------------------------------------------

// AddOrderRequest describes a new order. Volume and prices are normalized to
// the pair's advertised precision before encoding; a volume below the pair's
// minimum is rejected locally.
type AddOrderRequest struct {
	Pair        string
	Side        OrderSide
	OrderType   OrderType
	Volume      decimal.Decimal
	Price       decimal.Decimal // primary price; unused for market orders
	Price2      decimal.Decimal // secondary price for stop/take-profit-limit types
	Leverage    string
	Flags       []string // oflags values, e.g. FlagPostOnly
	TimeInForce TimeInForce
	StartTime   string // starttm: 0, +<seconds>, or unix timestamp
	ExpireTime  string // expiretm: same scheme
	UserRef     int32
	Validate    bool // validate only; the order is not submitted
}

// AddOrderDescription echoes the accepted order's terms.
type AddOrderDescription struct {
	Order string `json:"order"`
	Close string `json:"close"`
}

// AddOrderResult is the response to a successful order submission.
type AddOrderResult struct {
	Description AddOrderDescription `json:"descr"`
	TxIDs       []string            `json:"txid"`
}

// CancelOrderResult reports how many orders a cancel affected. Pending is set
// when cancellation was accepted but has not completed yet.
type CancelOrderResult struct {
	Count   int  `json:"count"`
	Pending bool `json:"pending"`
}

// ---------------------------------------------------------------------------
// WebSocket auth types
// ---------------------------------------------------------------------------

// WebSocketsToken authenticates private WebSocket subscriptions. The token
// must be used within Expires seconds to open a subscription; an established
// subscription outlives it.
type WebSocketsToken struct {
	Token   string `json:"token"`
	Expires int    `json:"expires"`
}
