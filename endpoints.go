package client

const (
	// Public market data
	EndpointServerTime   = "/0/public/Time"
	EndpointSystemStatus = "/0/public/SystemStatus"
	EndpointAssetPairs   = "/0/public/AssetPairs"

	// Private account data
	EndpointBalance       = "/0/private/Balance"
	EndpointOpenOrders    = "/0/private/OpenOrders"
	EndpointTradesHistory = "/0/private/TradesHistory"
	EndpointLedgers       = "/0/private/Ledgers"

	// Private trading
	EndpointAddOrder    = "/0/private/AddOrder"
	EndpointCancelOrder = "/0/private/CancelOrder"
	EndpointCancelAll   = "/0/private/CancelAll"

	// WebSocket auth
	EndpointWebSocketsToken = "/0/private/GetWebSocketsToken"
)
