// Package ws streams market data and private account events over the
// exchange's v2 WebSocket API. Connections dial lazily, reconnect with
// exponential backoff and replay their subscriptions; private channels
// authenticate with a short-lived token fetched through a TokenFunc so each
// reconnect presents a fresh one.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// PublicURL serves market data channels.
	PublicURL = "wss://ws.kraken.com/v2"
	// AuthURL serves token-authenticated account channels.
	AuthURL = "wss://ws-auth.kraken.com/v2"

	PingInterval      = 5 * time.Second
	PongTimeout       = 15 * time.Second
	InitialBackoff    = 1 * time.Second
	MaxBackoff        = 60 * time.Second
	BackoffMultiplier = 2.0
	channelBufferSize = 256
)

// TokenFunc returns a token for authenticating private subscriptions,
// normally backed by the REST client's GetWebSocketsToken. It is called again
// on every reconnect, so implementations should hand out a current token each
// time rather than caching one.
type TokenFunc func(ctx context.Context) (string, error)

// Client is a WebSocket client for the exchange's real-time v2 API.
type Client struct {
	publicURL string
	authURL   string
	tokenFn   TokenFunc
	log       zerolog.Logger
	connCtx   context.Context

	mu       sync.Mutex
	pubConn  *connection
	authConn *connection
}

// Option configures the WebSocket client.
type Option func(*Client)

// WithPublicURL overrides the public market data endpoint.
func WithPublicURL(url string) Option {
	return func(c *Client) { c.publicURL = url }
}

// WithAuthURL overrides the authenticated endpoint.
func WithAuthURL(url string) Option {
	return func(c *Client) { c.authURL = url }
}

// WithToken supplies the token source required by private channels.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.tokenFn = fn }
}

// WithLogger attaches a logger for connection lifecycle and protocol events.
// The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithConnectionContext ties every connection's lifetime to ctx; cancelling it
// stops all reconnect loops. The default is context.Background, leaving
// Close as the only way to shut down.
func WithConnectionContext(ctx context.Context) Option {
	return func(c *Client) { c.connCtx = ctx }
}

// NewClient creates a WebSocket client. No connection is dialed until the
// first subscription.
func NewClient(opts ...Option) *Client {
	c := &Client{
		publicURL: PublicURL,
		authURL:   AuthURL,
		log:       zerolog.Nop(),
		connCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// trackedSub is a subscription to replay after reconnect. Private channel
// params never store a token; sendSubscribe injects a fresh one each time.
type trackedSub struct {
	params  subscription
	private bool
}

// connection manages a single WebSocket connection (public or auth).
type connection struct {
	url     string
	ctx     context.Context
	cancel  context.CancelFunc
	tokenFn TokenFunc
	log     zerolog.Logger

	conn   *websocket.Conn
	connMu sync.Mutex

	// writeMu serialises all WebSocket write operations.
	// gorilla/websocket does not support concurrent writers.
	writeMu sync.Mutex

	subsMu sync.Mutex
	subs   []trackedSub // tracked for re-subscribe on reconnect

	// Message broadcast
	listeners []listener
	listMu    sync.Mutex
	nextID    uint64

	// closed is set by close() to signal that dispatch should stop.
	closed bool

	// Liveness tracking, fed by pong replies and heartbeat frames.
	lastSeen time.Time
	seenMu   sync.Mutex
}

type listener struct {
	id      uint64
	channel string // filter by channel name, empty = all
	ch      chan json.RawMessage
}

// newConnection creates and starts a connection to the given WS URL.
func newConnection(parentCtx context.Context, url, name string, tokenFn TokenFunc, log zerolog.Logger) *connection {
	ctx, cancel := context.WithCancel(parentCtx)
	c := &connection{
		url:     url,
		ctx:     ctx,
		cancel:  cancel,
		tokenFn: tokenFn,
		log:     log.With().Str("conn", name).Logger(),
	}
	go c.connectLoop()
	return c
}

// connectLoop manages the connect -> read -> reconnect cycle.
func (c *connection) connectLoop() {
	var attempt int
	for {
		if c.ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, c.url, nil)
		if err != nil {
			attempt++
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("ws: dial failed")
			c.backoff(attempt)
			continue
		}

		c.connMu.Lock()
		c.conn = conn
		c.connMu.Unlock()

		attempt = 0
		c.markAlive()
		c.log.Info().Str("url", c.url).Msg("ws: connected")

		c.resubscribe()

		heartbeatCtx, heartbeatCancel := context.WithCancel(c.ctx)
		go c.heartbeatLoop(heartbeatCtx)

		// Read until error (pass conn directly to avoid racy read of c.conn)
		c.readLoop(conn)

		heartbeatCancel()
		c.connMu.Lock()
		c.conn.Close()
		c.conn = nil
		c.connMu.Unlock()

		if c.ctx.Err() != nil {
			return
		}
		attempt++
		c.log.Warn().Int("attempt", attempt).Msg("ws: connection lost, reconnecting")
		c.backoff(attempt)
	}
}

// readLoop reads frames from the WebSocket and dispatches them.
func (c *connection) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(data)
	}
}

// dispatch classifies one frame: liveness markers, method acknowledgements,
// status updates, or channel data for listeners.
func (c *connection) dispatch(data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Debug().Err(err).Msg("ws: discarding unparseable frame")
		return
	}

	switch {
	case msg.Method == MethodPong:
		c.markAlive()
	case msg.Channel == ChannelHeartbeat:
		c.markAlive()
	case msg.Method != "":
		// Subscribe/unsubscribe acknowledgements carry a success flag.
		if msg.Success != nil && !*msg.Success {
			c.log.Warn().Str("method", msg.Method).Str("error", msg.Error).Msg("ws: request rejected")
		} else {
			c.log.Debug().Str("method", msg.Method).Msg("ws: request acknowledged")
		}
	case msg.Channel == ChannelStatus:
		var states []struct {
			System     string `json:"system"`
			APIVersion string `json:"api_version"`
		}
		if err := json.Unmarshal(msg.Data, &states); err == nil && len(states) > 0 {
			c.log.Info().Str("system", states[0].System).Str("api_version", states[0].APIVersion).Msg("ws: exchange status")
		}
	default:
		c.deliver(msg.Channel, data)
	}
}

// deliver fans a data frame out to listeners matching its channel.
func (c *connection) deliver(channel string, data []byte) {
	c.listMu.Lock()
	defer c.listMu.Unlock()

	// After close() has been called, listeners are closed; do not send.
	if c.closed {
		return
	}

	for _, l := range c.listeners {
		if l.channel == "" || l.channel == channel {
			select {
			case l.ch <- json.RawMessage(data):
			default:
				// Drop if channel is full (slow consumer)
			}
		}
	}
}

func (c *connection) markAlive() {
	c.seenMu.Lock()
	c.lastSeen = time.Now()
	c.seenMu.Unlock()
}

// heartbeatLoop sends pings and forces a reconnect when the server goes
// silent for longer than PongTimeout.
func (c *connection) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()

			if conn == nil {
				return
			}

			c.seenMu.Lock()
			lastSeen := c.lastSeen
			c.seenMu.Unlock()

			if !lastSeen.IsZero() && time.Since(lastSeen) > PongTimeout {
				c.log.Warn().Msg("ws: server silent, forcing reconnect")
				conn.Close()
				return
			}

			c.writeMu.Lock()
			err := conn.WriteJSON(request{Method: MethodPing})
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// subscribe adds a listener, tracks the subscription for reconnects and sends
// the subscribe request. Before the first successful dial the send fails
// silently; resubscribe replays it once connected.
func (c *connection) subscribe(ctx context.Context, sub trackedSub, channel string) <-chan json.RawMessage {
	ch := make(chan json.RawMessage, channelBufferSize)
	id := atomic.AddUint64(&c.nextID, 1)

	c.listMu.Lock()
	c.listeners = append(c.listeners, listener{id: id, channel: channel, ch: ch})
	c.listMu.Unlock()

	c.subsMu.Lock()
	c.subs = append(c.subs, sub)
	c.subsMu.Unlock()

	if err := c.sendSubscribe(sub); err != nil {
		c.log.Debug().Err(err).Str("channel", channel).Msg("ws: subscribe deferred until connect")
	}

	go func() {
		<-ctx.Done()
		c.removeListener(id)
	}()

	return ch
}

// resubscribe replays all tracked subscriptions (after reconnect).
func (c *connection) resubscribe() {
	c.subsMu.Lock()
	subs := make([]trackedSub, len(c.subs))
	copy(subs, c.subs)
	c.subsMu.Unlock()

	for _, sub := range subs {
		if err := c.sendSubscribe(sub); err != nil {
			c.log.Warn().Err(err).Str("channel", sub.params.Channel).Msg("ws: resubscribe failed")
		}
	}
}

// sendSubscribe sends one subscribe request, fetching a fresh token first for
// private channels.
func (c *connection) sendSubscribe(sub trackedSub) error {
	params := sub.params
	if sub.private {
		if c.tokenFn == nil {
			return fmt.Errorf("ws: token source required for %s channel", params.Channel)
		}
		token, err := c.tokenFn(c.ctx)
		if err != nil {
			return fmt.Errorf("ws: fetching token: %w", err)
		}
		params.Token = token
	}
	return c.sendJSON(request{Method: MethodSubscribe, Params: &params})
}

// sendJSON sends a JSON message over the WebSocket.
func (c *connection) sendJSON(v interface{}) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return fmt.Errorf("ws: not connected")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

// backoff sleeps for an exponentially increasing duration with jitter.
func (c *connection) backoff(attempt int) {
	delay := float64(InitialBackoff) * math.Pow(BackoffMultiplier, float64(attempt-1))
	if delay > float64(MaxBackoff) {
		delay = float64(MaxBackoff)
	}
	// Jitter: [0.5, 1.5]
	jitter := 0.5 + rand.Float64()
	actual := time.Duration(delay * jitter)

	timer := time.NewTimer(actual)
	defer timer.Stop()
	select {
	case <-c.ctx.Done():
	case <-timer.C:
	}
}

// close shuts down the connection.
func (c *connection) close() {
	c.cancel()
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.connMu.Unlock()

	// Mark closed before closing channels so deliver won't write to them.
	c.listMu.Lock()
	c.closed = true
	for _, l := range c.listeners {
		close(l.ch)
	}
	c.listeners = nil
	c.listMu.Unlock()
}

func (c *connection) removeListener(id uint64) {
	c.listMu.Lock()
	defer c.listMu.Unlock()
	if c.closed {
		return
	}
	for i, l := range c.listeners {
		if l.id != id {
			continue
		}
		close(l.ch)
		c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
		return
	}
}

// removeTrackedSymbols drops tracked subscriptions on a channel that name any
// of the given symbols, so a reconnect won't replay them.
func (c *connection) removeTrackedSymbols(channel string, symbols []string) {
	remove := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		remove[s] = struct{}{}
	}
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	filtered := c.subs[:0]
	for _, sub := range c.subs {
		keep := true
		if sub.params.Channel == channel {
			for _, s := range sub.params.Symbol {
				if _, ok := remove[s]; ok {
					keep = false
					break
				}
			}
		}
		if keep {
			filtered = append(filtered, sub)
		}
	}
	c.subs = filtered
}

// --- Public API ---

// getPublicConn lazily initializes the market data connection. Its lifetime
// is governed by the client's connection context, not any one caller's.
func (c *Client) getPublicConn() *connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubConn == nil {
		c.pubConn = newConnection(c.connCtx, c.publicURL, "public", nil, c.log)
	}
	return c.pubConn
}

// getAuthConn lazily initializes the authenticated connection.
func (c *Client) getAuthConn() *connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authConn == nil {
		c.authConn = newConnection(c.connCtx, c.authURL, "auth", c.tokenFn, c.log)
	}
	return c.authConn
}

// pump converts raw channel frames into typed events. Each frame's data array
// is flattened, one event per element.
func pump[T any](ctx context.Context, raw <-chan json.RawMessage) <-chan T {
	out := make(chan T, channelBufferSize)
	go func() {
		defer close(out)
		for msg := range raw {
			var env struct {
				Data []T `json:"data"`
			}
			if json.Unmarshal(msg, &env) != nil {
				continue
			}
			for _, event := range env.Data {
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// SubscribeTicker subscribes to level-1 ticker updates for the given symbols
// (e.g. "BTC/USD"). The channel closes when ctx is cancelled or the client is
// closed.
func (c *Client) SubscribeTicker(ctx context.Context, symbols ...string) <-chan Ticker {
	sub := trackedSub{params: subscription{Channel: ChannelTicker, Symbol: symbols}}
	raw := c.getPublicConn().subscribe(ctx, sub, ChannelTicker)
	return pump[Ticker](ctx, raw)
}

// SubscribeExecutions subscribes to the account's order lifecycle events.
// Requires a token source (WithToken).
func (c *Client) SubscribeExecutions(ctx context.Context) <-chan Execution {
	sub := trackedSub{params: subscription{Channel: ChannelExecutions}, private: true}
	raw := c.getAuthConn().subscribe(ctx, sub, ChannelExecutions)
	return pump[Execution](ctx, raw)
}

// SubscribeBalances subscribes to the account's balance movements.
// Requires a token source (WithToken).
func (c *Client) SubscribeBalances(ctx context.Context) <-chan BalanceUpdate {
	sub := trackedSub{params: subscription{Channel: ChannelBalances}, private: true}
	raw := c.getAuthConn().subscribe(ctx, sub, ChannelBalances)
	return pump[BalanceUpdate](ctx, raw)
}

// Close shuts down all WebSocket connections and closes all subscription
// channels.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pubConn != nil {
		c.pubConn.close()
		c.pubConn = nil
	}
	if c.authConn != nil {
		c.authConn.close()
		c.authConn = nil
	}
}
