package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"PairPulse/internal/domain/models"
	drepo "PairPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream backed by the Binance futures trade
// WebSocket.
type Client struct {
	websocketURL string
	symbols      []string
	backoffMin   time.Duration
	backoffMax   time.Duration
	pingInterval time.Duration

	conn      *websocket.Conn
	connected bool
	attempts  int
	pingDone  chan struct{}
}

// New creates a new Binance MarketStream for the given symbols.
func New(websocketURL string, symbols []string, backoffMin, backoffMax, pingInterval time.Duration) drepo.MarketStream {
	if backoffMin <= 0 {
		backoffMin = time.Second
	}
	if backoffMax < backoffMin {
		backoffMax = 30 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Client{
		websocketURL: websocketURL,
		symbols:      symbols,
		backoffMin:   backoffMin,
		backoffMax:   backoffMax,
		pingInterval: pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("binance connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.attempts = 0
	log.Printf("binance: connected")
	return nil
}

// Subscribe subscribes to the trade streams of the configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("binance not connected")
	}
	params := make([]string, 0, len(c.symbols))
	for _, s := range c.symbols {
		params = append(params, strings.ToLower(s)+"@trade")
	}
	msg := map[string]interface{}{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     1,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe %v: %w", params, err)
	}
	log.Printf("binance: subscribed %s", strings.Join(params, ", "))
	return nil
}

// trade frame: {"e":"trade","s":"BTCUSDT","p":"98000.50","q":"0.012","T":1678900000000}
type bnTrade struct {
	Event    string `json:"e"`
	Symbol   string `json:"s"`
	Price    string `json:"p"`
	Quantity string `json:"q"`
	T        int64  `json:"T"` // ms
}

// Read streams Tick events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	// Both loops are bound to the connection current at call time. The ping
	// loop additionally stops on pingDone, which Close fires before any
	// reconnect dials a new conn, so only one goroutine ever writes to a
	// given connection.
	conn := c.conn
	done := make(chan struct{})
	c.pingDone = done

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if conn == nil {
					errs <- fmt.Errorf("binance conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("binance read: %w", err)
					return
				}
				var m bnTrade
				if err := json.Unmarshal(b, &m); err != nil {
					// subscription acks and other non-trade frames
					continue
				}
				if m.Event != "trade" {
					continue
				}
				price, perr := strconv.ParseFloat(m.Price, 64)
				qty, qerr := strconv.ParseFloat(m.Quantity, 64)
				if perr != nil || qerr != nil {
					continue
				}
				tick := &models.Tick{Symbol: m.Symbol, Price: price, Quantity: qty, Timestamp: m.T}
				select {
				case ticks <- tick:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// Reconnect closes and reconnects with bounded exponential backoff.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()

	delay := c.backoffMin << c.attempts
	if delay > c.backoffMax || delay <= 0 {
		delay = c.backoffMax
	}
	c.attempts++
	log.Printf("binance: reconnecting in %s", delay)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close stops the ping loop for the current connection and closes it.
func (c *Client) Close() error {
	c.connected = false
	if c.pingDone != nil {
		close(c.pingDone)
		c.pingDone = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
