package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	drepo "PegGuard/internal/domain/repository"
	xhttp "PegGuard/pkg/http"
	xlogger "PegGuard/pkg/logger"

	"github.com/gorilla/websocket"
)

// priceScale is the fixed-point scale of oracle prices on the wire.
const priceScale = 1e8

// Client implements an OracleStream backed by a price-oracle WebSocket with
// an HTTP snapshot endpoint for the initial reading.
type Client struct {
	apiKey         string
	websocketURL   string
	snapshotURL    string
	feedID         string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	logger *xlogger.Logger
	http   *xhttp.Client

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	latest    drepo.Reading
}

// New creates an oracle stream client. The returned client holds no reading
// until Connect or the stream delivers one; Latest reports Unavailable until
// then.
func New(apiKey, websocketURL, snapshotURL, feedID string, reconnectDelay, pingInterval time.Duration, logger *xlogger.Logger) drepo.OracleStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		snapshotURL:    snapshotURL,
		feedID:         feedID,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         logger,
		http:           xhttp.NewClient(xhttp.WithTimeout(5 * time.Second)),
		latest:         drepo.Unavailable("no observation yet"),
	}
}

// Connect fetches an initial snapshot and establishes the WebSocket.
// Snapshot failure is not fatal: the stream can still deliver readings, and
// Latest stays Unavailable in the meantime.
func (c *Client) Connect(ctx context.Context) error {
	if snap, err := c.fetchSnapshot(ctx); err != nil {
		c.logger.Warn("oracle snapshot failed", xlogger.Error(err))
	} else {
		c.store(snap)
	}

	u := fmt.Sprintf("%s?feed=%s&token=%s", c.websocketURL, c.feedID, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("oracle connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.logger.Info("oracle: connected", xlogger.String("feed", c.feedID))
	return nil
}

// oracleFrame is one price update on the wire. Price is fixed-point scaled
// by 1e8; UpdatedAt is unix seconds.
type oracleFrame struct {
	Type      string `json:"type"`
	Price     int64  `json:"price"`
	UpdatedAt int64  `json:"updated_at"`
}

// snapshotResponse is the HTTP snapshot payload, same scaling as frames.
type snapshotResponse struct {
	Price     int64 `json:"price"`
	UpdatedAt int64 `json:"updated_at"`
}

func (c *Client) fetchSnapshot(ctx context.Context) (drepo.Reading, error) {
	if c.snapshotURL == "" {
		return drepo.Reading{}, fmt.Errorf("no snapshot url configured")
	}
	var snap snapshotResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.snapshotURL,
		QueryParams: map[string][]string{
			"feed":  {c.feedID},
			"token": {c.apiKey},
		},
	}, &snap)
	if err != nil {
		return drepo.Reading{}, fmt.Errorf("oracle snapshot: %w", err)
	}
	return normalize(snap.Price, snap.UpdatedAt), nil
}

// Run reads frames until ctx is done, reconnecting on read failure. Each
// accepted frame replaces the latest reading; a dead connection downgrades it
// to Unavailable so the classifier falls back instead of consuming stale
// truth.
func (c *Client) Run(ctx context.Context) {
	go c.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn := c.current()
		if conn == nil {
			c.markUnavailable("oracle connection down")
			if err := c.Reconnect(ctx); err != nil {
				c.logger.Warn("oracle reconnect failed", xlogger.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.reconnectDelay):
				}
			}
			continue
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("oracle read failed", xlogger.Error(err))
			c.markUnavailable(fmt.Sprintf("oracle read: %v", err))
			c.dropConn()
			continue
		}

		var frame oracleFrame
		if err := json.Unmarshal(b, &frame); err != nil {
			// ignore non-price frames
			continue
		}
		if frame.Type != "" && frame.Type != "tick" {
			continue
		}
		if frame.Price <= 0 || frame.UpdatedAt <= 0 {
			continue
		}
		c.store(normalize(frame.Price, frame.UpdatedAt))
	}
}

// Latest returns the most recent reading, or the Unavailable variant when
// the feed has not delivered one (or the connection is down).
func (c *Client) Latest() drepo.Reading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// Reconnect closes and re-establishes the connection.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.reconnectDelay):
	}
	return c.Connect(ctx)
}

// Close closes the WebSocket connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates connection status.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) pingLoop(ctx context.Context) {
	if c.pingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if conn := c.current(); conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (c *Client) current() *websocket.Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) dropConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

func (c *Client) store(r drepo.Reading) {
	c.mu.Lock()
	c.latest = r
	c.mu.Unlock()
}

func (c *Client) markUnavailable(reason string) {
	c.mu.Lock()
	c.latest = drepo.Unavailable(reason)
	c.mu.Unlock()
}

func normalize(raw, updatedAt int64) drepo.Reading {
	return drepo.Observe(float64(raw)/priceScale, time.Unix(updatedAt, 0).UTC())
}
