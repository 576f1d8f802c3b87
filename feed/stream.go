package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const defaultStreamURL = "wss://stream.binance.com:9443/ws"

// Tick is a single live price update.
type Tick struct {
	Symbol string
	Price  float64
	Time   time.Time
}

// TickerStream subscribes to miniTicker updates over a websocket and
// fans them out on a channel. One stream owns one connection.
type TickerStream struct {
	url    string
	dialer *websocket.Dialer

	conn   *websocket.Conn
	ticks  chan Tick
	cancel context.CancelFunc
}

// StreamOption configures a TickerStream.
type StreamOption func(*TickerStream)

// WithStreamURL points the stream at a different websocket endpoint.
func WithStreamURL(u string) StreamOption {
	return func(s *TickerStream) { s.url = u }
}

func NewTickerStream(opts ...StreamOption) *TickerStream {
	s := &TickerStream{
		url:    defaultStreamURL,
		dialer: websocket.DefaultDialer,
		ticks:  make(chan Tick, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe connects and subscribes to miniTicker streams for the given
// base symbols. The returned channel closes when the context is canceled,
// Close is called, or the connection drops.
func (s *TickerStream) Subscribe(ctx context.Context, symbols []string) (<-chan Tick, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial ticker stream: %w", err)
	}
	s.conn = conn

	params := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		params = append(params, strings.ToLower(pairFor(sym))+"@miniTicker")
	}
	sub := map[string]any{
		"method": "SUBSCRIBE",
		"params": params,
		"id":     time.Now().Unix(),
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe ticker stream: %w", err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	go s.readPump(ctx)

	slog.Info("ticker stream subscribed", "url", s.url, "streams", params)
	return s.ticks, nil
}

// Close tears down the stream; the tick channel closes shortly after.
func (s *TickerStream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// miniTicker event shape; prices arrive as strings.
type miniTickerEvent struct {
	Event  string `json:"e"`
	TimeMs int64  `json:"E"`
	Pair   string `json:"s"`
	Close  string `json:"c"`
}

func (s *TickerStream) readPump(ctx context.Context) {
	defer close(s.ticks)
	defer s.conn.Close()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("ticker stream closed", "err", err)
			}
			return
		}

		var ev miniTickerEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Event != "24hrMiniTicker" {
			// Subscription acks and unknown events pass through here.
			continue
		}

		price, err := strconv.ParseFloat(ev.Close, 64)
		if err != nil {
			slog.Warn("unparseable ticker price", "pair", ev.Pair, "raw", ev.Close)
			continue
		}

		tick := Tick{
			Symbol: strings.TrimSuffix(ev.Pair, "USDT"),
			Price:  price,
			Time:   time.UnixMilli(ev.TimeMs).UTC(),
		}

		select {
		case s.ticks <- tick:
		case <-ctx.Done():
			return
		default:
			// Drop the tick rather than block the pump.
		}
	}
}
