// Package wsconn provides a production-grade WebSocket client with reconnection.
package wsconn

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/fd1az/solarb/internal/apperror"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	PongTimeout    time.Duration
	ReadLimit      int64
	// OnStateChange is invoked on every state transition.
	OnStateChange func(from, to State)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
		ReadLimit:      1 << 20,
	}
}

// Client is a WebSocket client that transparently reconnects with
// exponential backoff and keeps the connection alive with pings.
// Received messages are delivered on a buffered channel; the channel
// is closed when the client shuts down for good.
type Client struct {
	config   Config
	state    State
	stateMu  sync.RWMutex
	messages chan []byte

	conn   *websocket.Conn
	connMu sync.Mutex

	done     chan struct{}
	doneOnce sync.Once
	wg       sync.WaitGroup

	reconnects int
}

// New creates a new WebSocket client.
func New(config Config) *Client {
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 30 * time.Second
	}
	return &Client{
		config:   config,
		state:    StateDisconnected,
		messages: make(chan []byte, 100),
		done:     make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection and starts the read and
// keepalive loops. It returns once the first connection attempt succeeds
// or fails; reconnection after that happens in the background.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected)
		return apperror.New(apperror.CodeWebSocketConnectionError,
			apperror.WithContext(c.config.URL),
			apperror.WithCause(err))
	}

	c.setConn(conn)
	c.setState(StateConnected)

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()

	return nil
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	conn := c.getConn()
	if conn == nil {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithMessage("not connected"))
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithCause(err))
	}
	return nil
}

// Messages returns the channel for receiving messages.
// The channel is closed after Close or when reconnection gives up.
func (c *Client) Messages() <-chan []byte {
	return c.messages
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Reconnects returns how many reconnection attempts have been made.
func (c *Client) Reconnects() int {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.reconnects
}

// Close gracefully closes the WebSocket connection and stops all loops.
func (c *Client) Close() error {
	c.doneOnce.Do(func() { close(c.done) })

	if conn := c.getConn(); conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client closing")
	}

	c.wg.Wait()
	c.setState(StateDisconnected)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	if c.config.ReadLimit > 0 {
		conn.SetReadLimit(c.config.ReadLimit)
	}
	return conn, nil
}

// readLoop reads messages until the connection drops, then hands off
// to the reconnect logic. It owns the messages channel close.
func (c *Client) readLoop() {
	defer c.wg.Done()

	for {
		conn := c.getConn()
		if conn == nil {
			close(c.messages)
			return
		}

		_, data, err := conn.Read(context.Background())
		if err != nil {
			select {
			case <-c.done:
				close(c.messages)
				return
			default:
			}

			if !c.reconnect() {
				close(c.messages)
				return
			}
			continue
		}

		select {
		case c.messages <- data:
		case <-c.done:
			close(c.messages)
			return
		}
	}
}

// reconnect attempts to re-establish the connection with exponential
// backoff plus jitter. Returns false when the retry budget is exhausted
// or the client was closed.
func (c *Client) reconnect() bool {
	c.setState(StateReconnecting)
	backoff := c.config.InitialBackoff

	for attempt := 1; ; attempt++ {
		if c.config.MaxReconnects > 0 && attempt > c.config.MaxReconnects {
			c.setState(StateDisconnected)
			return false
		}

		jitter := time.Duration(rand.Int63n(int64(backoff)/4 + 1))
		select {
		case <-time.After(backoff + jitter):
		case <-c.done:
			return false
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := c.dial(ctx)
		cancel()

		c.stateMu.Lock()
		c.reconnects++
		c.stateMu.Unlock()

		if err == nil {
			c.setConn(conn)
			c.setState(StateConnected)
			return true
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}
}

// pingLoop keeps the connection alive. A failed ping is left to the
// read loop to detect; the ping itself only probes liveness.
func (c *Client) pingLoop() {
	defer c.wg.Done()

	if c.config.PingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			conn := c.getConn()
			if conn == nil || c.State() != StateConnected {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), c.config.PongTimeout)
			_ = conn.Ping(ctx)
			cancel()
		case <-c.done:
			return
		}
	}
}

func (c *Client) setState(state State) {
	c.stateMu.Lock()
	from := c.state
	c.state = state
	c.stateMu.Unlock()

	if c.config.OnStateChange != nil && from != state {
		c.config.OnStateChange(from, state)
	}
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()
}

func (c *Client) getConn() *websocket.Conn {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.conn
}

// IsNormalClose reports whether err represents a clean close.
func IsNormalClose(err error) bool {
	var closeErr websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.StatusNormalClosure
	}
	return false
}
