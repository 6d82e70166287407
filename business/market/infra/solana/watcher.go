package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/solarb/business/market/domain"
	"github.com/fd1az/solarb/internal/apperror"
	"github.com/fd1az/solarb/internal/logger"
	"github.com/fd1az/solarb/internal/wsconn"
)

// WatcherConfig holds configuration for the account watcher.
type WatcherConfig struct {
	WebSocketURL   string
	Commitment     string
	MaxReconnects  int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultWatcherConfig returns sensible defaults.
func DefaultWatcherConfig(wsURL string) WatcherConfig {
	return WatcherConfig{
		WebSocketURL:   wsURL,
		Commitment:     "confirmed",
		MaxReconnects:  0, // infinite
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// subscribeRequest is the JSON-RPC accountSubscribe request body.
type subscribeRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// subscribeReply carries the subscription id assigned by the node.
type subscribeReply struct {
	ID     uint64 `json:"id"`
	Result uint64 `json:"result"`
}

// accountNotification is the JSON-RPC accountNotification payload.
type accountNotification struct {
	Method string `json:"method"`
	Params struct {
		Subscription uint64 `json:"subscription"`
		Result       struct {
			Context struct {
				Slot uint64 `json:"slot"`
			} `json:"context"`
			Value struct {
				Data []string `json:"data"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// Watcher implements the AccountWatcher port over a Solana WebSocket node.
// A single connection multiplexes all account subscriptions.
type Watcher struct {
	config WatcherConfig
	logger logger.LoggerInterface
	client *wsconn.Client
	tracer trace.Tracer

	nextID atomic.Uint64

	mu       sync.Mutex
	pending  map[uint64]chan uint64               // request id -> subscription id reply
	accounts map[uint64]solana.PublicKey          // subscription id -> account
	channels map[uint64]chan domain.AccountUpdate // subscription id -> consumer channel
	requests map[uint64]solana.PublicKey          // request id -> account

	started bool
}

// NewWatcher creates a new account watcher.
func NewWatcher(cfg WatcherConfig, log logger.LoggerInterface) *Watcher {
	wsCfg := wsconn.DefaultConfig(cfg.WebSocketURL)
	wsCfg.MaxReconnects = cfg.MaxReconnects
	wsCfg.InitialBackoff = cfg.InitialBackoff
	wsCfg.MaxBackoff = cfg.MaxBackoff

	w := &Watcher{
		config:   cfg,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		pending:  make(map[uint64]chan uint64),
		accounts: make(map[uint64]solana.PublicKey),
		channels: make(map[uint64]chan domain.AccountUpdate),
		requests: make(map[uint64]solana.PublicKey),
	}

	wsCfg.OnStateChange = func(from, to wsconn.State) {
		log.Info(context.Background(), "watcher connection state change",
			"from", string(from), "to", string(to))
	}

	w.client = wsconn.New(wsCfg)
	return w
}

// Connect establishes the WebSocket connection and starts the dispatch loop.
func (w *Watcher) Connect(ctx context.Context) error {
	ctx, span := w.tracer.Start(ctx, "market.watcher_connect")
	defer span.End()

	if err := w.client.Connect(ctx); err != nil {
		span.RecordError(err)
		return apperror.New(apperror.CodeSolanaConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(w.config.WebSocketURL))
	}

	w.mu.Lock()
	if !w.started {
		w.started = true
		go w.dispatch()
	}
	w.mu.Unlock()

	return nil
}

// Watch subscribes to changes of the given account.
func (w *Watcher) Watch(ctx context.Context, address solana.PublicKey) (<-chan domain.AccountUpdate, error) {
	ctx, span := w.tracer.Start(ctx, "market.watch_account")
	defer span.End()

	id := w.nextID.Add(1)

	req := subscribeRequest{
		JSONRPC: "2.0",
		ID:      id,
		Method:  "accountSubscribe",
		Params: []any{
			address.String(),
			map[string]string{
				"encoding":   "base64",
				"commitment": w.config.Commitment,
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	reply := make(chan uint64, 1)
	w.mu.Lock()
	w.pending[id] = reply
	w.requests[id] = address
	w.mu.Unlock()

	if err := w.client.Send(ctx, body); err != nil {
		w.mu.Lock()
		delete(w.pending, id)
		delete(w.requests, id)
		w.mu.Unlock()
		span.RecordError(err)
		return nil, apperror.New(apperror.CodeSubscriptionFailed,
			apperror.WithCause(err),
			apperror.WithContext(address.String()))
	}

	select {
	case subID := <-reply:
		updates := make(chan domain.AccountUpdate, 16)
		w.mu.Lock()
		w.accounts[subID] = address
		w.channels[subID] = updates
		w.mu.Unlock()

		w.logger.Info(ctx, "account subscription established",
			"address", address.String(), "subscription", subID)
		return updates, nil
	case <-ctx.Done():
		w.mu.Lock()
		delete(w.pending, id)
		delete(w.requests, id)
		w.mu.Unlock()
		return nil, apperror.New(apperror.CodeSubscriptionFailed,
			apperror.WithCause(ctx.Err()),
			apperror.WithContext(address.String()))
	}
}

// State returns the current connection state.
func (w *Watcher) State() domain.ConnectionState {
	switch w.client.State() {
	case wsconn.StateConnecting:
		return domain.StateConnecting
	case wsconn.StateConnected:
		return domain.StateConnected
	case wsconn.StateReconnecting:
		return domain.StateReconnecting
	default:
		return domain.StateDisconnected
	}
}

// Close terminates all subscriptions and the underlying connection.
func (w *Watcher) Close() error {
	return w.client.Close()
}

// dispatch routes inbound frames to subscription channels.
func (w *Watcher) dispatch() {
	for raw := range w.client.Messages() {
		// Subscription confirmations carry a request id; notifications
		// carry a method. Try the reply shape first, it is the smaller one.
		var reply subscribeReply
		if err := json.Unmarshal(raw, &reply); err == nil && reply.ID != 0 {
			w.mu.Lock()
			if ch, ok := w.pending[reply.ID]; ok {
				delete(w.pending, reply.ID)
				ch <- reply.Result
			}
			w.mu.Unlock()
			continue
		}

		var notif accountNotification
		if err := json.Unmarshal(raw, &notif); err != nil || notif.Method != "accountNotification" {
			continue
		}

		w.mu.Lock()
		address, knownAccount := w.accounts[notif.Params.Subscription]
		ch, knownChannel := w.channels[notif.Params.Subscription]
		w.mu.Unlock()

		if !knownAccount || !knownChannel {
			continue
		}

		data, err := decodeAccountData(notif.Params.Result.Value.Data)
		if err != nil {
			w.logger.Warn(context.Background(), "undecodable account notification",
				"address", address.String(), "error", err)
			continue
		}

		update := domain.AccountUpdate{
			Address:    address,
			Data:       data,
			Slot:       notif.Params.Result.Context.Slot,
			ReceivedAt: time.Now(),
		}

		select {
		case ch <- update:
		default:
			// Consumer is behind; drop the oldest snapshot in favor of the new one.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}

	// Connection is gone for good. Close consumer channels.
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ch := range w.channels {
		close(ch)
		delete(w.channels, id)
		delete(w.accounts, id)
	}
}

// decodeAccountData decodes the ["<payload>", "base64"] tuple of a notification.
func decodeAccountData(tuple []string) ([]byte, error) {
	if len(tuple) != 2 {
		return nil, fmt.Errorf("unexpected data tuple length %d", len(tuple))
	}
	if tuple[1] != "base64" {
		return nil, fmt.Errorf("unexpected encoding %q", tuple[1])
	}
	return base64.StdEncoding.DecodeString(tuple[0])
}
