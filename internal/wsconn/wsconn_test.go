package wsconn_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/fd1az/solarb/internal/wsconn"
)

// echoServer upgrades inbound requests and echoes text frames back.
// The returned func force-closes every accepted connection: httptest's
// Close only shuts the listener, since hijacked conns are untracked.
func echoServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	var mu sync.Mutex
	var conns []*websocket.Conn
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		conns = append(conns, conn)
		mu.Unlock()
		defer conn.CloseNow()

		for {
			typ, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			if err := conn.Write(r.Context(), typ, data); err != nil {
				return
			}
		}
	}))
	closeConns := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.CloseNow()
		}
	}
	return srv, closeConns
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestClient_ConnectAndEcho(t *testing.T) {
	srv, _ := echoServer(t)
	defer srv.Close()

	cfg := wsconn.DefaultConfig(wsURL(srv))
	cfg.PingInterval = 0
	client := wsconn.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer client.Close()

	if client.State() != wsconn.StateConnected {
		t.Fatalf("expected connected state, got %s", client.State())
	}

	payload := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	if err := client.Send(ctx, payload); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	select {
	case msg := <-client.Messages():
		if string(msg) != string(payload) {
			t.Errorf("expected echo %q, got %q", payload, msg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for echo")
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	cfg := wsconn.DefaultConfig("ws://127.0.0.1:1") // nothing listens here
	client := wsconn.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err == nil {
		t.Fatal("expected connect to fail")
	}
	if client.State() != wsconn.StateDisconnected {
		t.Errorf("expected disconnected state, got %s", client.State())
	}
}

func TestClient_SendBeforeConnect(t *testing.T) {
	client := wsconn.New(wsconn.DefaultConfig("ws://example.invalid"))

	if err := client.Send(context.Background(), []byte("hi")); err == nil {
		t.Fatal("expected send before connect to fail")
	}
}

func TestClient_CloseStopsClient(t *testing.T) {
	srv, _ := echoServer(t)
	defer srv.Close()

	cfg := wsconn.DefaultConfig(wsURL(srv))
	cfg.PingInterval = 0
	client := wsconn.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if client.State() != wsconn.StateDisconnected {
		t.Errorf("expected disconnected state, got %s", client.State())
	}

	select {
	case _, open := <-client.Messages():
		if open {
			t.Error("expected messages channel to be closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages channel to close")
	}
}

func TestClient_ReconnectGivesUp(t *testing.T) {
	srv, killConns := echoServer(t)

	cfg := wsconn.DefaultConfig(wsURL(srv))
	cfg.PingInterval = 0
	cfg.InitialBackoff = 10 * time.Millisecond
	cfg.MaxBackoff = 20 * time.Millisecond
	cfg.MaxReconnects = 2

	client := wsconn.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	// Kill the server so reconnection attempts fail.
	srv.Close()
	killConns()

	select {
	case _, open := <-client.Messages():
		if open {
			t.Fatal("expected channel close after retries exhausted")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reconnect to give up")
	}

	if client.Reconnects() != 2 {
		t.Errorf("expected 2 reconnect attempts, got %d", client.Reconnects())
	}
}
