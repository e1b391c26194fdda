package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/webpulse/webpulse/server/internal/dataset"
	wsHub "github.com/webpulse/webpulse/server/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
// Returns the ws:// URL, the hub, the dataset store, and a cancel function.
func startHub(t *testing.T) (wsURL string, hub *wsHub.Hub, st *dataset.Store, cancel func()) {
	t.Helper()

	st = dataset.New(dataset.Default())
	hub = wsHub.New(st, nil, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, st, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediatePayload(t *testing.T) {
	wsURL, _, _, _ := startHub(t)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	var m map[string]interface{}
	if err := json.Unmarshal(msg, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["event"] != "traffic" {
		t.Errorf("event: got %v, want traffic", m["event"])
	}
	if m["at"] == nil || m["at"] == "" {
		t.Error("at: missing")
	}
	data, ok := m["data"].(map[string]interface{})
	if !ok {
		t.Fatal("data: missing or wrong type")
	}
	if data["total_sessions"].(float64) == 0 {
		t.Error("total_sessions: zero in broadcast payload")
	}
}

func TestHub_CountClients_SingleClient(t *testing.T) {
	wsURL, hub, _, _ := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume initial message

	// Give the hub a moment to register the client.
	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestHub_CountClients_MultipleClients(t *testing.T) {
	wsURL, hub, _, _ := startHub(t)

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}

func TestHub_CountClients_DecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _, _ := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	if n := hub.Count(); n != 1 {
		t.Errorf("Count before disconnect: got %d, want 1", n)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close

	if n := hub.Count(); n != 0 {
		t.Errorf("Count after disconnect: got %d, want 0", n)
	}
}

func TestHub_TickReflectsReload(t *testing.T) {
	wsURL, _, st, _ := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate payload

	// Swap the dataset after connect.
	ds := dataset.Default()
	ds.Traffic.TotalSessions = 1000
	st.Replace(ds)

	// Subsequent ticks should carry the new value. The first tick may race
	// the swap, so allow a couple of reads.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var m map[string]interface{}
		if err := json.Unmarshal(readMessage(t, conn), &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		data := m["data"].(map[string]interface{})
		if data["total_sessions"].(float64) == 1000 {
			return
		}
	}
	t.Error("tick broadcasts never reflected the replaced dataset")
}

func TestHub_AllClientsReceiveBroadcast(t *testing.T) {
	wsURL, _, _, _ := startHub(t)

	conns := make([]*websocket.Conn, 3)
	for i := 0; i < 3; i++ {
		conns[i] = dial(t, wsURL)
	}

	// All three should receive the initial payload.
	for i, conn := range conns {
		msg := readMessage(t, conn)
		var m map[string]interface{}
		if err := json.Unmarshal(msg, &m); err != nil {
			t.Errorf("client %d: unmarshal: %v", i, err)
			continue
		}
		if m["event"] != "traffic" {
			t.Errorf("client %d: event: got %v, want traffic", i, m["event"])
		}
	}
}

func TestHub_BroadcastSurvivesDisconnectChurn(t *testing.T) {
	// Clients that connect and drop while the hub broadcasts every
	// millisecond exercise the window between the broadcast's client-set
	// snapshot and its sends. A per-client channel closed on disconnect
	// would panic the hub goroutine here and crash the test binary.
	st := dataset.New(dataset.Default())
	hub := wsHub.New(st, nil, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	for i := 0; i < 50; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("dial %d: %v", i, err)
		}
		conn.Close()
	}

	// Let the hub notice the disconnects and keep ticking past them.
	time.Sleep(100 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after churn: got %d, want 0", n)
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, _, cancel := startHub(t)

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	cancel() // signal shutdown

	// After cancel, hub should close all clients.
	time.Sleep(50 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(dataset.New(dataset.Default()), nil, testInterval)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	// Plain HTTP GET without WebSocket upgrade headers gets 400.
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
