package notify

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, origins []string) (*Hub, string) {
	t.Helper()
	hub := NewHub(origins, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHub_Broadcast(t *testing.T) {
	hub, url := newTestHub(t, nil)
	a, b := dial(t, url), dial(t, url)
	defer a.Close()
	defer b.Close()
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 10*time.Millisecond)

	event := OrderEvent{Type: "order.placed", OrderID: uuid.New(), OrderNumber: "PD-ABCDEFGHJK", TotalAmount: "58.97", ItemCount: 3}
	require.NoError(t, hub.Broadcast(event))

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		msgType, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, msgType)

		var got OrderEvent
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, event.OrderNumber, got.OrderNumber)
		assert.Equal(t, "58.97", got.TotalAmount)
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, url := newTestHub(t, nil)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
	assert.NoError(t, hub.Broadcast(OrderEvent{Type: "order.placed"}))
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, url := newTestHub(t, []string{"https://shop.example.com"})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://shop.example.com")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}
