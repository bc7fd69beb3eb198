package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Member 7 in every test session.
		if err := Serve(hub, w, r, 7); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_NotifyReachesEverySession(t *testing.T) {
	hub, url := startHub(t)

	first := dial(t, url)
	second := dial(t, url)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[7]) == 2
	}, time.Second, 10*time.Millisecond)

	hub.Notify(7, map[string]interface{}{"type": "profile_viewed", "viewer_mid": 3})
	hub.Notify(8, map[string]string{"type": "nobody listening"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"profile_viewed","viewer_mid":3}`, string(msg))
	}
}

func TestHub_PingPong(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.IsOnline(7) }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(msg))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)

	require.Eventually(t, func() bool { return hub.IsOnline(7) }, time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return !hub.IsOnline(7) }, time.Second, 10*time.Millisecond)
}

func TestHub_RateLimit(t *testing.T) {
	hub := NewHub()
	client := &Client{Hub: hub, MemberID: 1, Send: make(chan []byte, 100)}

	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(client, []byte(`{"type":"ping"}`))
	}
	assert.Len(t, client.Send, maxMessagesPerSecond)

	client.close()
	client.close()
	assert.False(t, client.trySend([]byte("x")))
}
