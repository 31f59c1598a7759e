package websocket_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, replaySize int) (*websocket.Hub, string) {
	t.Helper()

	hub := websocket.NewHub(replaySize)
	go hub.Run()

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := websocket.NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))

	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *websocket.Hub, url string, want int) *ws.Conn {
	t.Helper()
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == want }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *ws.Conn) websocket.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg websocket.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_BroadcastsEvents(t *testing.T) {
	hub, url := startHub(t, 10)
	first := dial(t, hub, url, 1)
	second := dial(t, hub, url, 2)

	hub.Emit(events.Successf("Patch %s saved", "25.01"))

	for _, conn := range []*ws.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, websocket.MessageTypeLogMessage, msg.Type)

		var e events.Event
		require.NoError(t, json.Unmarshal(msg.Payload, &e))
		assert.Equal(t, events.LevelSuccess, e.Level)
		assert.Equal(t, "Patch 25.01 saved", e.Message)
	}
}

func TestHub_ReplaysRecentEvents(t *testing.T) {
	hub, url := startHub(t, 2)

	hub.Emit(events.Infof("one"))
	hub.Emit(events.Infof("two"))
	hub.Emit(events.Infof("three"))

	conn := dial(t, hub, url, 1)
	require.NoError(t, conn.WriteJSON(websocket.Message{Type: websocket.MessageTypeSyncEvents}))

	msg := readMessage(t, conn)
	require.Equal(t, websocket.MessageTypeEventSync, msg.Type)

	var history []events.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "two", history[0].Message)
	assert.Equal(t, "three", history[1].Message)
}

func TestHub_UnknownMessage(t *testing.T) {
	hub, url := startHub(t, 0)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.WriteJSON(websocket.Message{Type: "SUBSCRIBE_PATCH"}))
	msg := readMessage(t, conn)
	assert.Equal(t, websocket.MessageTypeError, msg.Type)
}

func TestHub_UnregisterOnClose(t *testing.T) {
	hub, url := startHub(t, 0)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_EmitAfterStop(t *testing.T) {
	hub := websocket.NewHub(5)
	go hub.Run()
	hub.Stop()

	assert.NotPanics(t, func() {
		hub.Emit(events.Errorf("late"))
	})
	hub.Stop()
}
