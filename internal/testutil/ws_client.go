package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/patch-meta/internal/events"
	"github.com/dom/patch-meta/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test subscriber of the event stream
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := *gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			default:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// SyncEvents asks the server to replay recent events
func (c *WSClient) SyncEvents() {
	c.t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(websocket.Message{Type: websocket.MessageTypeSyncEvents}); err != nil {
		c.t.Fatalf("failed to send sync request: %v", err)
	}
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectEvent waits for a LOG_MESSAGE frame with the given level and decodes it
func (c *WSClient) ExpectEvent(level events.Level, timeout time.Duration) events.Event {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatalf("timeout waiting for %s event", level)
		}
		msg := c.ExpectMessage(websocket.MessageTypeLogMessage, remaining)
		var e events.Event
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			c.t.Fatalf("failed to decode event: %v", err)
		}
		if e.Level == level {
			return e
		}
	}
}

// ExpectEventSync waits for the replay frame and decodes it
func (c *WSClient) ExpectEventSync(timeout time.Duration) []events.Event {
	c.t.Helper()
	msg := c.ExpectMessage(websocket.MessageTypeEventSync, timeout)
	var history []events.Event
	if err := json.Unmarshal(msg.Payload, &history); err != nil {
		c.t.Fatalf("failed to decode event sync: %v", err)
	}
	return history
}
