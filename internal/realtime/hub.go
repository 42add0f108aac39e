package realtime

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/airwatchhq/airwatch/internal/airq"
)

// sendBuffer is the per-connection outbound queue depth. A connection whose
// buffer is full counts as not-ready and is skipped by broadcasts.
const sendBuffer = 16

// Conn is the transport half of a live connection. The WebSocket handler
// wraps the real socket; tests substitute mocks.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// ReadingStore persists ingested device readings as the durable side effect
// of the broadcast path.
type ReadingStore interface {
	AppendDevice(r airq.DeviceReading) (airq.DeviceReading, error)
}

// Client is one live connection's membership in the hub. It holds no identity
// beyond the transport handle.
type Client struct {
	conn Conn
	send chan []byte
}

// Hub owns the live-connection set and fans ingested readings out to every
// member. Sends are fire-and-forget: no per-connection retry, no delivery
// guarantee, and one stalled connection never blocks the loop.
type Hub struct {
	store ReadingStore

	mu      sync.Mutex
	clients map[*Client]struct{}

	// ingestMu serializes append+broadcast so readings are fanned out in the
	// order they were stored, even with concurrent producers.
	ingestMu sync.Mutex
}

// NewHub creates a Hub persisting through the given store.
func NewHub(store ReadingStore) *Hub {
	return &Hub{
		store:   store,
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a connection to the live set, starts its writer, and sends
// the connection acknowledgement.
func (h *Hub) Register(conn Conn) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop(h)

	h.sendTo(c, newConnectionMessage())
	return c
}

// Unregister removes a connection from the live set and closes its transport.
// Idempotent: a second call for the same client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

// ClientCount reports the current live-set size.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// writeLoop drains the client's queue onto the transport. A write error
// removes the client; the remaining queue is dropped, per the best-effort
// contract.
func (c *Client) writeLoop(h *Hub) {
	for data := range c.send {
		if err := c.conn.WriteMessage(data); err != nil {
			log.Printf("WARN: websocket write failed, dropping connection: %v", err)
			h.Unregister(c)
			return
		}
	}
}

// HandleMessage processes one inbound payload from a client. Malformed
// payloads produce an error message to the sender only; the connection stays
// open and no other connection is affected.
func (h *Hub) HandleMessage(c *Client, payload []byte) {
	in, err := ParseInbound(payload)
	if err != nil {
		log.Printf("WARN: websocket message rejected: %v", err)
		h.sendTo(c, newErrorMessage("Invalid message format"))
		return
	}

	if in.Reading != nil {
		if err := h.Ingest(*in.Reading); err != nil {
			h.sendTo(c, newErrorMessage("Invalid reading"))
		}
		return
	}

	// Subscriptions are acknowledged but not filtered on: every subscriber
	// receives all traffic. This is current behavior, not a gap.
	h.sendTo(c, newConfirmationMessage(in.Subscription))
}

// Ingest persists a device reading and broadcasts the stored record to every
// live connection, including the producer when it is itself a client.
func (h *Hub) Ingest(r airq.DeviceReading) error {
	h.ingestMu.Lock()
	defer h.ingestMu.Unlock()

	stored, err := h.store.AppendDevice(r)
	if err != nil {
		if !errors.Is(err, airq.ErrInvalidReading) {
			log.Printf("WARN: failed to store device reading from %s: %v", r.DeviceID, err)
		}
		return err
	}

	h.Broadcast(newUpdateMessage(stored))
	return nil
}

// Broadcast serializes the message once and queues it to every live
// connection that is ready to send; the rest are silently skipped.
// Broadcasting to zero connections succeeds trivially.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("WARN: failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// sendTo queues a message for a single client, skipping it when not ready or
// already unregistered.
func (h *Hub) sendTo(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("WARN: failed to marshal message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
