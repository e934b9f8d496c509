// Package relay implements a reconnecting websocket client for the realtime
// hub. Panels and headless monitors use it to join rooms and react to
// department and call events.
package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ConnectionState is the client's lifecycle phase
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Reconnect schedule. After the fifth consecutive failure the client stays
// down until Connect is called again.
var reconnectDelays = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
}

const maxReconnectAttempts = 5

// backoffDelay returns the wait before retry number attempt (1-based) and
// whether a retry should happen at all
func backoffDelay(attempt int) (time.Duration, bool) {
	if attempt > maxReconnectAttempts {
		return 0, false
	}
	idx := attempt - 1
	if idx >= len(reconnectDelays) {
		idx = len(reconnectDelays) - 1
	}
	return reconnectDelays[idx], true
}

// Event is the hub's server-to-client envelope
type Event struct {
	Event string          `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data"`
}

type joinMessage struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

// EventCallback consumes the data payload of one hub event
type EventCallback func(data json.RawMessage)

type handlerEntry struct {
	id       int
	callback EventCallback
}

// Client maintains a hub connection with automatic reconnection. Joins issued
// while connecting are queued, and every joined room is rejoined after a
// reconnect.
type Client struct {
	url    string
	logger *log.Logger

	mu             sync.Mutex
	state          ConnectionState
	conn           *websocket.Conn
	attempts       int
	reconnectTimer *time.Timer
	pendingJoins   []string
	joinedRooms    map[string]bool
	handlers       map[string][]handlerEntry
	nextHandlerID  int
}

// NewClient creates a client for the hub at url (ws:// or wss://)
func NewClient(url string) *Client {
	return &Client{
		url:         url,
		logger:      log.New(log.Writer(), "[Relay] ", log.LstdFlags),
		joinedRooms: make(map[string]bool),
		handlers:    make(map[string][]handlerEntry),
	}
}

// State returns the current connection state
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts connecting. Calling it while connecting or connected is a
// no-op; calling it after the retry budget ran out starts a fresh cycle.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	// A manual reconnect gets the full retry budget again
	c.attempts = 0
	c.mu.Unlock()

	go c.dial()
}

// Disconnect closes the connection and cancels any scheduled retry
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.attempts = 0
	c.pendingJoins = nil
	c.joinedRooms = make(map[string]bool)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// JoinRoom subscribes to a room. While connecting the join is queued and sent
// once the connection is up; when disconnected it is dropped with a log line.
func (c *Client) JoinRoom(room string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateConnected:
		if err := c.sendJoinLocked(room); err != nil {
			return err
		}
		c.joinedRooms[room] = true
		return nil
	case StateConnecting:
		c.pendingJoins = append(c.pendingJoins, room)
		return nil
	default:
		c.logger.Printf("cannot join %s: client disconnected", room)
		return fmt.Errorf("relay client is disconnected")
	}
}

// JoinPortero joins the doorman room watching every department
func (c *Client) JoinPortero() error {
	return c.JoinRoom("portero")
}

// JoinDepartment joins one department's room
func (c *Client) JoinDepartment(id uint) error {
	return c.JoinRoom(fmt.Sprintf("department-%d", id))
}

// OnDepartmentUpdate registers a callback for department-update events
func (c *Client) OnDepartmentUpdate(callback EventCallback) func() {
	return c.on("department-update", callback)
}

// OnIncomingCall registers a callback for incoming-call events
func (c *Client) OnIncomingCall(callback EventCallback) func() {
	return c.on("incoming-call", callback)
}

// OnCallEnded registers a callback for call-ended events
func (c *Client) OnCallEnded(callback EventCallback) func() {
	return c.on("call-ended", callback)
}

func (c *Client) on(event string, callback EventCallback) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextHandlerID++
	id := c.nextHandlerID
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: id, callback: callback})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entries := c.handlers[event]
		for i, entry := range entries {
			if entry.id == id {
				c.handlers[event] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (c *Client) dial() {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Printf("connection to %s failed: %v", c.url, err)
		c.scheduleReconnect()
		return
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect won the race
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateConnected
	c.attempts = 0

	// Rejoin everything we were in, then flush joins queued while connecting
	for room := range c.joinedRooms {
		if err := c.sendJoinLocked(room); err != nil {
			c.logger.Printf("rejoin %s failed: %v", room, err)
		}
	}
	pending := c.pendingJoins
	c.pendingJoins = nil
	for _, room := range pending {
		if err := c.sendJoinLocked(room); err != nil {
			c.logger.Printf("join %s failed: %v", room, err)
			continue
		}
		c.joinedRooms[room] = true
	}
	c.mu.Unlock()

	c.logger.Printf("connected to %s", c.url)
	go c.readLoop(conn)
}

// sendJoinLocked writes a join-room frame; callers hold c.mu
func (c *Client) sendJoinLocked(room string) error {
	return c.conn.WriteJSON(joinMessage{Event: "join-room", Room: room})
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			c.mu.Lock()
			// Only react if this is still the active connection
			if c.conn != conn {
				c.mu.Unlock()
				return
			}
			c.conn = nil
			stillWanted := c.state == StateConnected
			c.mu.Unlock()

			conn.Close()
			if stillWanted {
				c.logger.Printf("connection lost: %v", err)
				c.scheduleReconnect()
			}
			return
		}

		c.dispatch(&event)
	}
}

func (c *Client) dispatch(event *Event) {
	c.mu.Lock()
	entries := make([]handlerEntry, len(c.handlers[event.Event]))
	copy(entries, c.handlers[event.Event])
	c.mu.Unlock()

	for _, entry := range entries {
		entry.callback(event.Data)
	}
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDisconnected {
		// Disconnect was called while the dial was in flight
		return
	}

	c.attempts++
	delay, ok := backoffDelay(c.attempts)
	if !ok {
		c.logger.Printf("giving up after %d attempts", maxReconnectAttempts)
		c.state = StateDisconnected
		return
	}

	c.state = StateConnecting
	c.logger.Printf("reconnecting in %s (attempt %d/%d)", delay, c.attempts, maxReconnectAttempts)
	c.reconnectTimer = time.AfterFunc(delay, c.dial)
}
