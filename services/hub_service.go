package services

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"portero-http-service/config"
	"portero-http-service/models"
)

// RoomPortero is the room the doorman panel joins to watch every department
const RoomPortero = "portero"

// DepartmentRoom returns the room name a department panel joins
func DepartmentRoom(id uint) string {
	return fmt.Sprintf("department-%d", id)
}

// HubInbound is the only message clients send after connecting
type HubInbound struct {
	Event string `json:"event"`
	Room  string `json:"room"`
}

// HubOutbound is the envelope for every server-to-client message
type HubOutbound struct {
	Event string      `json:"event"`
	Room  string      `json:"room"`
	Data  interface{} `json:"data"`
}

// InterfaceHubService defines the realtime relay interface
type InterfaceHubService interface {
	HandleConnection(ctx *gin.Context)
	Broadcast(room, event string, data interface{})
	BindNotifier(notifier InterfaceChangeNotifier) func()
	ClientCount() int
	RoomCount(room string) int
	Shutdown()
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 20 * time.Second
	maxMessageSize = 1024
	sendBuffer     = 16
)

type hubClient struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan HubOutbound
	closed bool
}

// trySend queues a message without blocking. It reports false when the client
// is gone or its buffer is full.
func (c *hubClient) trySend(message HubOutbound) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *hubClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// HubService relays store change events to websocket panels grouped in rooms.
// A slow client gets dropped messages, never a blocked broadcast.
type HubService struct {
	mu       sync.RWMutex
	clients  map[*hubClient]bool
	rooms    map[string]map[*hubClient]bool
	upgrader websocket.Upgrader
}

// NewHubService creates a new hub service
func NewHubService() *HubService {
	return &HubService{
		clients: make(map[*hubClient]bool),
		rooms:   make(map[string]map[*hubClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Panels are served from other origins in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// 1 HandleConnection upgrades the request and runs the client until it drops
func (s *HubService) HandleConnection(ctx *gin.Context) {
	conn, err := s.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		config.Error("[Hub] websocket upgrade failed: %v", err)
		return
	}

	client := &hubClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan HubOutbound, sendBuffer),
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	config.Info("[Hub] client %s connected (%d total)", client.id, s.ClientCount())

	go s.writePump(client)
	s.readPump(client)
}

// 2 Broadcast sends an event to every client in a room
func (s *HubService) Broadcast(room, event string, data interface{}) {
	message := HubOutbound{Event: event, Room: room, Data: data}

	s.mu.RLock()
	members := make([]*hubClient, 0, len(s.rooms[room]))
	for client := range s.rooms[room] {
		members = append(members, client)
	}
	s.mu.RUnlock()

	for _, client := range members {
		if !client.trySend(message) {
			config.Warning("[Hub] client %s unreachable, dropping %s", client.id, event)
		}
	}
}

// 3 BindNotifier subscribes the hub to store change events and returns the
// unsubscribe handle
func (s *HubService) BindNotifier(notifier InterfaceChangeNotifier) func() {
	return notifier.Subscribe(func(event *models.ChangeEvent) {
		switch event.Type {
		case models.EventDepartmentUpdate:
			s.Broadcast(RoomPortero, "department-update", event.Data)
			if id, ok := event.Data["id"]; ok {
				s.Broadcast(fmt.Sprintf("department-%v", id), "department-update", event.Data)
			}
		case models.EventIncomingCall:
			if id, ok := event.Data["departmentId"]; ok {
				s.Broadcast(fmt.Sprintf("department-%v", id), "incoming-call", event.Data)
			}
		case models.EventCallEnded:
			if id, ok := event.Data["departmentId"]; ok {
				s.Broadcast(fmt.Sprintf("department-%v", id), "call-ended", event.Data)
			}
		default:
			config.Warning("[Hub] unknown change event type %q", event.Type)
		}
	})
}

// 4 ClientCount returns the number of connected clients
func (s *HubService) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// 5 RoomCount returns the number of clients joined to a room
func (s *HubService) RoomCount(room string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms[room])
}

// 6 Shutdown closes every client connection
func (s *HubService) Shutdown() {
	s.mu.Lock()
	clients := make([]*hubClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

// readPump consumes join-room requests until the connection drops
func (s *HubService) readPump(client *hubClient) {
	defer s.removeClient(client)

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var inbound HubInbound
		if err := client.conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Warning("[Hub] client %s read error: %v", client.id, err)
			}
			return
		}

		switch inbound.Event {
		case "join-room":
			if inbound.Room == "" {
				continue
			}
			s.joinRoom(client, inbound.Room)
		default:
			config.Warning("[Hub] client %s sent unknown event %q", client.id, inbound.Event)
		}
	}
}

// writePump drains the send channel and keeps the connection alive with pings
func (s *HubService) writePump(client *hubClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *HubService) joinRoom(client *hubClient, room string) {
	s.mu.Lock()
	if s.rooms[room] == nil {
		s.rooms[room] = make(map[*hubClient]bool)
	}
	s.rooms[room][client] = true
	s.mu.Unlock()

	config.Info("[Hub] client %s joined room %s", client.id, room)
}

func (s *HubService) removeClient(client *hubClient) {
	s.mu.Lock()
	delete(s.clients, client)
	for room, members := range s.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(s.rooms, room)
		}
	}
	s.mu.Unlock()

	client.close()
	client.conn.Close()
	config.Info("[Hub] client %s disconnected (%d total)", client.id, s.ClientCount())
}
