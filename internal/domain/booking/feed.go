package booking

import (
	"context"
	"encoding/json"
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for live feed messages
type EventType string

const (
	EventBookingCreated EventType = "booking_created"
	EventBookingUpdated EventType = "booking_updated"
)

const feedChannel = "bookings:events"

var (
	feedConnectionsGauge = expvar.NewInt("feed_connections")
	feedEventsSentTotal  = expvar.NewInt("feed_events_sent_total")
	feedEventsDropped    = expvar.NewInt("feed_events_dropped_total")
)

// Event is one entry on the admin live feed.
type Event struct {
	Type    EventType `json:"type"`
	Booking *Booking  `json:"booking"`
	At      time.Time `json:"at"`
}

// Connection is one WebSocket client on the feed.
type Connection struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans booking events out to connected admin dashboards. Redis
// Pub/Sub carries events between server instances so every dashboard
// sees every booking no matter which instance took it.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates the live feed hub. A nil Redis client keeps the feed
// single-instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, feedChannel)
	}
	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			feedConnectionsGauge.Add(1)
			log.Debug().Msg("Admin connected to booking feed")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.send)
				feedConnectionsGauge.Add(-1)
			}
			h.mu.Unlock()
			log.Debug().Msg("Admin disconnected from booking feed")
		}
	}
}

// Shutdown stops the hub and closes all connections.
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		close(conn.send)
		conn.conn.Close()
		delete(h.connections, conn)
	}
}

// PublishBookingEvent sends an event to every dashboard. With Redis
// the event goes through Pub/Sub so other instances deliver it too;
// without, it fans out locally.
func (h *Hub) PublishBookingEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal feed event")
		return
	}

	if h.redis != nil {
		if err := h.redis.Publish(h.ctx, feedChannel, data).Err(); err != nil {
			log.Error().Err(err).Msg("Failed to publish feed event")
			// Local fanout still works when Redis is down.
			h.broadcastLocal(data)
		}
		return
	}
	h.broadcastLocal(data)
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcastLocal([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		select {
		case conn.send <- data:
			feedEventsSentTotal.Add(1)
		default:
			feedEventsDropped.Add(1)
			log.Warn().Msg("Feed send buffer full, event dropped")
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS middleware already gates the handshake's Origin.
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ServeWS handles GET /admin/feed: upgrades to WebSocket and streams
// booking events until the client goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Feed WebSocket upgrade failed")
		return
	}

	conn := &Connection{conn: ws, send: make(chan []byte, 64)}
	h.register <- conn

	go conn.writePump()
	go conn.readPump(h)
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection; the feed is one-way, but reads drive
// pong handling and disconnect detection.
func (c *Connection) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
