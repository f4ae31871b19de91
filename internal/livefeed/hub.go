package livefeed

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Event is pushed to subscribed dashboards for every accepted report.
// The body is the anonymized display text, never the raw submission.
type Event struct {
	Kind         string    `json:"kind"`
	LocationID   int       `json:"location_id"`
	LocationName string    `json:"location_name"`
	Text         string    `json:"text"`
	Complaints   int       `json:"complaints"`
	Suggestions  int       `json:"suggestions"`
	CreatedAt    time.Time `json:"created_at"`
}

// Hub fans accepted-report events out to websocket subscribers.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	upgrader   websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run drives registration and broadcasting. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			log.Infof("live feed subscriber connected (%d total)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish queues an event for all subscribers. Never blocks the
// submission path.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.WithError(err).Error("could not marshal live feed event")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("live feed broadcast queue full, dropping event")
	}
}

// ServeHTTP upgrades a dashboard connection and attaches it to the hub.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("live feed upgrade failed")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

// Start serves the hub on addr under /feed. Returns immediately.
func (h *Hub) Start(addr string) {
	go h.Run()
	mux := http.NewServeMux()
	mux.Handle("/feed", h)
	go func() {
		log.Infof("live feed listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("live feed server stopped")
		}
	}()
}

// readPump discards inbound frames; the feed is one-way. It exists to
// notice closed connections and keep the pong deadline fresh.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
