package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ember-arena/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	wsWriteWait    = 5 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingPeriod   = wsPongWait * 9 / 10
	wsMaxFrameSize = 4096
	wsSendBuffer   = 16
)

// wsMessage is the envelope for every frame in both directions.
type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
	send chan []byte
}

// WebSocketHub fans snapshots out to clients and feeds their intent frames
// into the engine inbox.
type WebSocketHub struct {
	engine   EngineInterface
	upgrader websocket.Upgrader

	clients    map[*wsClient]struct{}
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.RWMutex

	limiter  *ConnLimiter
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWebSocketHub creates a hub. origins uses the CORS pattern syntax.
func NewWebSocketHub(engine EngineInterface, origins []string) *WebSocketHub {
	if origins == nil {
		origins = DefaultCORSOrigins
	}
	h := &WebSocketHub{
		engine:     engine,
		clients:    make(map[*wsClient]struct{}),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		limiter:    NewConnLimiter(MaxWSConnectionsPerIP),
		stopChan:   make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if OriginAllowed(origin, origins) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run owns the client set until Stop is called.
func (h *WebSocketHub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", c.ip, count)
			UpdateWSConnections(count)

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*wsClient
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.drop(c)
			}

		case <-h.stopChan:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				h.limiter.Release(c.ip)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return
		}
	}
}

func (h *WebSocketHub) drop(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
		h.limiter.Release(c.ip)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		log.Printf("📱 Client disconnected (%d remaining)", count)
		UpdateWSConnections(count)
	}
}

// Stop disconnects every client and ends Run and the broadcast loop.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Broadcast queues an event for every connected client.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- frame:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest snapshot perSecond times a second.
func (h *WebSocketHub) StartBroadcastLoop(perSecond int) {
	if perSecond <= 0 {
		perSecond = 10
	}
	ticker := time.NewTicker(time.Second / time.Duration(perSecond))

	go func() {
		defer ticker.Stop()
		var lastTick uint64
		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}
			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap == nil || (snap.TickNumber == lastTick && lastTick != 0) {
				continue
			}
			lastTick = snap.TickNumber
			h.Broadcast("game:state", snap.Clone())
		}
	}()
}

// HandleWebSocket upgrades the request with DoS protection.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if total := h.ClientCount(); total >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.limiter.Acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.limiter.Release(ip)
		return
	}

	c := &wsClient{conn: conn, ip: ip, send: make(chan []byte, wsSendBuffer)}
	select {
	case h.register <- c:
	case <-h.stopChan:
		h.limiter.Release(ip)
		conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *WebSocketHub) writePump(c *wsClient) {
	ping := time.NewTicker(wsPingPeriod)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			recordWSMessage("out")
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type intentFrame struct {
	ID     game.CombatantID `json:"id"`
	Intent game.Intent      `json:"intent"`
}

func (h *WebSocketHub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.stopChan:
		}
	}()

	c.conn.SetReadLimit(wsMaxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		recordWSMessage("in")

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.reply(c, "error", "malformed frame")
			continue
		}

		switch msg.Event {
		case "intent":
			var f intentFrame
			if err := json.Unmarshal(msg.Data, &f); err != nil || f.ID == 0 ||
				!finite(f.Intent.Move.X, f.Intent.Move.Y, f.Intent.Move.Z) {
				h.reply(c, "error", "invalid intent")
				continue
			}
			if !h.engine.SubmitIntent(f.ID, f.Intent) {
				h.reply(c, "error", "command inbox full")
			}
		case "ping":
			h.reply(c, "pong", nil)
		default:
			h.reply(c, "error", "unknown event")
		}
	}
}

// reply sends to one client without blocking the read loop.
func (h *WebSocketHub) reply(c *wsClient, event string, data interface{}) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func encodeFrame(event string, data interface{}) ([]byte, error) {
	msg := map[string]interface{}{"event": event}
	if data != nil {
		msg["data"] = data
	}
	return json.Marshal(msg)
}
