package host

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Selection is the message sent to subscribers.
type Selection struct {
	Timestamp string `json:"timestamp"`
}

// Hub fans selections out to websocket subscribers. A subscriber that
// falls behind loses selections instead of slowing the sender.
type Hub struct {
	log    *slog.Logger
	buffer int

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      chan struct{}
	closeOnce   sync.Once
}

type subscriber struct {
	send chan []byte
}

func NewHub(log *slog.Logger, buffer int) *Hub {
	if log == nil {
		log = slog.Default()
	}
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		log:         log,
		buffer:      buffer,
		subscribers: map[*subscriber]struct{}{},
		closed:      make(chan struct{}),
	}
}

func (hub *Hub) NotifySelected(value string) {
	msg, err := json.Marshal(Selection{Timestamp: value})
	if err != nil {
		hub.log.Error("encoding selection", "error", err)
		return
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for sub := range hub.subscribers {
		select {
		case sub.send <- msg:
		default:
			hub.log.Debug("dropping selection for slow subscriber", "timestamp", value)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (hub *Hub) Subscribers() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subscribers)
}

// Close disconnects every subscriber.
func (hub *Hub) Close() {
	hub.closeOnce.Do(func() { close(hub.closed) })
}

// ServeHTTP upgrades the request and streams selections until the
// subscriber goes away.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("failed to upgrade selection subscriber", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	sub := &subscriber{send: make(chan []byte, hub.buffer)}
	hub.mu.Lock()
	hub.subscribers[sub] = struct{}{}
	hub.mu.Unlock()
	defer func() {
		hub.mu.Lock()
		delete(hub.subscribers, sub)
		hub.mu.Unlock()
	}()

	hub.log.Debug("selection subscriber connected", "remote", r.RemoteAddr)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				hub.log.Debug("selection subscriber write failed", "error", err)
				return
			}
		case <-gone:
			return
		case <-hub.closed:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
