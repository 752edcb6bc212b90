package notifications

import (
	"log"
	"net/http"
	"sync"

	"velora/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

type pushMsg struct {
	UserID string
	Data   []byte
}

// Hub fans notification payloads out to a user's open sockets.
type Hub struct {
	users      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	push       chan pushMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan pushMsg, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.users[c.UserID] == nil {
				h.users[c.UserID] = make(map[*Client]bool)
			}
			h.users[c.UserID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.users[c.UserID]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.push:
			h.mu.Lock()
			for c := range h.users[m.UserID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.users[m.UserID], c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for _, conns := range h.users {
				for c := range conns {
					close(c.Send)
				}
			}
			h.users = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Push delivers a payload to every open socket of one user.
func (h *Hub) Push(userID string, data []byte) {
	h.push <- pushMsg{UserID: userID, Data: data}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades GET /ws/notifications. Browsers cannot set
// an Authorization header on a WebSocket request, so the token travels
// as a query parameter.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := middleware.ValidateJWT(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("notifications upgrade:", err)
			return
		}

		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 64),
			UserID: claims.UserID,
		}
		hub.register <- client

		go func() {
			defer conn.Close()
			for data := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
			}
		}()

		go func() {
			defer func() { hub.unregister <- client }()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
