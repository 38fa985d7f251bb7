package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dhruvparekh01/abalone/internal/board"
	"github.com/dhruvparekh01/abalone/internal/movegen"
	"github.com/dhruvparekh01/abalone/internal/search"
)

// searchProgressPayload is one completed depth of the live AI search.
type searchProgressPayload struct {
	Colour    board.Colour `json:"colour"`
	Depth     int          `json:"depth"`
	Move      movegen.Move `json:"move"`
	MoveText  string       `json:"move_text"`
	Value     float64      `json:"value"`
	Nodes     int64        `json:"nodes"`
	ElapsedMs int64        `json:"elapsed_ms"`
}

func progressFromReport(colour board.Colour, r search.DepthReport) searchProgressPayload {
	return searchProgressPayload{
		Colour:    colour,
		Depth:     r.Depth,
		Move:      r.Move,
		MoveText:  r.Move.String(),
		Value:     r.Value,
		Nodes:     r.Nodes,
		ElapsedMs: r.Elapsed.Milliseconds(),
	}
}

type SearchClient struct {
	hub  *SearchHub
	conn *websocket.Conn
	send chan []byte
}

type SearchHub struct {
	mu        sync.Mutex
	clients   map[*SearchClient]struct{}
	broadcast chan searchProgressPayload
}

func NewSearchHub() *SearchHub {
	return &SearchHub{
		clients:   make(map[*SearchClient]struct{}),
		broadcast: make(chan searchProgressPayload, 32),
	}
}

func (h *SearchHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "search_progress", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *SearchHub) Register(c *SearchClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Publish never blocks the search goroutine.
func (h *SearchHub) Publish(payload searchProgressPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *SearchHub) Unregister(c *SearchClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *SearchHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *SearchClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveSearchWS(hub *SearchHub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &SearchClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		_ = writeWSWithHeartbeat(conn, client.send)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}
