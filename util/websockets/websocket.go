package websockets

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Run starts the WebSocket manager
func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if client, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				conn.Close()
				log.Printf("Editor %s disconnected", client.Editor)
			}
			manager.mu.Unlock()

		case message := <-manager.broadcast:
			manager.mu.Lock()
			for _, client := range manager.clients {
				if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
					client.Conn.Close()
					delete(manager.clients, client.Conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket Upgrade Error:", err)
		return
	}

	client := &Client{Conn: conn}
	manager.register <- client

	defer func() {
		manager.unregister <- conn
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			manager.unregister <- conn
			break
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			log.Println("Invalid JSON:", err)
			continue
		}

		switch message.Type {
		case MsgTypeSubscribe:
			client.Editor = message.Editor
			client.SpotID = message.SpotID
		}
	}
}

// BroadcastSpotUpdate tells every connected editor that one spot changed.
func (manager *WebSocketManager) BroadcastSpotUpdate(spotID, status string) {
	payload, err := json.Marshal(Event{Type: MsgTypeSpotUpdate, SpotID: spotID, Status: status})
	if err != nil {
		log.Println("Failed to encode spot update:", err)
		return
	}
	manager.broadcast <- payload
}

// BroadcastCollectionReload tells editors to refetch the whole collection,
// used when the change feed replaces the local mirror.
func (manager *WebSocketManager) BroadcastCollectionReload() {
	payload, err := json.Marshal(Event{Type: MsgTypeCollectionReload})
	if err != nil {
		log.Println("Failed to encode reload event:", err)
		return
	}
	manager.broadcast <- payload
}

// NotifySpot sends a spot update only to editors subscribed to that spot.
func (manager *WebSocketManager) NotifySpot(spotID string, report []byte) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for _, client := range manager.clients {
		if client.SpotID == spotID {
			client.Conn.WriteMessage(websocket.TextMessage, report)
		}
	}
}
