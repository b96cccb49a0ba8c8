package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe        = "subscribe"
	MsgTypeSpotUpdate       = "spot_update"
	MsgTypeCollectionReload = "collection_reload"
)

// Client represents a connected editor
type Client struct {
	Conn   *websocket.Conn
	Editor string
	SpotID string
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type    string `json:"type"`
	Editor  string `json:"editor,omitempty"`
	SpotID  string `json:"spot_id,omitempty"`
	Content string `json:"content,omitempty"`
}

// Event is an outgoing collection-change notification
type Event struct {
	Type   string `json:"type"`
	SpotID string `json:"spot_id,omitempty"`
	Status string `json:"status,omitempty"`
}
