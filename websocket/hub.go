package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Event is a typed notification pushed to a connected client. Event types:
// booking.updated, payment.captured, review.submitted.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type notification struct {
	UserID uuid.UUID
	Event  Event
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var notify = make(chan notification, 64)

// Notify queues an event for the given user. Dropped silently if the user
// has no open connection.
func Notify(userID uuid.UUID, event Event) {
	notify <- notification{UserID: userID, Event: event}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case n := <-notify:
			clientsMu.RLock()
			conn, ok := clients[n.UserID]
			clientsMu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(n.Event); err != nil {
				log.Printf("Error sending event to client %s: %v", n.UserID, err)
				conn.Close()
				clientsMu.Lock()
				delete(clients, n.UserID)
				clientsMu.Unlock()
			}
		}
	}
}
