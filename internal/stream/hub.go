// Package stream implements a Hub that fans roster changes out to clients following an
// activity over server-sent events. When a student signs up or leaves, everyone watching
// that activity's roster gets the update pushed to them instead of polling GET /activities.
package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mergington/activities-api/internal/metrics"
)

// ErrHubStopped is returned by Register once the hub's Run loop has exited.
var ErrHubStopped = errors.New("stream hub stopped")

// clientBuffer is how many undelivered events a client may queue before it is
// considered too slow and dropped.
const clientBuffer = 16

// Client represents a single connected subscriber.
type Client struct {
	ID       string      // Unique per connection, used in logs
	Activity string      // Which activity's roster this client follows
	Send     chan []byte // Outgoing events; closed by the hub when the client is removed
}

// NewClient creates a subscriber for an activity with a buffered Send channel.
func NewClient(activity string) *Client {
	return &Client{
		ID:       uuid.NewString(),
		Activity: activity,
		Send:     make(chan []byte, clientBuffer),
	}
}

// Message is one event for every client following Activity.
type Message struct {
	Activity string
	Data     []byte
}

// Hub tracks subscribers grouped by activity name. All changes to the client set happen
// on the Run goroutine; mu only exists so Subscribers can be read from elsewhere.
type Hub struct {
	// clients is a nested map: activity -> set of clients.
	// map[*Client]bool is the usual Go stand-in for a set, since Go has no set type.
	clients map[string]map[*Client]bool

	broadcast  chan *Message // Events waiting to be fanned out to one activity's clients
	register   chan *Client  // New connections to start tracking
	unregister chan *Client  // Connections that have gone away
	done       chan struct{} // Closed when Run returns; unblocks every sender

	// mu lets Subscribers read the map from other goroutines while Run writes to it.
	mu sync.RWMutex
}

// NewHub creates a Hub. Call Run in its own goroutine before publishing.
// broadcast is buffered so a signup handler doesn't wait on a busy hub.
// register and unregister are unbuffered: the caller knows the change has been applied
// once the send returns.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the Hub's event loop. It returns when ctx is cancelled, closing every
// remaining client's Send channel so their writers can finish.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	// select waits until one of its cases can proceed and runs exactly that one.
	// Handling one event at a time is what keeps the clients map single-writer.
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for activity, clients := range h.clients {
				for client := range clients {
					close(client.Send)
					metrics.StreamClients.Dec()
				}
				delete(h.clients, activity)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Activity] == nil {
				h.clients[client.Activity] = make(map[*Client]bool)
			}
			h.clients[client.Activity][client] = true
			h.mu.Unlock()
			metrics.StreamClients.Inc()

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			targets := make([]*Client, 0, len(h.clients[msg.Activity]))
			for client := range h.clients[msg.Activity] {
				targets = append(targets, client)
			}
			h.mu.RUnlock()

			// A select with a default case never blocks: if the client's buffer is
			// full, the default branch runs instead of waiting.
			for _, client := range targets {
				select {
				case client.Send <- msg.Data:
				default:
					// Buffer full: drop the client rather than stall everyone else.
					h.remove(client)
				}
			}
		}
	}
}

// remove deletes a client and closes its Send channel. Safe to call for a client
// that has already been removed.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.Activity]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	metrics.StreamClients.Dec()
	if len(clients) == 0 {
		delete(h.clients, client.Activity)
	}
}

// Publish queues data for every client following activity. It is a no-op once the hub
// has stopped.
func (h *Hub) Publish(activity string, data []byte) {
	select {
	case h.broadcast <- &Message{Activity: activity, Data: data}:
	case <-h.done:
	}
}

// Register adds a client so it starts receiving events for its activity.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

// Unregister removes a client, e.g. after its connection drops.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribers reports how many clients currently follow activity.
func (h *Hub) Subscribers(activity string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[activity])
}
