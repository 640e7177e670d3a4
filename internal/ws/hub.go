package ws

import (
	"sync"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	wsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connections",
		Help: "Currently registered websocket sessions",
	})
	wsEventsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_events_emitted_total",
			Help: "Task lifecycle events pushed over websocket",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsEventsEmitted)
}

// Hub is the live connection registry: a process-local map from user id to
// the user's active session. The hub owns all mutation of the map;
// register, unregister and the send operations are its only surface.
// Delivery is best effort with no queuing of missed events.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]*Client)}
}

// Register adds an authenticated client. The registry keeps a single
// session per user: a later registration replaces the earlier one, whose
// send channel is closed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.UserID]
	h.clients[c.UserID] = c
	if prev != nil && prev != c {
		close(prev.Send)
	}
	wsConnections.Set(float64(len(h.clients)))
	h.mu.Unlock()

	logger.Debug("ws client registered", "user_id", c.UserID)
}

// Unregister removes the client if it is still the user's current session.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == c {
		delete(h.clients, c.UserID)
		close(c.Send)
	}
	wsConnections.Set(float64(len(h.clients)))
	h.mu.Unlock()

	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// BroadcastTaskCreated delivers the event to every connected session.
func (h *Hub) BroadcastTaskCreated(t *domain.Task) {
	h.broadcast(EventTaskCreated, t)
}

// BroadcastTaskUpdated delivers the event to every connected session.
func (h *Hub) BroadcastTaskUpdated(t *domain.Task) {
	h.broadcast(EventTaskUpdated, t)
}

// BroadcastTaskDeleted delivers the event to every connected session.
func (h *Hub) BroadcastTaskDeleted(taskID uuid.UUID) {
	h.broadcast(EventTaskDeleted, TaskDeletedPayload{TaskID: taskID.String()})
}

// NotifyTaskAssigned delivers an assignment notification to the assignee's
// session only. If the user has no active session the event is dropped.
func (h *Hub) NotifyTaskAssigned(userID uuid.UUID, t *domain.Task) {
	msg, err := encode(EventTaskAssigned, TaskAssignedPayload{
		Message: "You have been assigned a new task: " + t.Title,
		Task:    t,
	})
	if err != nil {
		logger.Error("ws encode failed", "event", EventTaskAssigned, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	if !ok {
		return
	}
	c.trySend(msg)
	wsEventsEmitted.WithLabelValues(EventTaskAssigned).Inc()
}

// Sessions reports the number of currently registered sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		logger.Error("ws encode failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		c.trySend(msg)
	}
	wsEventsEmitted.WithLabelValues(event).Inc()
}
