package ws

import (
	"encoding/json"
	"time"

	"taskboard/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	authWait   = 10 * time.Second
)

// TokenParser validates a bearer token and returns the user id it carries.
// The same verification backs HTTP requests.
type TokenParser func(token string) (uuid.UUID, error)

type Client struct {
	UserID uuid.UUID
	Send   chan []byte

	conn *websocket.Conn
	hub  *Hub
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Send: make(chan []byte, 64),
		conn: conn,
		hub:  hub,
	}
}

// Run performs the authenticate handshake, registers the session and pumps
// messages until the transport drops.
func (c *Client) Run(parse TokenParser) {
	userID, ok := c.authenticate(parse)
	if !ok {
		_ = c.conn.Close()
		return
	}
	c.UserID = userID
	c.hub.Register(c)

	go c.writePump()
	c.readPump()
}

// authenticate expects an authenticate envelope as the first message and
// answers with authenticated or authentication_error.
func (c *Client) authenticate(parse TokenParser) (uuid.UUID, bool) {
	_ = c.conn.SetReadDeadline(time.Now().Add(authWait))

	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return uuid.Nil, false
	}

	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil || env.Type != MsgAuthenticate {
		c.writeAuthError("authentication required")
		return uuid.Nil, false
	}

	var payload AuthenticatePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		// some clients send the token as a bare string
		if err := json.Unmarshal(env.Data, &payload.Token); err != nil {
			c.writeAuthError("Invalid token")
			return uuid.Nil, false
		}
	}

	userID, err := parse(payload.Token)
	if err != nil {
		c.writeAuthError("Invalid token")
		return uuid.Nil, false
	}

	reply, err := encode(EventAuthenticated, AuthenticatedPayload{UserID: userID.String()})
	if err != nil {
		return uuid.Nil, false
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (c *Client) writeAuthError(message string) {
	reply, err := encode(EventAuthError, ErrorPayload{Message: message})
	if err != nil {
		return
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.TextMessage, reply)
}

// readPump drains inbound frames to keep pong handling alive. The channel
// is server-push only after the handshake, so payloads are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues a message without blocking; a slow client's backlog is
// dropped rather than stalling the hub.
func (c *Client) trySend(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}
