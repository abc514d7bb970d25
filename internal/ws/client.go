package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client é uma conexão WebSocket autenticada de um usuário.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	userID        uuid.UUID
	role          string
	send          chan []byte
	subscriptions map[uuid.UUID]struct{}
	closed        bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, role string) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		userID:        userID,
		role:          role,
		send:          make(chan []byte, sendBuffer),
		subscriptions: make(map[uuid.UUID]struct{}),
	}
}

// inboundFrame é o que o cliente pode mandar: assinar e desassinar salas e
// sinalizar digitação.
type inboundFrame struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// ReadPump consome quadros do cliente até a conexão cair. Deve rodar em
// goroutine própria; ao sair, desregistra o cliente.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.hub.presence.Touch(c.userID)
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.presence.Touch(c.userID)

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		switch frame.Type {
		case "subscribe":
			if ok := c.hub.Subscribe(c, frame.ConversationID); ok {
				c.ack("subscribed", frame.ConversationID)
			} else {
				c.ack("subscribe_denied", frame.ConversationID)
			}
		case "unsubscribe":
			c.hub.Unsubscribe(c, frame.ConversationID)
			c.ack("unsubscribed", frame.ConversationID)
		case "typing":
			if _, subscribed := c.subscriptions[frame.ConversationID]; subscribed {
				c.hub.NotifyTyping(frame.ConversationID, c.userID)
			}
		}
	}
}

// WritePump escoa a fila de envio e mantém o ping periódico. Deve rodar em
// goroutine própria.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
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

func (c *Client) ack(event string, conversationID uuid.UUID) {
	raw, err := envelope(event, map[string]interface{}{"conversation_id": conversationID})
	if err != nil {
		return
	}
	c.enqueue(raw)
}

// enqueue empurra para a fila de envio; cliente lento perde o evento em vez
// de travar o hub.
func (c *Client) enqueue(raw []byte) {
	select {
	case c.send <- raw:
	default:
	}
}

func (c *Client) closeSend() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
