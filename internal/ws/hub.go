package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/observability"
)

// Authorizer decide se um usuário pode assinar a sala de uma conversa.
type Authorizer interface {
	CanJoin(ctx context.Context, conversationID, userID uuid.UUID, role string) bool
}

// Hub gerencia os clientes WebSocket conectados: entrega por usuário,
// salas por conversa e o registro de presença.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	rooms      map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	authorizer Authorizer
	presence   *PresenceRegistry
	log        *logrus.Logger
	ctx        context.Context
}

func NewHub(ctx context.Context, presence *PresenceRegistry, log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   presence,
		log:        log,
		ctx:        ctx,
	}
}

// SetAuthorizer define quem decide as assinaturas de sala. Deve ser chamado
// antes de aceitar conexões; sem authorizer toda assinatura é negada.
func (h *Hub) SetAuthorizer(authorizer Authorizer) {
	h.mu.Lock()
	h.authorizer = authorizer
	h.mu.Unlock()
}

// Run processa registros e desconexões até o contexto encerrar.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register adiciona um cliente conectado. Após o encerramento do contexto
// o hub não consome mais o canal, então a entrega é abandonada para não
// prender a goroutine da conexão.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister remove um cliente.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
	h.mu.Unlock()

	h.presence.Touch(client.userID)
	observability.WSConnectionOpened()
	h.log.WithField("user_id", client.userID).Debug("ws: cliente conectado")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if set, ok := h.clients[client.userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, client.userID)
		}
	}
	for conversationID := range client.subscriptions {
		if room, ok := h.rooms[conversationID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, conversationID)
			}
		}
	}
	stillOnline := len(h.clients[client.userID]) > 0
	h.mu.Unlock()

	if !stillOnline {
		h.presence.Forget(client.userID)
	}
	client.closeSend()
	observability.WSConnectionClosed()
	h.log.WithField("user_id", client.userID).Debug("ws: cliente desconectado")
}

// Subscribe coloca o cliente na sala da conversa, se autorizado.
func (h *Hub) Subscribe(client *Client, conversationID uuid.UUID) bool {
	h.mu.RLock()
	authorizer := h.authorizer
	h.mu.RUnlock()
	if authorizer == nil || !authorizer.CanJoin(h.ctx, conversationID, client.userID, client.role) {
		h.log.WithFields(logrus.Fields{
			"user_id":         client.userID,
			"conversation_id": conversationID,
		}).Warn("ws: assinatura negada")
		return false
	}
	h.mu.Lock()
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[*Client]struct{})
	}
	h.rooms[conversationID][client] = struct{}{}
	client.subscriptions[conversationID] = struct{}{}
	h.mu.Unlock()
	return true
}

// Unsubscribe tira o cliente da sala da conversa.
func (h *Hub) Unsubscribe(client *Client, conversationID uuid.UUID) {
	h.mu.Lock()
	if room, ok := h.rooms[conversationID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, conversationID)
		}
	}
	delete(client.subscriptions, conversationID)
	h.mu.Unlock()
}

// O envelope do contrato WebSocket: "type" identifica o evento e "data"
// carrega a carga útil.
func envelope(event string, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
}

// BroadcastToConversation entrega o evento a todos os assinantes da sala.
func (h *Hub) BroadcastToConversation(conversationID uuid.UUID, event string, data interface{}) {
	raw, err := envelope(event, data)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("ws: falha ao serializar evento")
		return
	}
	h.mu.RLock()
	for client := range h.rooms[conversationID] {
		client.enqueue(raw)
	}
	h.mu.RUnlock()
	observability.WSEventSent(event)
}

// SendToUser entrega o evento a todas as conexões de um usuário.
func (h *Hub) SendToUser(userID uuid.UUID, event string, data interface{}) {
	raw, err := envelope(event, data)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("ws: falha ao serializar evento")
		return
	}
	h.mu.RLock()
	for client := range h.clients[userID] {
		client.enqueue(raw)
	}
	h.mu.RUnlock()
	observability.WSEventSent(event)
}

// NotifyTyping propaga o indicador de digitação para a sala, exceto para
// quem digita. O evento é efêmero: nada é persistido.
func (h *Hub) NotifyTyping(conversationID, userID uuid.UUID) {
	raw, err := envelope("typing", map[string]interface{}{
		"conversation_id": conversationID,
		"user_id":         userID,
	})
	if err != nil {
		return
	}
	h.mu.RLock()
	for client := range h.rooms[conversationID] {
		if client.userID != userID {
			client.enqueue(raw)
		}
	}
	h.mu.RUnlock()
	observability.WSEventSent("typing")
}

// Presence expõe o registro de presença para consultas HTTP.
func (h *Hub) Presence() *PresenceRegistry {
	return h.presence
}
