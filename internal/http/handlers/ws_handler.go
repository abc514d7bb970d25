package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/goroutine"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/ws"
)

// WSHandler estabelece as conexões WebSocket.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *service.TokenManager
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle atende GET /api/ws?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token de acesso é obrigatório"})
		return
	}
	claims, err := h.tokens.ParseAccessToken(rawToken)
	if err != nil || claims.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token de acesso inválido"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Role)
	h.hub.Register(client)

	goroutine.SafeGo(client.WritePump)
	goroutine.SafeGo(client.ReadPump)
}

// Presence atende GET /api/presence/:id e informa se o usuário está online.
func (h *WSHandler) Presence(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro id deve ser um UUID válido"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"online":  h.hub.Presence().Online(userID),
	})
}
