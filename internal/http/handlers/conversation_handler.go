package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

type ConversationHandler struct {
	conversations *service.ConversationService
}

func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// Start trata POST /api/conversations. Repetir a chamada para o mesmo
// anúncio devolve a conversa existente.
func (h *ConversationHandler) Start(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		ListingID uuid.UUID `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.conversations.Start(c.Request.Context(), req.ListingID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// List trata GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	limit, offset := common.ParsePagination(c)
	conversations, err := h.conversations.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// Get trata GET /api/conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	userID, role, conversationID, ok := h.requestContext(c)
	if !ok {
		return
	}
	conv, err := h.conversations.Get(c.Request.Context(), conversationID, userID, role)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListMessages trata GET /api/conversations/:id/messages.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID, role, conversationID, ok := h.requestContext(c)
	if !ok {
		return
	}
	limit, offset := common.ParsePagination(c)
	messages, err := h.conversations.ListMessages(c.Request.Context(), conversationID, userID, role, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage trata POST /api/conversations/:id/messages. Aceita JSON puro
// ou multipart/form-data com anexo no campo file.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var content string
	var attachment *service.Attachment

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "não foi possível ler o anexo"})
			return
		}
		defer file.Close()
		attachment = &service.Attachment{Filename: fileHeader.Filename, Reader: file}
		content = c.PostForm("content")
	} else {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content = req.Content
	}

	msg, err := h.conversations.SendMessage(c.Request.Context(), conversationID, userID, content, attachment)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// MarkRead trata POST /api/conversations/:id/read. Marca como lidas todas
// as mensagens da conversa que não são do leitor; a operação é idempotente.
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	userID, role, conversationID, ok := h.requestContext(c)
	if !ok {
		return
	}
	if err := h.conversations.MarkAsRead(c.Request.Context(), conversationID, userID, role); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Close trata POST /api/conversations/:id/close.
func (h *ConversationHandler) Close(c *gin.Context) {
	userID, role, conversationID, ok := h.requestContext(c)
	if !ok {
		return
	}
	if err := h.conversations.Close(c.Request.Context(), conversationID, userID, role); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) requestContext(c *gin.Context) (userID uuid.UUID, role string, conversationID uuid.UUID, ok bool) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return uuid.Nil, "", uuid.Nil, false
	}
	role, err = common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return uuid.Nil, "", uuid.Nil, false
	}
	conversationID, err = common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, "", uuid.Nil, false
	}
	return userID, role, conversationID, true
}
