package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/models"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

type ProposalHandler struct {
	proposals *service.ProposalService
}

func NewProposalHandler(proposals *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// Create trata POST /api/conversations/:id/proposals.
func (h *ProposalHandler) Create(c *gin.Context) {
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

	var req struct {
		Description string  `json:"description" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.proposals.Create(c.Request.Context(), conversationID, userID, req.Description, req.Price)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

// ListByConversation trata GET /api/conversations/:id/proposals.
func (h *ProposalHandler) ListByConversation(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	proposals, err := h.proposals.ListByConversation(c.Request.Context(), conversationID, userID, role)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// Resolve trata POST /api/proposals/:id/accept, /reject e /cancel.
func (h *ProposalHandler) Resolve(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := common.CurrentUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		proposalID, err := common.ParseUUIDParam(c, "id")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var proposal *models.Proposal
		var resolveErr error
		switch action {
		case models.ProposalStatusAccepted:
			proposal, resolveErr = h.proposals.Accept(c.Request.Context(), proposalID, userID)
		case models.ProposalStatusRejected:
			proposal, resolveErr = h.proposals.Reject(c.Request.Context(), proposalID, userID)
		case models.ProposalStatusCancelled:
			proposal, resolveErr = h.proposals.Cancel(c.Request.Context(), proposalID, userID)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "ação de proposta inválida"})
			return
		}
		if resolveErr != nil {
			common.RespondError(c, resolveErr)
			return
		}
		c.JSON(http.StatusOK, proposal)
	}
}
