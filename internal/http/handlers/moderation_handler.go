package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

// ModerationHandler expõe as rotas administrativas. Todas passam pelo
// RequireAdmin no router; o serviço revalida o papel.
type ModerationHandler struct {
	moderation *service.ModerationService
	reports    *service.ReportService
}

func NewModerationHandler(moderation *service.ModerationService, reports *service.ReportService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation, reports: reports}
}

// ListConversations trata GET /api/admin/conversations.
func (h *ModerationHandler) ListConversations(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	limit, offset := common.ParsePagination(c)
	conversations, err := h.moderation.ListConversations(c.Request.Context(), role, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// SetParticipation trata PUT /api/admin/conversations/:id/participation.
func (h *ModerationHandler) SetParticipation(c *gin.Context) {
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

	var req struct {
		Participating *bool `json:"participating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.moderation.SetParticipation(c.Request.Context(), conversationID, role, *req.Participating); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendMessage trata POST /api/admin/conversations/:id/messages.
func (h *ModerationHandler) SendMessage(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
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

	var req struct {
		Kind    string `json:"kind" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.moderation.SendMessage(c.Request.Context(), conversationID, adminID, role, req.Kind, req.Content)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// SetUserStatus trata PUT /api/admin/users/:id/status.
func (h *ModerationHandler) SetUserStatus(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.moderation.SetUserStatus(c.Request.Context(), targetID, adminID, role, req.Status); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReports trata GET /api/admin/reports.
func (h *ModerationHandler) ListReports(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	limit, offset := common.ParsePagination(c)
	reports, err := h.reports.List(c.Request.Context(), role, c.Query("status"), limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport trata PUT /api/admin/reports/:id.
func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reports.Resolve(c.Request.Context(), reportID, adminID, role, req.Status); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
