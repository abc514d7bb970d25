package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

type ListingHandler struct {
	listings *service.ListingService
}

func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create trata POST /api/listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Type        string     `json:"type" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description" binding:"required"`
		Price       *float64   `json:"price"`
		ServiceType *string    `json:"service_type"`
		Category    *string    `json:"category"`
		City        *string    `json:"city"`
		PhotoID     *uuid.UUID `json:"photo_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), userID, service.CreateListingInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ServiceType: req.ServiceType,
		Category:    req.Category,
		City:        req.City,
		PhotoID:     req.PhotoID,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// Get trata GET /api/listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := h.listings.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// List trata GET /api/listings.
func (h *ListingHandler) List(c *gin.Context) {
	limit, offset := common.ParsePagination(c)
	filter := repository.ListingFilter{
		Type:        c.Query("type"),
		ServiceType: c.Query("service_type"),
		Category:    c.Query("category"),
		City:        c.Query("city"),
		Search:      c.Query("q"),
		Limit:       limit,
		Offset:      offset,
	}
	if owner := c.Query("owner_id"); owner != "" {
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id deve ser um UUID válido"})
			return
		}
		filter.OwnerID = &ownerID
	}

	listings, err := h.listings.List(c.Request.Context(), filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Update trata PUT /api/listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description" binding:"required"`
		Price       *float64   `json:"price"`
		Category    *string    `json:"category"`
		City        *string    `json:"city"`
		PhotoID     *uuid.UUID `json:"photo_id"`
		Status      string     `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), id, userID, service.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		City:        req.City,
		PhotoID:     req.PhotoID,
		Status:      req.Status,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Deactivate trata DELETE /api/listings/:id.
func (h *ListingHandler) Deactivate(c *gin.Context) {
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
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.listings.Deactivate(c.Request.Context(), id, userID, role); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
