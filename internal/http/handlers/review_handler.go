package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers/common"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create trata POST /api/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	reviewerID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		ReviewedID uuid.UUID  `json:"reviewed_id" binding:"required"`
		ListingID  *uuid.UUID `json:"listing_id"`
		Rating     int        `json:"rating" binding:"required"`
		Comment    *string    `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.Submit(c.Request.Context(), reviewerID, req.ReviewedID, req.ListingID, req.Rating, req.Comment)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListForUser trata GET /api/users/:id/reviews.
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	reviewedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, offset := common.ParsePagination(c)
	reviews, err := h.reviews.ListForUser(c.Request.Context(), reviewedID, limit, offset)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// GetRating trata GET /api/users/:id/rating.
func (h *ReviewHandler) GetRating(c *gin.Context) {
	reviewedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rating, err := h.reviews.GetRating(c.Request.Context(), reviewedID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
