package recipes

import (
	"net/http"

	"onlypans/internal/core/nutrition"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentRequest 新增留言的請求
type CommentRequest struct {
	Content         string     `json:"content" binding:"required,max=2000"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

// RatingRequest 評分請求
type RatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// ToggleLike 收藏或取消收藏食譜
func (h *Handler) ToggleLike(c *gin.Context) {
	user := currentUser(c)

	liked, total, err := h.recipes.ToggleLike(c.Request.Context(), user.ID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":       liked,
		"likes_count": total,
	})
}

// ListComments 取得食譜留言
func (h *Handler) ListComments(c *gin.Context) {
	found, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := h.engage.ListComments(c.Request.Context(), found.ID)
	if err != nil {
		common.LogError("Failed to list comments", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment 新增留言或回覆，並通知食譜作者
func (h *Handler) AddComment(c *gin.Context) {
	user := currentUser(c)

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	found, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.engage.AddComment(c.Request.Context(), user.ID, found.ID, req.Content, req.ParentCommentID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.CommentOnRecipe(found, comment)

	c.JSON(http.StatusCreated, comment)
}

// Rate 評分食譜（1-5 星），重複評分覆寫舊分數並通知作者
func (h *Handler) Rate(c *gin.Context) {
	user := currentUser(c)

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	found, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	rating, err := h.engage.RateRecipe(c.Request.Context(), user.ID, found.ID, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.RatingOnRecipe(found, rating)

	ratings, err := h.engage.RatingsFor(c.Request.Context(), found.ID)
	if err != nil {
		common.LogWarn("Failed to reload ratings", zap.Error(err))
		ratings = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"rating":         rating,
		"average_rating": nutrition.AverageRating(ratings),
		"ratings_count":  len(ratings),
	})
}

// Nutrition 取得食譜的每份營養摘要
func (h *Handler) Nutrition(c *gin.Context) {
	found, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"slug":                  found.Slug,
		"servings":              found.Servings,
		"nutrition_per_serving": nutrition.PerServing(found),
	})
}
