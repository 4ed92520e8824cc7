package recipes

import (
	"net/http"

	"onlypans/internal/core/engage"
	"onlypans/internal/core/notify"
	"onlypans/internal/core/recipe"
	"onlypans/internal/core/recommend"
	"onlypans/internal/infrastructure/config"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	recipes   *recipe.Service
	engage    *engage.Service
	recommend *recommend.Service
	notifier  *notify.Notifier
	cfg       *config.Config
}

// NewHandler 創建食譜處理程序
func NewHandler(recipes *recipe.Service, engageSvc *engage.Service, recommendSvc *recommend.Service, notifier *notify.Notifier, cfg *config.Config) *Handler {
	return &Handler{
		recipes:   recipes,
		engage:    engageSvc,
		recommend: recommendSvc,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// List 食譜清單；for_you=true 時改用個人化排序
func (h *Handler) List(c *gin.Context) {
	user := currentUser(c)

	if c.Query("for_you") == "true" && user != nil && user.Profile != nil {
		h.listForYou(c, user)
		return
	}

	var q recipe.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	recipesList, page, err := h.recipes.List(c.Request.Context(), q)
	if err != nil {
		common.LogError("Failed to list recipes", zap.Error(err))
		respondError(c, err)
		return
	}

	dietaryTags := viewerDietaryTags(user)
	items := make([]gin.H, 0, len(recipesList))
	for i := range recipesList {
		items = append(items, recipeSummary(&recipesList[i], dietaryTags))
	}

	c.JSON(http.StatusOK, common.ListResponse{Items: items, Page: page})
}

func (h *Handler) listForYou(c *gin.Context, user *models.User) {
	recipesList, err := h.recommend.Recommend(c.Request.Context(), user.Profile, h.cfg.Recommend.ForYouLimit)
	if err != nil {
		common.LogError("Failed to build personalized list", zap.Error(err))
		respondError(c, err)
		return
	}

	dietaryTags := viewerDietaryTags(user)
	items := make([]gin.H, 0, len(recipesList))
	for i := range recipesList {
		items = append(items, recipeSummary(&recipesList[i], dietaryTags))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"for_you": true,
		"page":    common.NewPageInfo(1, len(items), int64(len(items))),
	})
}

// Detail 食譜詳情，含營養、評分、留言與相關食譜
func (h *Handler) Detail(c *gin.Context) {
	found, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.recipes.IncrementViews(c.Request.Context(), found.ID)

	related, err := h.recipes.Related(c.Request.Context(), found)
	if err != nil {
		common.LogWarn("Failed to load related recipes", zap.Error(err))
		related = nil
	}
	comments, err := h.engage.ListComments(c.Request.Context(), found.ID)
	if err != nil {
		common.LogWarn("Failed to load comments", zap.Error(err))
		comments = nil
	}

	dietaryTags := viewerDietaryTags(currentUser(c))
	c.JSON(http.StatusOK, recipeDetail(found, dietaryTags, related, comments))
}

// Create 建立食譜
func (h *Handler) Create(c *gin.Context) {
	user := currentUser(c)

	var input recipe.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.recipes.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipeDetail(created, nil, nil, nil))
}

// Update 更新食譜，僅擁有者可操作
func (h *Handler) Update(c *gin.Context) {
	user := currentUser(c)

	var input recipe.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.recipes.Update(c.Request.Context(), user.ID, c.Param("slug"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipeDetail(updated, nil, nil, nil))
}

// Delete 刪除食譜，僅擁有者可操作
func (h *Handler) Delete(c *gin.Context) {
	user := currentUser(c)

	if err := h.recipes.Delete(c.Request.Context(), user.ID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
