package accounts

import (
	"errors"
	"net/http"
	"strconv"

	"onlypans/internal/api/middleware"
	"onlypans/internal/core/account"
	"onlypans/internal/core/notify"
	"onlypans/internal/core/recipe"
	"onlypans/internal/core/recommend"
	"onlypans/internal/infrastructure/config"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxRecommendLimit 單次推薦請求可要求的筆數上限
const maxRecommendLimit = 50

// Handler 帳號處理程序
type Handler struct {
	accounts  *account.Service
	recipes   *recipe.Service
	recommend *recommend.Service
	notifier  *notify.Notifier
	cfg       *config.Config
}

// NewHandler 創建帳號處理程序
func NewHandler(accounts *account.Service, recipes *recipe.Service, recommendSvc *recommend.Service, notifier *notify.Notifier, cfg *config.Config) *Handler {
	return &Handler{
		accounts:  accounts,
		recipes:   recipes,
		recommend: recommendSvc,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func respondError(c *gin.Context, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": common.ErrInternalError.Message,
		"code":  common.ErrInternalError.Code,
	})
}

func currentUser(c *gin.Context) *models.User {
	v, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// profileView 依隱私設定組合公開的個人檔案
func profileView(user *models.User, viewer *models.User) gin.H {
	out := gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"display_name": user.DisplayName,
		"created_at":   user.CreatedAt,
	}

	isSelf := viewer != nil && viewer.ID == user.ID
	if isSelf || (user.Profile != nil && user.Profile.ShowEmail) {
		out["email"] = user.Email
	}

	if user.Profile == nil {
		return out
	}
	p := user.Profile
	out["bio"] = p.Bio
	out["total_followers"] = p.TotalFollowers
	out["total_following"] = p.TotalFollowing

	if isSelf || p.ShowDietaryPreferences {
		out["dietary_tags"] = p.DietaryTags
		out["favorite_cuisines"] = p.FavoriteCuisines
		out["preferred_difficulty"] = p.PreferredDifficulty
	}
	return out
}

// GetProfile 以使用者名稱取得公開個人檔案
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.accounts.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileView(user, currentUser(c)))
}

// GetMyProfile 取得自己的完整個人檔案
func (h *Handler) GetMyProfile(c *gin.Context) {
	user := currentUser(c)

	profile, err := h.accounts.ProfileFor(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	user.Profile = profile

	c.JSON(http.StatusOK, profileView(user, user))
}

// UpdatePreferences 更新自己的口味偏好
func (h *Handler) UpdatePreferences(c *gin.Context) {
	user := currentUser(c)

	var input account.PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.accounts.UpdatePreferences(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ToggleFollow 追蹤或取消追蹤使用者，開始追蹤時通知對方
func (h *Handler) ToggleFollow(c *gin.Context) {
	follower := currentUser(c)

	followed, err := h.accounts.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	following, err := h.accounts.ToggleFollow(c.Request.Context(), follower.ID, followed.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	if following {
		h.notifier.NewFollower(followed, follower)
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// ListFollowers 取得追蹤者清單
func (h *Handler) ListFollowers(c *gin.Context) {
	user, err := h.accounts.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	followers, err := h.accounts.Followers(c.Request.Context(), user.ID)
	if err != nil {
		common.LogError("Failed to list followers", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

// ListFollowing 取得追蹤中清單
func (h *Handler) ListFollowing(c *gin.Context) {
	user, err := h.accounts.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	following, err := h.accounts.Following(c.Request.Context(), user.ID)
	if err != nil {
		common.LogError("Failed to list following", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}

// ListLiked 取得自己收藏的食譜
func (h *Handler) ListLiked(c *gin.Context) {
	user := currentUser(c)

	liked, err := h.recipes.LikedRecipes(c.Request.Context(), user.ID)
	if err != nil {
		common.LogError("Failed to list liked recipes", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": liked})
}

// Recommendations 取得個人化推薦清單
func (h *Handler) Recommendations(c *gin.Context) {
	user := currentUser(c)

	profile, err := h.accounts.ProfileFor(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	limit := h.cfg.Recommend.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxRecommendLimit {
		limit = maxRecommendLimit
	}

	recommendations, err := h.recommend.Recommend(c.Request.Context(), profile, limit)
	if err != nil {
		common.LogError("Failed to build recommendations", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
