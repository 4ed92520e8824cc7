package catalog

import (
	"net/http"

	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler 目錄處理程序，提供標籤、食材與單位的查詢
type Handler struct {
	db *gorm.DB
}

// NewHandler 創建目錄處理程序
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ListTags 取得標籤清單，可用 type 參數過濾
func (h *Handler) ListTags(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Tag{})
	if tagType := c.Query("type"); tagType != "" {
		query = query.Where("tag_type = ?", tagType)
	}

	var tags []models.Tag
	if err := query.Order("tag_type, name").Find(&tags).Error; err != nil {
		common.LogError("Failed to list tags", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// ListIngredients 取得食材清單，可用 search 與 category 過濾
func (h *Handler) ListIngredients(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Ingredient{}).Preload("DietaryTags")
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var ingredients []models.Ingredient
	if err := query.Order("name").Limit(200).Find(&ingredients).Error; err != nil {
		common.LogError("Failed to list ingredients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingredients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

// ListUnits 取得計量單位清單
func (h *Handler) ListUnits(c *gin.Context) {
	var units []models.Unit
	if err := h.db.WithContext(c.Request.Context()).Order("unit_type, name").Find(&units).Error; err != nil {
		common.LogError("Failed to list units", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list units"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": units})
}
