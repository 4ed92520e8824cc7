package recipes

import (
	"errors"
	"net/http"

	"onlypans/internal/api/middleware"
	"onlypans/internal/core/nutrition"
	"onlypans/internal/core/recommend"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// respondError 將服務層錯誤轉為 API 響應
func respondError(c *gin.Context, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error": customErr.Message,
			"code":  customErr.Code,
		})
		return
	}
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": common.ErrInternalError.Message,
		"code":  common.ErrInternalError.Code,
	})
}

// currentUser 取得已識別的使用者，匿名時回傳 nil
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

// recipeSummary 清單用的食譜摘要
func recipeSummary(r *models.Recipe, dietaryTags []models.Tag) gin.H {
	summary := gin.H{
		"id":          r.ID,
		"title":       r.Title,
		"slug":        r.Slug,
		"description": r.Description,
		"image_url":   r.ImageURL,
		"prep_time":   r.PrepTime,
		"cook_time":   r.CookTime,
		"total_time":  r.TotalTime(),
		"servings":    r.Servings,
		"view_count":  r.ViewCount,
		"tags":        r.Tags,
		"created_at":  r.CreatedAt,
	}
	if r.User != nil {
		summary["author"] = gin.H{
			"username":     r.User.Username,
			"display_name": r.User.DisplayName,
		}
	}
	if dietaryTags != nil {
		summary["is_compatible"] = recommend.IsCompatible(r, dietaryTags)
	}
	return summary
}

// ingredientLine 食譜食材的輸出格式
func ingredientLine(ri *models.RecipeIngredient) gin.H {
	line := gin.H{
		"quantity": ri.Quantity,
		"display":  common.FormatQuantity(ri.Quantity),
		"notes":    ri.Notes,
	}
	if ri.Ingredient != nil {
		line["name"] = ri.Ingredient.Name
		line["category"] = ri.Ingredient.Category
	}
	if ri.Unit != nil {
		line["unit"] = ri.Unit.Name
		line["unit_abbreviation"] = ri.Unit.Abbreviation
	}
	return line
}

// recipeDetail 詳情頁的完整食譜輸出
func recipeDetail(r *models.Recipe, dietaryTags []models.Tag, related []models.Recipe, comments []models.Comment) gin.H {
	detail := recipeSummary(r, dietaryTags)

	ingredients := make([]gin.H, 0, len(r.Ingredients))
	for i := range r.Ingredients {
		ingredients = append(ingredients, ingredientLine(&r.Ingredients[i]))
	}
	detail["ingredients"] = ingredients
	detail["steps"] = r.Steps

	detail["nutrition_per_serving"] = nutrition.PerServing(r)
	detail["average_rating"] = nutrition.AverageRating(r.Ratings)
	detail["ratings_count"] = len(r.Ratings)

	relatedOut := make([]gin.H, 0, len(related))
	for i := range related {
		relatedOut = append(relatedOut, recipeSummary(&related[i], dietaryTags))
	}
	detail["related"] = relatedOut
	detail["comments"] = comments

	return detail
}

// viewerDietaryTags 取得觀看者的飲食限制標籤；匿名或無檔案時回傳 nil
func viewerDietaryTags(user *models.User) []models.Tag {
	if user == nil || user.Profile == nil {
		return nil
	}
	return user.Profile.DietaryTags
}
