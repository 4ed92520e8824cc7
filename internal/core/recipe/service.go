package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const relatedRecipeLimit = 4

// Service 食譜服務，負責食譜的查詢與維護
// --------------------------------------------------
type Service struct {
	db *gorm.DB
}

// NewService 創建新的食譜服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List 依查詢條件取得食譜分頁清單
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Recipe, common.PageInfo, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 12
	}

	base := s.db.WithContext(ctx).Model(&models.Recipe{})

	if q.Tag != "" {
		base = base.Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
			Joins("JOIN tags t ON t.id = rt.tag_id").
			Where("t.name = ?", q.Tag)
	}
	if q.Dietary != "" {
		base = base.Joins("JOIN recipe_tags drt ON drt.recipe_id = recipes.id").
			Joins("JOIN tags dt ON dt.id = drt.tag_id").
			Where("dt.name = ? AND dt.tag_type = ?", q.Dietary, models.TagDietary)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		base = base.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?", pattern, pattern)
	}

	// Count 走獨立 session，避免 DISTINCT recipes.id 汙染後面的 SELECT
	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, common.PageInfo{}, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := base.Distinct().
		Preload("Tags").
		Preload("User").
		Order("recipes.view_count DESC, recipes.created_at DESC").
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&recipes).Error
	if err != nil {
		return nil, common.PageInfo{}, fmt.Errorf("list recipes: %w", err)
	}

	return recipes, common.NewPageInfo(q.Page, q.PerPage, total), nil
}

// GetBySlug 以 slug 取得完整食譜，找不到時回傳 ErrRecipeNotFound
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("User").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.display_order ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.Ingredient.DietaryTags").
		Preload("Ingredients.Unit").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_steps.step_number ASC")
		}).
		Preload("Ratings").
		Where("slug = ?", slug).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %q: %w", slug, err)
	}
	return &recipe, nil
}

// IncrementViews 瀏覽數加一，失敗時僅記錄不影響回應
func (s *Service) IncrementViews(ctx context.Context, recipeID uuid.UUID) {
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		common.LogWarn("更新瀏覽數失敗",
			zap.String("recipe_id", recipeID.String()),
			zap.Error(err))
	}
}

// Create 建立食譜，slug 由標題產生並保證唯一
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	for _, ing := range input.Ingredients {
		if ing.Quantity < 0 {
			return nil, common.ErrInvalidQuantity
		}
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		PrepTime:    input.PrepTime,
		CookTime:    input.CookTime,
		Servings:    input.Servings,
		ImageURL:    input.ImageURL,
	}
	if recipe.Servings < 1 {
		recipe.Servings = 1
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.Slug = MakeSlug(input.Title, func(slug string) bool {
			var n int64
			tx.Model(&models.Recipe{}).Where("slug = ?", slug).Count(&n)
			return n > 0
		})

		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		if err := s.replaceTags(tx, &recipe, input.TagIDs); err != nil {
			return err
		}
		if err := s.replaceIngredients(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		return s.replaceSteps(tx, recipe.ID, input.Steps)
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("食譜已建立",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("slug", recipe.Slug))
	return s.GetBySlug(ctx, recipe.Slug)
}

// Update 更新食譜，僅擁有者可操作；標題變更時不重算 slug
func (s *Service) Update(ctx context.Context, userID uuid.UUID, slug string, input RecipeInput) (*models.Recipe, error) {
	recipe, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, common.ErrNotRecipeOwner
	}
	for _, ing := range input.Ingredients {
		if ing.Quantity < 0 {
			return nil, common.ErrInvalidQuantity
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       input.Title,
			"description": input.Description,
			"prep_time":   input.PrepTime,
			"cook_time":   input.CookTime,
			"servings":    input.Servings,
			"image_url":   input.ImageURL,
		}
		if input.Servings < 1 {
			updates["servings"] = 1
		}
		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := s.replaceTags(tx, recipe, input.TagIDs); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear ingredients: %w", err)
		}
		if err := s.replaceIngredients(tx, recipe.ID, input.Ingredients); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeStep{}).Error; err != nil {
			return fmt.Errorf("clear steps: %w", err)
		}
		return s.replaceSteps(tx, recipe.ID, input.Steps)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(ctx, slug)
}

// Delete 刪除食譜，僅擁有者可操作
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, slug string) error {
	recipe, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return common.ErrNotRecipeOwner
	}

	if err := s.db.WithContext(ctx).Select("Ingredients", "Steps", "Ratings", "Comments", "Likes").Delete(recipe).Error; err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	common.LogInfo("食譜已刪除",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("slug", slug))
	return nil
}

// ToggleLike 收藏或取消收藏，回傳操作後的狀態與總數
func (s *Service) ToggleLike(ctx context.Context, userID uuid.UUID, slug string) (liked bool, total int64, err error) {
	recipe, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return false, 0, err
	}

	var existing models.Like
	findErr := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipe.ID, userID).
		First(&existing).Error

	switch {
	case findErr == nil:
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, 0, fmt.Errorf("remove like: %w", err)
		}
		liked = false
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		like := models.Like{RecipeID: recipe.ID, UserID: userID}
		if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
			return false, 0, fmt.Errorf("create like: %w", err)
		}
		liked = true
	default:
		return false, 0, fmt.Errorf("lookup like: %w", findErr)
	}

	if err := s.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ?", recipe.ID).Count(&total).Error; err != nil {
		return liked, 0, fmt.Errorf("count likes: %w", err)
	}
	return liked, total, nil
}

// LikedRecipes 取得使用者收藏的食譜，依收藏時間新到舊
func (s *Service) LikedRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN likes ON likes.recipe_id = recipes.id").
		Where("likes.user_id = ?", userID).
		Preload("Tags").
		Preload("User").
		Order("likes.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list liked recipes: %w", err)
	}
	return recipes, nil
}

// Related 取得共享標籤的相關食譜，依共享標籤數排序
func (s *Service) Related(ctx context.Context, recipe *models.Recipe) ([]models.Recipe, error) {
	if len(recipe.Tags) == 0 {
		return nil, nil
	}
	tagIDs := make([]uuid.UUID, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
		Where("rt.tag_id IN ? AND recipes.id <> ?", tagIDs, recipe.ID).
		Group("recipes.id").
		Order("COUNT(rt.tag_id) DESC, recipes.view_count DESC").
		Limit(relatedRecipeLimit).
		Preload("Tags").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list related recipes: %w", err)
	}
	return recipes, nil
}

// RecentRecipes 取得指定時間後建立的食譜，含評分，週報用
func (s *Service) RecentRecipes(ctx context.Context, since time.Time) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Preload("Ratings").
		Preload("Tags").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recent recipes: %w", err)
	}
	return recipes, nil
}

// ListRecipesWithTags 取得推薦引擎用的目錄快照，僅載入標籤
func (s *Service) ListRecipesWithTags(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Preload("Tags").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("load recipe catalog: %w", err)
	}
	return recipes, nil
}

func (s *Service) replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []uuid.UUID) error {
	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	return nil
}

func (s *Service) replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, inputs []IngredientInput) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.IngredientID,
			UnitID:       in.UnitID,
			Quantity:     in.Quantity,
			Notes:        in.Notes,
			Order:        i + 1,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("create ingredients: %w", err)
	}
	return nil
}

func (s *Service) replaceSteps(tx *gorm.DB, recipeID uuid.UUID, inputs []StepInput) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.RecipeStep, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, models.RecipeStep{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Instruction: in.Instruction,
			ImageURL:    in.ImageURL,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("create steps: %w", err)
	}
	return nil
}
