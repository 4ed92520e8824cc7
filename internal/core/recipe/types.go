package recipe

import (
	"github.com/google/uuid"
)

// IngredientInput 食譜食材輸入
type IngredientInput struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	UnitID       uuid.UUID `json:"unit_id" binding:"required"`
	Quantity     float64   `json:"quantity" binding:"gte=0"`
	Notes        string    `json:"notes" binding:"max=100"`
}

// StepInput 食譜步驟輸入，依陣列順序編號
type StepInput struct {
	Instruction string `json:"instruction" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// RecipeInput 建立與更新食譜的輸入
type RecipeInput struct {
	Title       string            `json:"title" binding:"required,max=255"`
	Description string            `json:"description"`
	PrepTime    int               `json:"prep_time" binding:"gte=0"`
	CookTime    int               `json:"cook_time" binding:"gte=0"`
	Servings    int               `json:"servings" binding:"gte=1"`
	ImageURL    string            `json:"image_url"`
	TagIDs      []uuid.UUID       `json:"tag_ids"`
	Ingredients []IngredientInput `json:"ingredients"`
	Steps       []StepInput       `json:"steps"`
}

// ListQuery 食譜清單的查詢條件
type ListQuery struct {
	Tag     string `form:"tag"`
	Dietary string `form:"dietary"`
	Search  string `form:"search"`
	Page    int    `form:"page,default=1"`
	PerPage int    `form:"per_page,default=12"`
}
