package nutrition

import (
	"testing"

	"onlypans/internal/models"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func gramUnit() *models.Unit {
	return &models.Unit{Name: "Gram", Abbreviation: "g", UnitType: models.UnitWeight, GramsPerUnit: f64(1)}
}

func cupUnit() *models.Unit {
	return &models.Unit{Name: "Cup", Abbreviation: "cup", UnitType: models.UnitVolume, GramsPerUnit: f64(240)}
}

func TestConvertToGrams(t *testing.T) {
	tests := []struct {
		name      string
		quantity  float64
		unit      *models.Unit
		wantGrams float64
		converted bool
	}{
		{
			name:      "weight unit converts exactly",
			quantity:  2,
			unit:      &models.Unit{Name: "Kilogram", UnitType: models.UnitWeight, GramsPerUnit: f64(1000)},
			wantGrams: 2000,
			converted: true,
		},
		{
			name:      "volume unit assumes water-like density",
			quantity:  1,
			unit:      cupUnit(),
			wantGrams: 240,
			converted: true,
		},
		{
			name:      "count unit uses reference weight",
			quantity:  3,
			unit:      &models.Unit{Name: "Egg", UnitType: models.UnitCount, GramsPerUnit: f64(50)},
			wantGrams: 150,
			converted: true,
		},
		{
			name:      "unit without conversion data falls back to raw quantity",
			quantity:  120,
			unit:      &models.Unit{Name: "Pinch", UnitType: models.UnitVolume},
			wantGrams: 120,
			converted: false,
		},
		{
			name:      "nil unit falls back to raw quantity",
			quantity:  80,
			unit:      nil,
			wantGrams: 80,
			converted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertToGrams(tt.quantity, tt.unit)
			assert.InDelta(t, tt.wantGrams, got.Grams, 1e-9)
			assert.Equal(t, tt.converted, got.Converted)
		})
	}
}

// 規格場景：200g 雞胸肉 + 1 cup 米，兩份
// 每份熱量 = ((200/100×165) + (240/100×365)) / 2 = 603.0
// 每份蛋白質 = ((200/100×31) + (240/100×7.1)) / 2 = 39.5
func TestPerServingChickenAndRice(t *testing.T) {
	chicken := &models.Ingredient{
		Name:            "Chicken Breast",
		CaloriesPer100g: f64(165),
		ProteinPer100g:  f64(31),
		CarbsPer100g:    f64(0),
		FatPer100g:      f64(3.6),
	}
	rice := &models.Ingredient{
		Name:            "Rice",
		CaloriesPer100g: f64(365),
		ProteinPer100g:  f64(7.1),
		CarbsPer100g:    f64(80),
		FatPer100g:      f64(0.7),
	}

	recipe := &models.Recipe{
		Servings: 2,
		Ingredients: []models.RecipeIngredient{
			{Quantity: 200, Ingredient: chicken, Unit: gramUnit()},
			{Quantity: 1, Ingredient: rice, Unit: cupUnit()},
		},
	}

	got := PerServing(recipe)
	assert.Equal(t, 603.0, got.Calories)
	assert.Equal(t, 39.5, got.Protein)
}

func TestPerServingMissingNutritionFields(t *testing.T) {
	// 只有熱量資料的食材，其他欄位視為零貢獻
	mystery := &models.Ingredient{
		Name:            "Mystery Spice",
		CaloriesPer100g: f64(100),
	}

	recipe := &models.Recipe{
		Servings: 1,
		Ingredients: []models.RecipeIngredient{
			{Quantity: 50, Ingredient: mystery, Unit: gramUnit()},
		},
	}

	got := PerServing(recipe)
	assert.Equal(t, 50.0, got.Calories)
	assert.Equal(t, 0.0, got.Protein)
	assert.Equal(t, 0.0, got.Carbs)
	assert.Equal(t, 0.0, got.Fat)
}

func TestPerServingZeroServingsSafety(t *testing.T) {
	ingredient := &models.Ingredient{Name: "Oats", CaloriesPer100g: f64(389)}
	line := models.RecipeIngredient{Quantity: 100, Ingredient: ingredient, Unit: gramUnit()}

	zero := &models.Recipe{Servings: 0, Ingredients: []models.RecipeIngredient{line}}
	one := &models.Recipe{Servings: 1, Ingredients: []models.RecipeIngredient{line}}

	assert.Equal(t, PerServing(one), PerServing(zero))
	assert.Equal(t, 389.0, PerServing(zero).Calories)
}

func TestPerServingNoIngredients(t *testing.T) {
	recipe := &models.Recipe{Servings: 4}
	got := PerServing(recipe)
	assert.Equal(t, Summary{}, got)
}

func TestPerServingIdempotent(t *testing.T) {
	recipe := &models.Recipe{
		Servings: 3,
		Ingredients: []models.RecipeIngredient{
			{Quantity: 250, Ingredient: &models.Ingredient{Name: "Pasta", CaloriesPer100g: f64(371), ProteinPer100g: f64(13)}, Unit: gramUnit()},
			{Quantity: 2, Ingredient: &models.Ingredient{Name: "Olive Oil", CaloriesPer100g: f64(884), FatPer100g: f64(100)}, Unit: &models.Unit{Name: "Tablespoon", UnitType: models.UnitVolume, GramsPerUnit: f64(15)}},
		},
	}

	first := PerServing(recipe)
	second := PerServing(recipe)
	assert.Equal(t, first, second)
}

func TestPerServingNonNegative(t *testing.T) {
	recipes := []*models.Recipe{
		{Servings: 2, Ingredients: []models.RecipeIngredient{
			{Quantity: 0, Ingredient: &models.Ingredient{Name: "Salt", CaloriesPer100g: f64(0)}, Unit: gramUnit()},
		}},
		{Servings: 1, Ingredients: []models.RecipeIngredient{
			{Quantity: 10, Ingredient: &models.Ingredient{Name: "Unknown"}, Unit: nil},
		}},
	}

	for _, r := range recipes {
		got := PerServing(r)
		assert.GreaterOrEqual(t, got.Calories, 0.0)
		assert.GreaterOrEqual(t, got.Protein, 0.0)
		assert.GreaterOrEqual(t, got.Carbs, 0.0)
		assert.GreaterOrEqual(t, got.Fat, 0.0)
	}
}

// 捨入只發生在每份結果，逐行貢獻不先捨入
func TestRoundingOnlyAtFinalStep(t *testing.T) {
	// 每行貢獻 1.04 kcal，三行合計 3.12，每份（兩份）= 1.56 -> 1.6
	// 若逐行先捨入成 1.0，合計會變成 3.0，每份 1.5，結果就錯了
	ing := &models.Ingredient{Name: "Herb", CaloriesPer100g: f64(1.04)}
	recipe := &models.Recipe{
		Servings: 2,
		Ingredients: []models.RecipeIngredient{
			{Quantity: 100, Ingredient: ing, Unit: gramUnit()},
			{Quantity: 100, Ingredient: ing, Unit: gramUnit()},
			{Quantity: 100, Ingredient: ing, Unit: gramUnit()},
		},
	}

	assert.Equal(t, 1.6, PerServing(recipe).Calories)
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{name: "no ratings reports zero", ratings: nil, want: 0},
		{name: "single rating", ratings: []int{4}, want: 4.0},
		{name: "mean of five four three", ratings: []int{5, 4, 3}, want: 4.0},
		{name: "rounds to one decimal", ratings: []int{5, 4}, want: 4.5},
		{name: "repeating decimal rounds", ratings: []int{5, 5, 4}, want: 4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ratings []models.Rating
			for _, v := range tt.ratings {
				ratings = append(ratings, models.Rating{Rating: v})
			}
			assert.Equal(t, tt.want, AverageRating(ratings))
		})
	}
}
