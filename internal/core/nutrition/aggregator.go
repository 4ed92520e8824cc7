package nutrition

import (
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"
)

// Summary 每份營養估算結果，固定四個欄位
type Summary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// GramConversion 單位轉克的結果
// Converted 為 false 代表單位沒有換算資料，直接把原始數量當作克使用
// （歷史資料依賴這個回退行為，不可改成報錯）
type GramConversion struct {
	Grams     float64 `json:"grams"`
	Converted bool    `json:"converted"`
}

// ConvertToGrams 將一筆食材行的數量換算成克
func ConvertToGrams(quantity float64, unit *models.Unit) GramConversion {
	if unit != nil && unit.GramsPerUnit != nil {
		return GramConversion{Grams: quantity * (*unit.GramsPerUnit), Converted: true}
	}
	return GramConversion{Grams: quantity, Converted: false}
}

// contribution 單一營養欄位的貢獻，欄位為 nil 視為零貢獻
func contribution(grams float64, per100g *float64) float64 {
	if per100g == nil {
		return 0
	}
	return grams / 100 * (*per100g)
}

// Total 加總所有食材行的營養，不做四捨五入
// 中間值保留完整精度，避免逐行捨入造成誤差累積
func Total(lines []models.RecipeIngredient) Summary {
	var total Summary
	for _, line := range lines {
		if line.Ingredient == nil {
			continue
		}
		grams := ConvertToGrams(line.Quantity, line.Unit).Grams
		total.Calories += contribution(grams, line.Ingredient.CaloriesPer100g)
		total.Protein += contribution(grams, line.Ingredient.ProteinPer100g)
		total.Carbs += contribution(grams, line.Ingredient.CarbsPer100g)
		total.Fat += contribution(grams, line.Ingredient.FatPer100g)
	}
	return total
}

// PerServing 計算每份營養，只在此最終步驟四捨五入到一位小數
// servings 為 0 或缺漏時視為 1，永不除以零
func PerServing(recipe *models.Recipe) Summary {
	total := Total(recipe.Ingredients)

	servings := float64(recipe.Servings)
	if servings < 1 {
		servings = 1
	}

	return Summary{
		Calories: common.Round1(total.Calories / servings),
		Protein:  common.Round1(total.Protein / servings),
		Carbs:    common.Round1(total.Carbs / servings),
		Fat:      common.Round1(total.Fat / servings),
	}
}

// AverageRating 計算平均評分，四捨五入到一位小數；沒有評分時回傳 0
func AverageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	return common.Round1(float64(sum) / float64(len(ratings)))
}
