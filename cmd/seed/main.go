package main

import (
	"fmt"
	"os"

	"onlypans/internal/infrastructure/config"
	"onlypans/internal/infrastructure/database"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tagSeed struct {
	Name string
	Type models.TagType
}

type unitSeed struct {
	Name         string
	Abbreviation string
	Type         models.UnitType
	GramsPerUnit *float64
}

type ingredientSeed struct {
	Name       string
	Category   string
	CommonUnit string
	// DietaryTags 列出該食材「違反」的飲食限制（牛奶違反 Dairy-Free）
	DietaryTags []string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Fibre       float64
	Sugars      float64
	SodiumMg    float64
	SatFat      float64
}

func f64(v float64) *float64 { return &v }

var tagSeeds = []tagSeed{
	{"British", models.TagCuisine},
	{"Italian", models.TagCuisine},
	{"American", models.TagCuisine},
	{"Asian", models.TagCuisine},
	{"Roman", models.TagCuisine},

	{"Vegetarian", models.TagDietary},
	{"Vegan", models.TagDietary},
	{"Gluten-Free", models.TagDietary},
	{"Dairy-Free", models.TagDietary},

	{"Easy", models.TagDifficulty},
	{"Medium", models.TagDifficulty},
	{"Hard", models.TagDifficulty},

	{"Breakfast", models.TagMealType},
	{"Dinner", models.TagMealType},
	{"Dessert", models.TagMealType},
	{"Starter", models.TagMealType},
	{"Salad", models.TagMealType},

	{"Baking", models.TagCookingMethod},
	{"Quick", models.TagCookingMethod},
	{"Comfort Food", models.TagMealType},
	{"Sweet", models.TagMealType},
	{"Protein", models.TagMealType},
	{"Healthy", models.TagMealType},
}

// 容量單位以水的密度換算，個數單位取常見平均重量
var unitSeeds = []unitSeed{
	{"Cup", "cup", models.UnitVolume, f64(240)},
	{"Tablespoon", "tbsp", models.UnitVolume, f64(15)},
	{"Teaspoon", "tsp", models.UnitVolume, f64(5)},
	{"Milliliter", "ml", models.UnitVolume, f64(1)},
	{"Liter", "L", models.UnitVolume, f64(1000)},
	{"Fluid Ounce", "fl oz", models.UnitVolume, f64(30)},
	{"Pint", "pt", models.UnitVolume, f64(473)},
	{"Quart", "qt", models.UnitVolume, f64(946)},

	{"Gram", "g", models.UnitWeight, f64(1)},
	{"Kilogram", "kg", models.UnitWeight, f64(1000)},
	{"Ounce", "oz", models.UnitWeight, f64(28.3495)},
	{"Pound", "lb", models.UnitWeight, f64(453.592)},

	{"Piece", "pc", models.UnitCount, f64(50)},
	{"Each", "each", models.UnitCount, f64(100)},
	{"Slice", "slice", models.UnitCount, f64(25)},
	{"Clove", "clove", models.UnitCount, f64(3)},
	{"Bunch", "bunch", models.UnitCount, f64(150)},
	{"Package", "pkg", models.UnitCount, f64(200)},
	{"Can", "can", models.UnitCount, f64(400)},
	{"Egg", "egg", models.UnitCount, f64(50)},

	// 無法換算成克的特殊單位，聚合時以原始數量當作克數
	{"Pinch", "pinch", models.UnitVolume, nil},
	{"Dash", "dash", models.UnitVolume, nil},
	{"To taste", "to taste", models.UnitVolume, nil},
}

var ingredientSeeds = []ingredientSeed{
	{"Carrots", "produce", "grams", nil, 41, 0.9, 9.6, 0.2, 2.8, 4.7, 69, 0.04},
	{"Onions", "produce", "grams", nil, 40, 1.1, 9.3, 0.1, 1.7, 4.2, 4, 0.04},
	{"Garlic", "produce", "grams", nil, 149, 6.4, 33, 0.5, 2.1, 1, 17, 0.09},
	{"Tomatoes", "produce", "grams", nil, 18, 0.9, 3.9, 0.2, 1.2, 2.6, 5, 0.03},
	{"Potatoes", "produce", "grams", nil, 77, 2.0, 17, 0.1, 2.2, 0.8, 6, 0.03},
	{"Bell Peppers", "produce", "grams", nil, 31, 1.0, 7, 0.3, 2.5, 4.2, 4, 0.07},
	{"Spinach", "produce", "grams", nil, 23, 2.9, 3.6, 0.4, 2.2, 0.4, 79, 0.06},
	{"Broccoli", "produce", "grams", nil, 34, 2.8, 7, 0.4, 2.6, 1.5, 33, 0.06},
	{"Mushrooms", "produce", "grams", nil, 22, 3.1, 3.3, 0.3, 1.0, 2.0, 5, 0.05},
	{"Lettuce", "produce", "grams", nil, 15, 1.4, 2.9, 0.2, 1.3, 0.8, 28, 0.03},

	{"Chicken Breast", "meat", "grams", nil, 165, 31, 0, 3.6, 0, 0, 74, 1.0},
	{"Ground Beef", "meat", "grams", nil, 250, 26, 0, 15, 0, 0, 78, 6.1},
	{"Salmon", "fish", "grams", nil, 208, 22, 0, 12, 0, 0, 48, 1.9},
	{"Eggs", "protein", "pieces", nil, 155, 13, 1.1, 11, 0, 0.7, 124, 3.1},
	{"Bacon", "meat", "grams", nil, 541, 37, 1.4, 42, 0, 0, 1717, 13.5},
	{"Tuna", "fish", "grams", nil, 132, 28, 0, 0.6, 0, 0, 50, 0.2},

	{"Milk", "dairy", "ml", []string{"Dairy-Free"}, 64, 3.2, 4.8, 3.6, 0, 5.1, 44, 2.3},
	{"Butter", "dairy", "grams", []string{"Dairy-Free"}, 717, 0.9, 0.1, 81, 0, 0.1, 11, 51},
	{"Cheddar Cheese", "dairy", "grams", []string{"Dairy-Free"}, 403, 25, 1.3, 33, 0, 0.5, 653, 21},
	{"Yogurt", "dairy", "grams", []string{"Dairy-Free"}, 61, 3.5, 4.7, 3.3, 0, 4.7, 36, 2.1},
	{"Heavy Cream", "dairy", "ml", []string{"Dairy-Free"}, 340, 2.8, 2.8, 36, 0, 2.9, 38, 23},

	{"Rice", "grains", "grams", nil, 365, 7.1, 80, 0.7, 1.3, 0.1, 5, 0.2},
	{"Pasta", "grains", "grams", []string{"Gluten-Free"}, 371, 13, 74, 1.5, 3.2, 2.7, 6, 0.3},
	{"Bread", "grains", "slices", []string{"Gluten-Free"}, 265, 9, 49, 3.2, 2.7, 5.7, 491, 0.6},
	{"Flour", "baking", "grams", []string{"Gluten-Free"}, 364, 10, 76, 1.0, 2.7, 0.3, 2, 0.2},
	{"Oats", "grains", "grams", nil, 389, 17, 66, 7, 10.6, 0.99, 2, 1.2},

	{"Olive Oil", "oils", "ml", nil, 884, 0, 0, 100, 0, 0, 2, 14},
	{"Salt", "seasonings", "grams", nil, 0, 0, 0, 0, 0, 0, 38758, 0},
	{"Black Pepper", "spices", "grams", nil, 251, 10, 64, 3.3, 25, 0.6, 20, 1.4},
	{"Sugar", "baking", "grams", nil, 387, 0, 100, 0, 0, 99.8, 1, 0},
	{"Honey", "sweeteners", "grams", nil, 304, 0.3, 82, 0, 0.2, 82.4, 4, 0},

	{"Basil", "herbs", "grams", nil, 22, 3.2, 2.6, 0.6, 1.6, 0.3, 4, 0.04},
	{"Oregano", "herbs", "grams", nil, 265, 9, 69, 4.3, 42.5, 4.1, 25, 1.6},
	{"Thyme", "herbs", "grams", nil, 276, 9.1, 64, 7.4, 37, 1.7, 9, 4.9},
	{"Paprika", "spices", "grams", nil, 282, 14, 54, 13, 37, 10, 68, 2.1},
	{"Cumin", "spices", "grams", nil, 375, 18, 44, 22, 11, 2.2, 168, 1.5},
	{"Garlic Powder", "spices", "grams", nil, 331, 16, 73, 0.7, 9, 2.4, 599, 0.2},

	{"Soy Sauce", "condiments", "ml", nil, 8, 1.3, 0.8, 0, 0.1, 0.4, 5493, 0},
	{"Lemon Juice", "condiments", "ml", nil, 22, 0.4, 6.9, 0.2, 0.3, 1.4, 2, 0.04},
	{"Vinegar", "condiments", "ml", nil, 18, 0, 0.04, 0, 0, 0.04, 2, 0},
	{"Mustard", "condiments", "grams", nil, 66, 4.4, 7.1, 3.3, 3.3, 2.8, 1135, 0.2},
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		common.LogFatal("Failed to connect database", zap.Error(err))
	}

	if err := seedTags(db); err != nil {
		common.LogFatal("Failed to seed tags", zap.Error(err))
	}
	if err := seedUnits(db); err != nil {
		common.LogFatal("Failed to seed units", zap.Error(err))
	}
	if err := seedIngredients(db); err != nil {
		common.LogFatal("Failed to seed ingredients", zap.Error(err))
	}

	common.LogInfo("種子資料建立完成",
		zap.Int("tags", len(tagSeeds)),
		zap.Int("units", len(unitSeeds)),
		zap.Int("ingredients", len(ingredientSeeds)),
	)
}

func seedTags(db *gorm.DB) error {
	for _, seed := range tagSeeds {
		tag := models.Tag{Name: seed.Name, TagType: seed.Type}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("seed tag %q: %w", seed.Name, err)
		}
	}
	return nil
}

func seedUnits(db *gorm.DB) error {
	for _, seed := range unitSeeds {
		unit := models.Unit{
			Name:         seed.Name,
			Abbreviation: seed.Abbreviation,
			UnitType:     seed.Type,
			GramsPerUnit: seed.GramsPerUnit,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"abbreviation", "unit_type", "grams_per_unit"}),
		}).Create(&unit).Error
		if err != nil {
			return fmt.Errorf("seed unit %q: %w", seed.Name, err)
		}
	}
	return nil
}

func seedIngredients(db *gorm.DB) error {
	for _, seed := range ingredientSeeds {
		ingredient := models.Ingredient{
			Name:                seed.Name,
			Category:            seed.Category,
			CommonUnit:          seed.CommonUnit,
			CaloriesPer100g:     f64(seed.Calories),
			ProteinPer100g:      f64(seed.Protein),
			CarbsPer100g:        f64(seed.Carbs),
			FatPer100g:          f64(seed.Fat),
			FibrePer100g:        f64(seed.Fibre),
			SugarsPer100g:       f64(seed.Sugars),
			SodiumMgPer100g:     f64(seed.SodiumMg),
			SaturatedFatPer100g: f64(seed.SatFat),
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&ingredient).Error
		if err != nil {
			return fmt.Errorf("seed ingredient %q: %w", seed.Name, err)
		}

		if len(seed.DietaryTags) == 0 {
			continue
		}
		var tags []models.Tag
		if err := db.Where("name IN ? AND tag_type = ?", seed.DietaryTags, models.TagDietary).Find(&tags).Error; err != nil {
			return fmt.Errorf("load dietary tags for %q: %w", seed.Name, err)
		}
		var saved models.Ingredient
		if err := db.Where("name = ?", seed.Name).First(&saved).Error; err != nil {
			return fmt.Errorf("reload ingredient %q: %w", seed.Name, err)
		}
		if err := db.Model(&saved).Association("DietaryTags").Replace(tags); err != nil {
			return fmt.Errorf("attach dietary tags for %q: %w", seed.Name, err)
		}
	}
	return nil
}
