package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"onlypans/internal/core/notify"
	"onlypans/internal/core/nutrition"
	"onlypans/internal/core/recipe"
	"onlypans/internal/infrastructure/config"
	"onlypans/internal/infrastructure/database"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const digestRecipeCount = 5

// 每週精選：寄出近七天內評分最高的食譜給所有使用者
// 由外部排程器（cron）每週執行一次
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

	notifier := notify.NewNotifier(cfg.Mail)
	defer notifier.Close()

	ctx := context.Background()
	recipeSvc := recipe.NewService(db)

	oneWeekAgo := time.Now().AddDate(0, 0, -7)
	recent, err := recipeSvc.RecentRecipes(ctx, oneWeekAgo)
	if err != nil {
		common.LogFatal("Failed to load recent recipes", zap.Error(err))
	}
	if len(recent) == 0 {
		common.LogInfo("本週沒有新食譜，略過週報")
		return
	}

	// 依平均評分遞減，同分時新的在前
	sort.SliceStable(recent, func(i, j int) bool {
		ri := nutrition.AverageRating(recent[i].Ratings)
		rj := nutrition.AverageRating(recent[j].Ratings)
		if ri != rj {
			return ri > rj
		}
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > digestRecipeCount {
		recent = recent[:digestRecipeCount]
	}

	var users []models.User
	if err := db.WithContext(ctx).Where("email <> ''").Find(&users).Error; err != nil {
		common.LogFatal("Failed to load users", zap.Error(err))
	}

	for i := range users {
		notifier.WeeklyDigest(&users[i], recent)
	}

	common.LogInfo("週報已排入寄送",
		zap.Int("recipients", len(users)),
		zap.Int("recipes", len(recent)),
	)
}
