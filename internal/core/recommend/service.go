package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"onlypans/internal/core/cache"
	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultLimit 推薦清單的預設筆數
const DefaultLimit = 10

// Catalog 讀取食譜目錄的介面（資料存放區協作者）
// 回傳的切片是一次性的快照，引擎不會持有外部可變狀態
type Catalog interface {
	ListRecipesWithTags(ctx context.Context) ([]models.Recipe, error)
}

// Service 推薦服務
type Service struct {
	catalog Catalog
	store   cache.Store
}

// NewService 創建推薦服務，store 可為 nil（不使用快取）
func NewService(catalog Catalog, store cache.Store) *Service {
	return &Service{
		catalog: catalog,
		store:   store,
	}
}

// Recommend 依使用者偏好計算推薦清單，每次呼叫重新計算、不保留游標
func (s *Service) Recommend(ctx context.Context, profile *models.UserProfile, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	prefs := PreferencesFromProfile(profile)

	// 先查快取
	key := s.cacheKey(profile, prefs, limit)
	if s.store != nil {
		if cached, err := s.store.Get(ctx, key); err == nil && cached != "" {
			var recipes []models.Recipe
			if err := common.ParseJSON(cached, &recipes); err == nil {
				common.LogCacheHit("recommendations", key)
				return recipes, nil
			}
		}
		common.LogCacheMiss("recommendations", key)
	}

	catalog, err := s.catalog.ListRecipesWithTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe catalog: %w", err)
	}

	result := Filter(catalog, prefs, limit)

	common.LogDebug("推薦清單計算完成",
		zap.Int("catalog_size", len(catalog)),
		zap.Int("result_size", len(result)),
		zap.Int("dietary_tags", len(prefs.DietaryTags)),
		zap.Int("favorite_cuisines", len(prefs.FavoriteCuisines)),
	)

	if s.store != nil {
		if data, err := common.ToJSON(result); err == nil {
			_ = s.store.Set(ctx, key, data)
		}
	}

	return result, nil
}

// cacheKey 以使用者與偏好內容產生快取鍵，偏好變動後舊快取自然失效
func (s *Service) cacheKey(profile *models.UserProfile, prefs Preferences, limit int) string {
	var parts []string
	if profile != nil {
		parts = append(parts, profile.UserID.String())
	}
	for _, t := range prefs.DietaryTags {
		parts = append(parts, "d:"+t.Name)
	}
	for _, t := range prefs.FavoriteCuisines {
		parts = append(parts, "c:"+t.Name)
	}
	if prefs.PreferredDifficulty != nil {
		parts = append(parts, "p:"+prefs.PreferredDifficulty.Name)
	}
	parts = append(parts, fmt.Sprintf("n:%d", limit))
	sort.Strings(parts)

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "recommend:" + hex.EncodeToString(hash[:])
}
