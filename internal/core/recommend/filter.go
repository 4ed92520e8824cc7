package recommend

import (
	"sort"

	"onlypans/internal/models"
)

// Preferences 使用者偏好的不可變快照
// 飲食限制是硬性安全條件，菜系與難度只是軟性偏好
type Preferences struct {
	DietaryTags         []models.Tag
	FavoriteCuisines    []models.Tag
	PreferredDifficulty *models.Tag
}

// PreferencesFromProfile 從個人檔案取出偏好快照
func PreferencesFromProfile(profile *models.UserProfile) Preferences {
	if profile == nil {
		return Preferences{}
	}
	return Preferences{
		DietaryTags:         profile.DietaryTags,
		FavoriteCuisines:    profile.FavoriteCuisines,
		PreferredDifficulty: profile.PreferredDifficulty,
	}
}

// hasTag 食譜是否帶有指定標籤（標籤名稱全域唯一，以名稱比對）
func hasTag(r *models.Recipe, name string) bool {
	for _, t := range r.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// hasAllTags 食譜是否帶有清單中的每一個標籤
func hasAllTags(r *models.Recipe, tags []models.Tag) bool {
	for _, t := range tags {
		if !hasTag(r, t.Name) {
			return false
		}
	}
	return true
}

// hasAnyTag 食譜是否帶有清單中的任一標籤
func hasAnyTag(r *models.Recipe, tags []models.Tag) bool {
	for _, t := range tags {
		if hasTag(r, t.Name) {
			return true
		}
	}
	return false
}

// IsCompatible 判斷單一食譜是否符合一組飲食限制
// 食譜本身的 dietary 類標籤必須是使用者限制集合的超集
func IsCompatible(r *models.Recipe, dietaryTags []models.Tag) bool {
	if len(dietaryTags) == 0 {
		return true
	}
	recipeDietary := make(map[string]bool)
	for _, t := range r.DietaryTagSet() {
		recipeDietary[t.Name] = true
	}
	for _, t := range dietaryTags {
		if !recipeDietary[t.Name] {
			return false
		}
	}
	return true
}

// Filter 從目錄快照計算推薦清單
//
// 步驟一：飲食限制硬性過濾——食譜必須帶有「每一個」限制標籤，缺一即排除
// 步驟二：喜愛菜系軟性聯集——符合任一菜系且通過飲食過濾的食譜併入結果，
// 只增不減，不會把結果縮到飲食安全集合以下
// 步驟三：偏好難度條件式取代——子集非空才取代，否則忽略此偏好
// 步驟四：去重、依瀏覽數遞減再依建立時間遞減排序、截斷到 limit
func Filter(catalog []models.Recipe, prefs Preferences, limit int) []models.Recipe {
	if limit <= 0 {
		limit = DefaultLimit
	}

	// 步驟一：飲食限制硬性過濾
	var candidates []models.Recipe
	if len(prefs.DietaryTags) == 0 {
		candidates = append(candidates, catalog...)
	} else {
		for _, r := range catalog {
			if hasAllTags(&r, prefs.DietaryTags) {
				candidates = append(candidates, r)
			}
		}
	}

	// 步驟二：喜愛菜系聯集（仍需通過飲食過濾）
	if len(prefs.FavoriteCuisines) > 0 {
		seen := make(map[string]bool, len(candidates))
		for _, r := range candidates {
			seen[r.Slug] = true
		}
		for _, r := range catalog {
			if seen[r.Slug] {
				continue
			}
			if hasAnyTag(&r, prefs.FavoriteCuisines) && hasAllTags(&r, prefs.DietaryTags) {
				candidates = append(candidates, r)
				seen[r.Slug] = true
			}
		}
	}

	// 步驟三：偏好難度，過濾後為空就放棄這個偏好
	if prefs.PreferredDifficulty != nil {
		var preferred []models.Recipe
		for _, r := range candidates {
			if hasTag(&r, prefs.PreferredDifficulty.Name) {
				preferred = append(preferred, r)
			}
		}
		if len(preferred) > 0 {
			candidates = preferred
		}
	}

	// 步驟四：排序與截斷
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ViewCount != candidates[j].ViewCount {
			return candidates[i].ViewCount > candidates[j].ViewCount
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
