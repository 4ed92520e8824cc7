package recommend

import (
	"context"
	"testing"
	"time"

	"onlypans/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tagVegan      = models.Tag{Name: "Vegan", TagType: models.TagDietary}
	tagGlutenFree = models.Tag{Name: "Gluten-Free", TagType: models.TagDietary}
	tagItalian    = models.Tag{Name: "Italian", TagType: models.TagCuisine}
	tagAsian      = models.Tag{Name: "Asian", TagType: models.TagCuisine}
	tagEasy       = models.Tag{Name: "Easy", TagType: models.TagDifficulty}
	tagHard       = models.Tag{Name: "Hard", TagType: models.TagDifficulty}
)

func makeRecipe(slug string, views int, age time.Duration, tags ...models.Tag) models.Recipe {
	return models.Recipe{
		Title:     slug,
		Slug:      slug,
		ViewCount: views,
		CreatedAt: time.Now().Add(-age),
		Tags:      tags,
	}
}

func slugs(recipes []models.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Slug)
	}
	return out
}

func TestFilterNoPreferences(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("low", 1, time.Hour),
		makeRecipe("high", 100, time.Hour),
		makeRecipe("mid", 50, time.Hour),
	}

	got := Filter(catalog, Preferences{}, 10)
	assert.Equal(t, []string{"high", "mid", "low"}, slugs(got))
}

func TestFilterDietaryHardGate(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("vegan-only", 5, time.Hour, tagVegan),
		makeRecipe("both", 3, time.Hour, tagVegan, tagGlutenFree),
		makeRecipe("neither", 999, time.Hour),
	}

	prefs := Preferences{DietaryTags: []models.Tag{tagVegan, tagGlutenFree}}
	got := Filter(catalog, prefs, 10)

	// 必須帶有「全部」限制標籤，瀏覽數再高也不能例外
	assert.Equal(t, []string{"both"}, slugs(got))
}

// 規格場景：三份食譜中只有一份是 Vegan，無論瀏覽數高低都只回傳那一份
func TestFilterVeganOnlyScenario(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("popular", 5000, time.Hour),
		makeRecipe("vegan-dish", 1, time.Hour, tagVegan),
		makeRecipe("also-popular", 3000, time.Hour),
	}

	got := Filter(catalog, Preferences{DietaryTags: []models.Tag{tagVegan}}, 10)
	assert.Equal(t, []string{"vegan-dish"}, slugs(got))
}

func TestFilterDietaryGateCanEmpty(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("a", 10, time.Hour, tagItalian),
		makeRecipe("b", 20, time.Hour),
	}

	// 飲食限制是安全條件，過濾到零筆就回傳空清單，不做放寬
	got := Filter(catalog, Preferences{DietaryTags: []models.Tag{tagVegan}}, 10)
	assert.Empty(t, got)
}

// 規格場景：Vegan 使用者偏好義式料理；非 Vegan 的義式食譜被排除，
// Vegan 的非義式食譜保留
func TestFilterCuisineNeverOverridesDietary(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("italian-not-vegan", 100, time.Hour, tagItalian),
		makeRecipe("vegan-not-italian", 1, time.Hour, tagVegan),
	}

	prefs := Preferences{
		DietaryTags:      []models.Tag{tagVegan},
		FavoriteCuisines: []models.Tag{tagItalian},
	}
	got := Filter(catalog, prefs, 10)

	assert.Equal(t, []string{"vegan-not-italian"}, slugs(got))
}

// 菜系偏好只增不減：加上喜愛菜系後的結果必為原結果的超集
func TestFilterCuisineSoftUnionProperty(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("vegan-italian", 10, time.Hour, tagVegan, tagItalian),
		makeRecipe("vegan-asian", 20, time.Hour, tagVegan, tagAsian),
		makeRecipe("vegan-plain", 30, time.Hour, tagVegan),
		makeRecipe("italian-only", 40, time.Hour, tagItalian),
	}

	base := Preferences{DietaryTags: []models.Tag{tagVegan}}
	withCuisine := Preferences{
		DietaryTags:      []models.Tag{tagVegan},
		FavoriteCuisines: []models.Tag{tagItalian},
	}

	baseResult := Filter(catalog, base, 10)
	cuisineResult := Filter(catalog, withCuisine, 10)

	baseSet := make(map[string]bool)
	for _, s := range slugs(cuisineResult) {
		baseSet[s] = true
	}
	for _, s := range slugs(baseResult) {
		assert.True(t, baseSet[s], "menu with cuisine preference must contain %s", s)
	}
}

func TestFilterDifficultyReplacesWhenNonEmpty(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("easy-dish", 1, time.Hour, tagEasy),
		makeRecipe("hard-dish", 100, time.Hour, tagHard),
	}

	prefs := Preferences{PreferredDifficulty: &tagEasy}
	got := Filter(catalog, prefs, 10)
	assert.Equal(t, []string{"easy-dish"}, slugs(got))
}

func TestFilterDifficultyFallbackWhenEmpty(t *testing.T) {
	catalog := []models.Recipe{
		makeRecipe("hard-dish", 100, time.Hour, tagHard),
		makeRecipe("plain-dish", 50, time.Hour),
	}

	// 沒有任何 Easy 食譜：偏好被忽略，候選集合保持不變
	prefs := Preferences{PreferredDifficulty: &tagEasy}
	got := Filter(catalog, prefs, 10)
	assert.Equal(t, []string{"hard-dish", "plain-dish"}, slugs(got))
}

func TestFilterOrderingAndLimit(t *testing.T) {
	now := time.Now()
	older := models.Recipe{Slug: "older", ViewCount: 10, CreatedAt: now.Add(-2 * time.Hour)}
	newer := models.Recipe{Slug: "newer", ViewCount: 10, CreatedAt: now.Add(-1 * time.Hour)}
	top := models.Recipe{Slug: "top", ViewCount: 99, CreatedAt: now.Add(-9 * time.Hour)}

	got := Filter([]models.Recipe{older, top, newer}, Preferences{}, 2)

	// 瀏覽數優先，同瀏覽數時新的在前；截斷到 limit
	assert.Equal(t, []string{"top", "newer"}, slugs(got))
}

func TestIsCompatible(t *testing.T) {
	recipe := makeRecipe("dish", 0, 0, tagVegan, tagItalian)

	assert.True(t, IsCompatible(&recipe, nil))
	assert.True(t, IsCompatible(&recipe, []models.Tag{tagVegan}))
	assert.False(t, IsCompatible(&recipe, []models.Tag{tagVegan, tagGlutenFree}))

	// 菜系標籤不算飲食限制：食譜帶 Italian 不代表與 Italian 的 dietary 超集檢查有關
	noDietary := makeRecipe("plain", 0, 0, tagItalian)
	assert.False(t, IsCompatible(&noDietary, []models.Tag{tagVegan}))
}

// fakeCatalog 測試用的目錄快照
type fakeCatalog struct {
	recipes []models.Recipe
	calls   int
}

func (f *fakeCatalog) ListRecipesWithTags(ctx context.Context) ([]models.Recipe, error) {
	f.calls++
	return f.recipes, nil
}

func TestServiceRecommendWithoutCache(t *testing.T) {
	catalog := &fakeCatalog{recipes: []models.Recipe{
		makeRecipe("vegan-dish", 10, time.Hour, tagVegan),
		makeRecipe("other", 50, time.Hour),
	}}
	svc := NewService(catalog, nil)

	profile := &models.UserProfile{DietaryTags: []models.Tag{tagVegan}}
	got, err := svc.Recommend(context.Background(), profile, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan-dish"}, slugs(got))

	// 無快取時每次呼叫都重新讀取目錄快照
	_, err = svc.Recommend(context.Background(), profile, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls)
}
