package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"onlypans/internal/api/middleware"
	"onlypans/internal/core/account"
	"onlypans/internal/core/recommend"
	"onlypans/internal/infrastructure/config"
	"onlypans/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeCatalog []models.Recipe

func (f fakeCatalog) ListRecipesWithTags(ctx context.Context) ([]models.Recipe, error) {
	return f, nil
}

func newTestHandler(t *testing.T, catalogSize int) (*Handler, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.UserProfile{}, &models.Tag{}))

	user := models.User{Username: "chef", Email: "chef@example.com"}
	require.NoError(t, db.Create(&user).Error)

	catalog := make(fakeCatalog, 0, catalogSize)
	for i := 0; i < catalogSize; i++ {
		catalog = append(catalog, models.Recipe{
			Title:     fmt.Sprintf("Recipe %d", i),
			Slug:      fmt.Sprintf("recipe-%d", i),
			ViewCount: catalogSize - i,
		})
	}

	cfg := &config.Config{}
	cfg.Recommend.DefaultLimit = 10

	h := NewHandler(account.NewService(db), nil, recommend.NewService(catalog, nil), nil, cfg)
	return h, &user
}

func recommendationCount(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Recommendations []models.Recipe `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return len(body.Recommendations)
}

func TestRecommendationsLimitQuery(t *testing.T) {
	h, user := newTestHandler(t, 60)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "explicit limit", query: "?limit=3", want: 3},
		{name: "default from config", query: "", want: 10},
		{name: "capped at maximum", query: "?limit=500", want: maxRecommendLimit},
		{name: "invalid falls back to default", query: "?limit=abc", want: 10},
		{name: "non-positive falls back to default", query: "?limit=0", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/v1/me/recommendations"+tt.query, nil)
			c.Set(middleware.ContextUserKey, user)

			h.Recommendations(c)

			require.Equal(t, 200, w.Code)
			assert.Equal(t, tt.want, recommendationCount(t, w))
		})
	}
}
