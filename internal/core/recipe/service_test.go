package recipe

import (
	"context"
	"fmt"
	"testing"

	"onlypans/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Recipe{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedRecipe(t *testing.T, db *gorm.DB, user *models.User, title, slug string, tags ...models.Tag) *models.Recipe {
	t.Helper()
	r := models.Recipe{
		UserID:      user.ID,
		Title:       title,
		Slug:        slug,
		Description: "家常作法",
		PrepTime:    10,
		CookTime:    20,
		Servings:    2,
		Tags:        tags,
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

// 清單中的每一列都必須帶完整欄位，不能只剩 id
func TestListReturnsFullRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "chef")
	seedRecipe(t, db, user, "Pad Thai", "pad-thai")

	got, page, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), page.TotalItems)
	assert.Equal(t, "Pad Thai", got[0].Title)
	assert.Equal(t, "pad-thai", got[0].Slug)
	assert.Equal(t, "家常作法", got[0].Description)
	assert.Equal(t, 10, got[0].PrepTime)
}

func TestListTagFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "chef")

	thai := models.Tag{Name: "Thai", TagType: models.TagCuisine}
	vegan := models.Tag{Name: "Vegan", TagType: models.TagDietary}
	require.NoError(t, db.Create(&thai).Error)
	require.NoError(t, db.Create(&vegan).Error)

	seedRecipe(t, db, user, "Pad Thai", "pad-thai", thai, vegan)
	seedRecipe(t, db, user, "Beef Stew", "beef-stew")

	got, page, err := svc.List(context.Background(), ListQuery{Tag: "Thai"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), page.TotalItems)
	assert.Equal(t, "Pad Thai", got[0].Title)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "chef")
	for i := 1; i <= 5; i++ {
		seedRecipe(t, db, user, fmt.Sprintf("Recipe %d", i), fmt.Sprintf("recipe-%d", i))
	}

	got, page, err := svc.List(context.Background(), ListQuery{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	for _, r := range got {
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Slug)
	}
}

func TestListSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := seedUser(t, db, "chef")
	seedRecipe(t, db, user, "Pad Thai", "pad-thai")
	seedRecipe(t, db, user, "Beef Stew", "beef-stew")

	got, _, err := svc.List(context.Background(), ListQuery{Search: "pad"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pad Thai", got[0].Title)
}
