package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagType 標籤類型
type TagType string

const (
	TagCuisine       TagType = "cuisine"        // 菜系
	TagDietary       TagType = "dietary"        // 飲食限制
	TagMealType      TagType = "meal_type"      // 餐別
	TagCookingMethod TagType = "cooking_method" // 烹調方式
	TagDifficulty    TagType = "difficulty"     // 難度
)

// UnitType 計量單位類型
type UnitType string

const (
	UnitVolume UnitType = "volume" // 容量
	UnitWeight UnitType = "weight" // 重量
	UnitCount  UnitType = "count"  // 個數
)

// User 使用者帳號（認證由外部協作者負責，這裡只保留識別資訊）
type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username    string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	DisplayName string    `json:"display_name" gorm:"size:150"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Recipes []Recipe     `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate 建立前自動產生 UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile 使用者個人檔案與偏好設定
type UserProfile struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Bio    string    `json:"bio" gorm:"type:text"`

	// 偏好標籤：飲食限制為硬性條件，菜系與難度為軟性偏好
	DietaryTags           []Tag      `json:"dietary_tags" gorm:"many2many:profile_dietary_tags"`
	FavoriteCuisines      []Tag      `json:"favorite_cuisines" gorm:"many2many:profile_favorite_cuisines"`
	PreferredDifficultyID *uuid.UUID `json:"preferred_difficulty_id" gorm:"type:uuid"`
	PreferredDifficulty   *Tag       `json:"preferred_difficulty,omitempty" gorm:"foreignKey:PreferredDifficultyID"`

	// 社群統計
	TotalFollowers int `json:"total_followers" gorm:"default:0"`
	TotalFollowing int `json:"total_following" gorm:"default:0"`

	// 隱私設定
	ShowDietaryPreferences bool `json:"show_dietary_preferences" gorm:"default:true"`
	ShowEmail              bool `json:"show_email" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Tag 食譜分類標籤（菜系、飲食限制等）
// name 全域唯一，不分類型
type Tag struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name    string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	TagType TagType   `json:"tag_type" gorm:"size:50;index;not null"`
	Color   string    `json:"color" gorm:"size:7;default:#6c757d"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Ingredient 全域食材目錄，營養欄位一律以每 100 克為基準
// 欄位為 nil 代表「未知」，計算時視為零貢獻
type Ingredient struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Category   string    `json:"category" gorm:"size:100;default:other"`
	CommonUnit string    `json:"common_unit" gorm:"size:50;default:grams"`

	CaloriesPer100g     *float64 `json:"calories_per_100g"`
	ProteinPer100g      *float64 `json:"protein_per_100g"`
	CarbsPer100g        *float64 `json:"carbs_per_100g"`
	FatPer100g          *float64 `json:"fat_per_100g"`
	FibrePer100g        *float64 `json:"fibre_per_100g"`
	SugarsPer100g       *float64 `json:"sugars_per_100g"`
	SodiumMgPer100g     *float64 `json:"sodium_mg_per_100g"`
	SaturatedFatPer100g *float64 `json:"saturated_fat_per_100g"`

	// DietaryTags 該食材違反的飲食限制標籤
	DietaryTags []Tag `json:"dietary_tags" gorm:"many2many:ingredient_dietary_tags"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Unit 計量單位
// GramsPerUnit 為 nil 時代表沒有換算資料，聚合時視原始數量為克
type Unit struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Abbreviation string    `json:"abbreviation" gorm:"size:10"`
	UnitType     UnitType  `json:"unit_type" gorm:"size:20;not null"`
	GramsPerUnit *float64  `json:"grams_per_unit"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Recipe 食譜主體
type Recipe struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Slug        string    `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`

	PrepTime int `json:"prep_time" gorm:"not null"` // 準備時間（分鐘）
	CookTime int `json:"cook_time" gorm:"not null"` // 烹調時間（分鐘）
	Servings int `json:"servings" gorm:"default:4"`

	ImageURL string `json:"image_url" gorm:"size:500"`

	Tags []Tag `json:"tags" gorm:"many2many:recipe_tags"`

	ViewCount int `json:"view_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Ingredients []RecipeIngredient `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps       []RecipeStep       `json:"steps" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ratings     []Rating           `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Comments    []Comment          `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Likes       []Like             `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TotalTime 總耗時（分鐘）
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// DietaryTagSet 取出食譜本身的飲食限制類標籤
func (r *Recipe) DietaryTagSet() []Tag {
	var out []Tag
	for _, t := range r.Tags {
		if t.TagType == TagDietary {
			out = append(out, t)
		}
	}
	return out
}

// RecipeIngredient 食譜與食材的關聯，帶數量、單位與顯示順序
type RecipeIngredient struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID     uuid.UUID `json:"recipe_id" gorm:"type:uuid;index;not null"`
	IngredientID uuid.UUID `json:"ingredient_id" gorm:"type:uuid;not null"`
	UnitID       uuid.UUID `json:"unit_id" gorm:"type:uuid;not null"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(8,2);not null"`
	Notes        string    `json:"notes" gorm:"size:100"`
	Order        int       `json:"order" gorm:"column:display_order;not null"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
	Unit       *Unit       `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// RecipeStep 食譜步驟，step_number 在同一食譜內唯一
type RecipeStep struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID    uuid.UUID `json:"recipe_id" gorm:"type:uuid;index:idx_recipe_step,unique;not null"`
	StepNumber  int       `json:"step_number" gorm:"index:idx_recipe_step,unique;not null"`
	Instruction string    `json:"instruction" gorm:"type:text;not null"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
}

func (s *RecipeStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Rating 使用者對食譜的評分（1-5 星），同一使用者對同一食譜只有一筆
type Rating struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `json:"recipe_id" gorm:"type:uuid;index:idx_recipe_user_rating,unique;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index:idx_recipe_user_rating,unique;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Comment 食譜留言，可回覆其他留言
type Comment struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID        uuid.UUID  `json:"recipe_id" gorm:"type:uuid;index;not null"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null"`
	Content         string     `json:"content" gorm:"type:text;not null"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id" gorm:"type:uuid"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	User    *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Replies []Comment `json:"replies,omitempty" gorm:"foreignKey:ParentCommentID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsReply 是否為回覆留言
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

// Like 使用者對食譜的收藏
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `json:"recipe_id" gorm:"type:uuid;index:idx_recipe_user_like,unique;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index:idx_recipe_user_like,unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Follow 追蹤關係
type Follow struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID uuid.UUID `json:"follower_id" gorm:"type:uuid;index:idx_follow_pair,unique;not null"`
	FollowedID uuid.UUID `json:"followed_id" gorm:"type:uuid;index:idx_follow_pair,unique;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
