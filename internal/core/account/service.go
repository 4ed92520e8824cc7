package account

import (
	"context"
	"errors"
	"fmt"

	"onlypans/internal/models"
	"onlypans/internal/pkg/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PreferencesInput 更新口味偏好的輸入
type PreferencesInput struct {
	Bio                    *string     `json:"bio"`
	DietaryTagIDs          []uuid.UUID `json:"dietary_tag_ids"`
	FavoriteCuisineIDs     []uuid.UUID `json:"favorite_cuisine_ids"`
	PreferredDifficultyID  *uuid.UUID  `json:"preferred_difficulty_id"`
	ShowDietaryPreferences *bool       `json:"show_dietary_preferences"`
	ShowEmail              *bool       `json:"show_email"`
}

// Service 帳號服務，處理個人檔案與追蹤關係
// --------------------------------------------------
type Service struct {
	db *gorm.DB
}

// NewService 創建新的帳號服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetUserByUsername 以使用者名稱取得使用者與個人檔案
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.DietaryTags").
		Preload("Profile.FavoriteCuisines").
		Preload("Profile.PreferredDifficulty").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &user, nil
}

// GetUserByID 以 ID 取得使用者與個人檔案
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.DietaryTags").
		Preload("Profile.FavoriteCuisines").
		Preload("Profile.PreferredDifficulty").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

// ProfileFor 取得使用者的個人檔案，不存在時建立空白檔案
func (s *Service) ProfileFor(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).
		Preload("DietaryTags").
		Preload("FavoriteCuisines").
		Preload("PreferredDifficulty").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile = models.UserProfile{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &profile, nil
}

// UpdatePreferences 更新口味偏好；只更新輸入中有出現的欄位
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input PreferencesInput) (*models.UserProfile, error) {
	profile, err := s.ProfileFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if input.Bio != nil {
			updates["bio"] = *input.Bio
		}
		if input.ShowDietaryPreferences != nil {
			updates["show_dietary_preferences"] = *input.ShowDietaryPreferences
		}
		if input.ShowEmail != nil {
			updates["show_email"] = *input.ShowEmail
		}
		if input.PreferredDifficultyID != nil {
			if *input.PreferredDifficultyID == uuid.Nil {
				updates["preferred_difficulty_id"] = nil
			} else {
				updates["preferred_difficulty_id"] = *input.PreferredDifficultyID
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(profile).Updates(updates).Error; err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		if input.DietaryTagIDs != nil {
			tags, err := s.loadTags(tx, input.DietaryTagIDs, models.TagDietary)
			if err != nil {
				return err
			}
			if err := tx.Model(profile).Association("DietaryTags").Replace(tags); err != nil {
				return fmt.Errorf("replace dietary tags: %w", err)
			}
		}
		if input.FavoriteCuisineIDs != nil {
			tags, err := s.loadTags(tx, input.FavoriteCuisineIDs, models.TagCuisine)
			if err != nil {
				return err
			}
			if err := tx.Model(profile).Association("FavoriteCuisines").Replace(tags); err != nil {
				return fmt.Errorf("replace favorite cuisines: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("口味偏好已更新", zap.String("user_id", userID.String()))
	return s.ProfileFor(ctx, userID)
}

// ToggleFollow 追蹤或取消追蹤，並同步雙方的統計數字
func (s *Service) ToggleFollow(ctx context.Context, followerID, followedID uuid.UUID) (following bool, err error) {
	if followerID == followedID {
		return false, common.ErrSelfFollow
	}
	if _, err := s.GetUserByID(ctx, followedID); err != nil {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		findErr := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			First(&existing).Error

		switch {
		case findErr == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("remove follow: %w", err)
			}
			following = false
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
			if err := tx.Create(&follow).Error; err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
			following = true
		default:
			return fmt.Errorf("lookup follow: %w", findErr)
		}

		return s.syncFollowCounters(tx, followerID, followedID)
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

// Followers 取得追蹤者清單
func (s *Service) Followers(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return users, nil
}

// Following 取得追蹤中的清單
func (s *Service) Following(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return users, nil
}

func (s *Service) loadTags(tx *gorm.DB, ids []uuid.UUID, tagType models.TagType) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ? AND tag_type = ?", ids, tagType).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load %s tags: %w", tagType, err)
	}
	return tags, nil
}

// syncFollowCounters 以實際筆數重算統計，避免增減漂移
func (s *Service) syncFollowCounters(tx *gorm.DB, followerID, followedID uuid.UUID) error {
	var followingCount, followerCount int64
	if err := tx.Model(&models.Follow{}).Where("follower_id = ?", followerID).Count(&followingCount).Error; err != nil {
		return fmt.Errorf("count following: %w", err)
	}
	if err := tx.Model(&models.Follow{}).Where("followed_id = ?", followedID).Count(&followerCount).Error; err != nil {
		return fmt.Errorf("count followers: %w", err)
	}

	if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", followerID).
		UpdateColumn("total_following", followingCount).Error; err != nil {
		return fmt.Errorf("update following counter: %w", err)
	}
	if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", followedID).
		UpdateColumn("total_followers", followerCount).Error; err != nil {
		return fmt.Errorf("update follower counter: %w", err)
	}
	return nil
}
