package engage

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

// Service 互動服務，處理評分與留言
// --------------------------------------------------
type Service struct {
	db *gorm.DB
}

// NewService 創建新的互動服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RateRecipe 評分食譜（1-5 星），同一使用者重複評分時覆寫舊評分
func (s *Service) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, common.ErrInvalidRating
	}

	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&rating).Error

	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&rating).Update("rating", score).Error; err != nil {
			return nil, fmt.Errorf("update rating: %w", err)
		}
		rating.Rating = score
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.Rating{RecipeID: recipeID, UserID: userID, Rating: score}
		if err := s.db.WithContext(ctx).Create(&rating).Error; err != nil {
			return nil, fmt.Errorf("create rating: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup rating: %w", err)
	}

	common.LogInfo("食譜評分已更新",
		zap.String("recipe_id", recipeID.String()),
		zap.Int("score", score))
	return &rating, nil
}

// AddComment 新增留言，parentID 不為 nil 時為回覆
// 回覆的對象必須存在且屬於同一食譜
func (s *Service) AddComment(ctx context.Context, userID, recipeID uuid.UUID, content string, parentID *uuid.UUID) (*models.Comment, error) {
	if parentID != nil {
		var parent models.Comment
		err := s.db.WithContext(ctx).Where("id = ?", *parentID).First(&parent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.ErrParentCommentWrong
			}
			return nil, fmt.Errorf("lookup parent comment: %w", err)
		}
		if parent.RecipeID != recipeID {
			return nil, common.ErrParentCommentWrong
		}
	}

	comment := models.Comment{
		RecipeID:        recipeID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentID,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := s.db.WithContext(ctx).Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return &comment, nil
}

// ListComments 取得食譜的頂層留言，含回覆，皆依時間舊到新
func (s *Service) ListComments(ctx context.Context, recipeID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND parent_comment_id IS NULL", recipeID).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// RatingsFor 取得食譜的全部評分
func (s *Service) RatingsFor(ctx context.Context, recipeID uuid.UUID) ([]models.Rating, error) {
	var ratings []models.Rating
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}
