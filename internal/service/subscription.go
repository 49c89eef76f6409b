package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// SubscriptionService manages follower relations between users.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe creates a follower relation. Self-subscription is rejected
// before any store access; a duplicate — sequential or racing — surfaces as
// a conflict.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Subscription, error) {
	if userID == authorID {
		return nil, InvalidField("author", "cannot subscribe to yourself")
	}

	var author models.User
	err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("user does not exist")
	}
	if err != nil {
		return nil, err
	}

	subscription := models.Subscription{UserID: userID, AuthorID: authorID}
	err = s.db.WithContext(ctx).Create(&subscription).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, Conflict("already subscribed to this user")
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// Unsubscribe removes the follower relation; a missing pair is not found.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFound("not subscribed to this user")
	}
	return nil
}

// Subscriptions returns the authors the user follows, paginated, with the
// unpaginated total.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN (?)", s.db.Model(&models.Subscription{}).
			Select("author_id").
			Where("user_id = ?", userID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var authors []models.User
	err := base.Order("username").Offset((page - 1) * limit).Limit(limit).Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// IsSubscribed reports whether user follows author. A user is never
// considered subscribed to themselves.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || userID == authorID {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
