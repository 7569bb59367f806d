package repository

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"

	"critichub/internal/api/models"
)

// ReviewRepository persists reviews. Every mutation recomputes the parent
// title's derived rating inside the same transaction, so readers never see
// a review change without the matching rating update.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, review *models.Review) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date desc").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("title_id = ? AND id = ?", titleID, reviewID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review existence: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.TitleID)
	}))
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Title").Save(review).Error; err != nil {
			return err
		}
		return recomputeRating(tx, review.TitleID)
	}))
}

func (r *reviewRepository) Delete(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Review{}, "id = ?", review.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputeRating(tx, review.TitleID)
	}))
}

// recomputeRating writes the rounded mean of the title's review scores, or
// NULL when no reviews remain. Must run inside the mutating transaction.
func recomputeRating(tx *gorm.DB, titleID int64) error {
	var avg *float64
	err := tx.Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("aggregate review scores: %w", err)
	}

	if err := tx.Model(&models.Title{}).Where("id = ?", titleID).Update("rating", roundRating(avg)).Error; err != nil {
		return fmt.Errorf("update title rating: %w", err)
	}
	return nil
}

// roundRating maps a mean score onto the stored rating: nearest integer, or
// nil when there are no reviews to average.
func roundRating(avg *float64) *int {
	if avg == nil {
		return nil
	}
	rounded := int(math.Round(*avg))
	return &rounded
}
