package service

import (
	"context"
	"errors"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/permission"
	"critichub/internal/api/repository"
	"critichub/internal/api/validation"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, limit, offset int) ([]dto.ReviewResponse, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	// Create stamps the author and parent title; at most one review per
	// (author, title) pair is accepted.
	Create(ctx context.Context, titleID int64, author *models.User, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, titleID, reviewID int64, requester *models.User, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, requester *models.User) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, limit, offset int) ([]dto.ReviewResponse, int64, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.ReviewFromModel(&reviews[i]))
	}
	return resp, total, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Create(ctx context.Context, titleID int64, author *models.User, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if verr := validation.Score(req.Score); verr != nil {
		return nil, verr
	}
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("title", "you have already reviewed this title")
	}

	review := &models.Review{
		AuthorID: author.ID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
		Author:   *author,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// Backstop for two concurrent first reviews by the same author.
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("title", "you have already reviewed this title")
		}
		return nil, err
	}

	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, requester *models.User, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyAuthored(requester, review.AuthorID) {
		return nil, apperr.ErrForbidden
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if verr := validation.Score(*req.Score); verr != nil {
			return nil, verr
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, requester *models.User) error {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permission.CanModifyAuthored(requester, review.AuthorID) {
		return apperr.ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, review)
}
