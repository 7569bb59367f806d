package service

import (
	"context"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/permission"
	"critichub/internal/api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]dto.CommentResponse, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, titleID, reviewID int64, author *models.User, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// parentReview resolves the review scoped by its parent title, so a
// mismatched title/review pair is a 404 rather than a leak.
func (s *commentService) parentReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	return s.reviewRepo.GetByID(ctx, titleID, reviewID)
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]dto.CommentResponse, int64, error) {
	if _, err := s.parentReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.CommentFromModel(&comments[i]))
	}
	return resp, total, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if _, err := s.parentReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, author *models.User, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	review, err := s.parentReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: author.ID,
		ReviewID: review.ID,
		Text:     req.Text,
		Author:   *author,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	if _, err := s.parentReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyAuthored(requester, comment.AuthorID) {
		return nil, apperr.ErrForbidden
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, requester *models.User) error {
	if _, err := s.parentReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permission.CanModifyAuthored(requester, comment.AuthorID) {
		return apperr.ErrForbidden
	}
	return s.commentRepo.Delete(ctx, comment)
}
