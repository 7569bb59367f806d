package service

import (
	"context"
	"errors"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, limit, offset int) ([]dto.CategoryResponse, int64, error)
	Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, limit, offset int) ([]dto.CategoryResponse, int64, error) {
	categories, total, err := s.categoryRepo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return resp, total, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("slug", "slug already in use")
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(*category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return s.categoryRepo.DeleteBySlug(ctx, slug)
}
