package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func intptr(i int) *int { return &i }

func TestTitleCreate_ResolvesSlugs(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	svc := NewTitleService(titleRepo, categoryRepo, genreRepo)

	films := "films"
	categoryRepo.On("FindBySlug", mock.Anything, "films").
		Return(&models.Category{ID: 3, Name: "Films", Slug: "films"}, nil)
	genreRepo.On("FindBySlugs", mock.Anything, []string{"drama", "comedy"}).
		Return([]models.Genre{
			{ID: 1, Name: "Drama", Slug: "drama"},
			{ID: 2, Name: "Comedy", Slug: "comedy"},
		}, nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Some Film",
		Year:     intptr(1999),
		Genre:    []string{"drama", "comedy"},
		Category: &films,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Some Film", resp.Name)
	assert.Len(t, resp.Genre, 2)
	assert.Equal(t, "films", resp.Category.Slug)

	created := titleRepo.Calls[0].Arguments.Get(1).(*models.Title)
	assert.Equal(t, int64(3), *created.CategoryID)
}

func TestTitleCreate_FutureYearRejected(t *testing.T) {
	svc := NewTitleService(new(MockTitleRepository), new(MockCategoryRepository), new(MockGenreRepository))

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name: "From The Future",
		Year: intptr(time.Now().Year() + 1),
	})

	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "year")
}

func TestTitleCreate_UnknownCategorySlug(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := NewTitleService(titleRepo, categoryRepo, new(MockGenreRepository))

	nope := "nope"
	categoryRepo.On("FindBySlug", mock.Anything, "nope").Return(nil, apperr.ErrNotFound)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "X",
		Year:     intptr(2000),
		Category: &nope,
	})

	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTitleCreate_UnknownGenreSlugsListed(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	genreRepo := new(MockGenreRepository)
	svc := NewTitleService(titleRepo, new(MockCategoryRepository), genreRepo)

	genreRepo.On("FindBySlugs", mock.Anything, []string{"drama", "bogus", "fake"}).
		Return([]models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}}, nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:  "X",
		Year:  intptr(2000),
		Genre: []string{"drama", "bogus", "fake"},
	})

	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields["genre"], 2)
}

func TestTitleUpdate_ClearCategory(t *testing.T) {
	titleRepo := new(MockTitleRepository)
	svc := NewTitleService(titleRepo, new(MockCategoryRepository), new(MockGenreRepository))

	catID := int64(3)
	stored := &models.Title{ID: 9, Name: "X", Year: 2000, CategoryID: &catID}
	titleRepo.On("GetByID", mock.Anything, int64(9)).Return(stored, nil)
	titleRepo.On("Update", mock.Anything, stored).Return(nil)

	empty := ""
	resp, err := svc.Update(context.Background(), 9, dto.UpdateTitleDTO{Category: &empty})

	assert.NoError(t, err)
	assert.Nil(t, resp.Category)
	assert.Nil(t, stored.CategoryID)
}
