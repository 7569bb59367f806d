package service

import (
	"context"
	"errors"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/repository"
)

type UserService interface {
	List(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	// Update applies a partial update on behalf of requester. Each field is
	// checked against a write policy before it is copied onto the record;
	// fields the requester may not write are silently discarded.
	Update(ctx context.Context, username string, req dto.UserUpdate, requester *models.User) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
}

// userFieldPolicy reports whether the requester may write a given field.
type userFieldPolicy func(requester *models.User) bool

func anyRequester(*models.User) bool { return true }

// The role field is the only restricted one: a plain "user" cannot
// escalate themselves, while moderators and admins may set roles.
var userWritePolicies = map[string]userFieldPolicy{
	"email":      anyRequester,
	"first_name": anyRequester,
	"last_name":  anyRequester,
	"bio":        anyRequester,
	"role": func(requester *models.User) bool {
		return requester != nil && requester.Role != models.RoleUser
	},
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.UserFromModel(&users[i]))
	}
	return resp, total, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, username string, req dto.UserUpdate, requester *models.User) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	allowed := func(field string) bool {
		policy, ok := userWritePolicies[field]
		return ok && policy(requester)
	}

	if req.Email != nil && allowed("email") {
		user.Email = *req.Email
	}
	if req.FirstName != nil && allowed("first_name") {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil && allowed("last_name") {
		user.LastName = *req.LastName
	}
	if req.Bio != nil && allowed("bio") {
		user.Bio = req.Bio
	}
	if req.Role != nil && allowed("role") {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// email is the only unique field a partial update can touch
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, apperr.Validation("email", "email already in use")
		}
		return nil, err
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	return s.userRepo.DeleteByUsername(ctx, username)
}
