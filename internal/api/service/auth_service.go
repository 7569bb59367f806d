package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"critichub/internal/api/apperr"
	"critichub/internal/api/dto"
	"critichub/internal/api/models"
	"critichub/internal/api/repository"
	"critichub/internal/api/validation"
	"critichub/internal/config"
	"critichub/internal/mailer"
)

const (
	confirmationCodeLength = 32
	confirmationCodeChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// TokenClaims is the payload of the signed session credential.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup registers a user and dispatches their confirmation code by
	// email, unless the requester is an authenticated admin
	// (pre-provisioning skips delivery).
	Signup(ctx context.Context, req dto.SignupRequest, requester *models.User) error
	// IssueToken exchanges username + confirmation code for a signed
	// credential embedding the user's identity and email claim.
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*TokenClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	mail      mailer.Sender
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, mail mailer.Sender, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		mail:      mail,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest, requester *models.User) error {
	if verr := validation.Username(req.Username); verr != nil {
		return verr
	}

	// Pre-check both halves of the (username, email) uniqueness pair so
	// the failure names the field; the database constraint is the backstop.
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return apperr.Validation("username", "username already in use")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return apperr.Validation("email", "email already in use")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	// Only an admin requester may choose a role at signup.
	role := models.RoleUser
	if requester != nil && requester.IsAdmin() && req.Role != "" {
		role = req.Role
	}

	code, err := confirmationCode()
	if err != nil {
		return err
	}

	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Bio:              req.Bio,
		Role:             role,
		ConfirmationCode: code,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return apperr.Validation("username", "username and email must be unique")
		}
		return err
	}

	if requester == nil || !requester.IsAdmin() {
		// Send failures must not surface here: the response contract is a
		// 200 echoing the payload regardless of delivery.
		_ = s.mail.Send(
			user.Email,
			"Your confirmation code",
			fmt.Sprintf("%s, your confirmation code: %s", user.Username, code),
		)
	}
	return nil
}

func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	// Byte-for-byte comparison; the code stays valid after use, so repeat
	// exchanges keep working.
	if user.ConfirmationCode != confirmationCode {
		return "", apperr.ErrConfirmationMismatch
	}

	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// confirmationCode generates a fixed-length mixed-case alphanumeric code.
// It is a delivery-correlation token, not a secret boundary.
func confirmationCode() (string, error) {
	buf := make([]byte, confirmationCodeLength)
	max := big.NewInt(int64(len(confirmationCodeChars)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate confirmation code: %w", err)
		}
		buf[i] = confirmationCodeChars[n.Int64()]
	}
	return string(buf), nil
}
