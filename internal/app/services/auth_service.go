package services

import (
	"context"
	"errors"
	"time"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/auth"
	"github.com/emre/educore/internal/pkg/logger"
)

// AuthService defines registration, login and refresh token rotation.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

type userStore interface {
	Create(ctx context.Context, user *models.User, perms []models.Permission) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetPermissions(ctx context.Context, userID int64) ([]models.Permission, error)
}

type tokenStore interface {
	Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type authService struct {
	users  userStore
	tokens tokenStore
	jwt    *auth.JWTService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userStore, tokens tokenStore, jwt *auth.JWTService) AuthService {
	return &authService{users: users, tokens: tokens, jwt: jwt}
}

// Register creates an account. Instructors receive the full set of course
// permissions; students receive none and hit 403 on the management routes.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RoleType:     models.RoleType(req.Role),
	}

	var perms []models.Permission
	if user.RoleType == models.RoleInstructor {
		perms = models.InstructorPermissions
	}

	id, err := s.users.Create(ctx, user, perms)
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Info().Int64("userID", id).Str("role", req.Role).Msg("User registered")
	return s.toUserResponse(user, perms), nil
}

// Login verifies credentials and issues a token pair. A wrong email and a
// wrong password produce the same error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token: the old one is revoked and a fresh
// pair is issued. Expired or revoked tokens are rejected.
func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	rt, err := s.tokens.Get(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if rt.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Revoke(ctx, rt.Token); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// GetProfile returns the account data of the authenticated user.
func (s *authService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms, err := s.users.GetPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toUserResponse(user, perms), nil
}

func (s *authService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(
		user.ID, user.Email, string(user.RoleType))
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokens.Store(ctx, user.ID, refreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to store refresh token")
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
	}, nil
}

func (s *authService) toUserResponse(user *models.User, perms []models.Permission) *dto.UserResponse {
	permNames := make([]string, 0, len(perms))
	for _, p := range perms {
		permNames = append(permNames, string(p))
	}
	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        string(user.RoleType),
		Permissions: permNames,
	}
}
