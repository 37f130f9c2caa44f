package auth

import (
	"context"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/logger"
)

// permissionStore is the slice of the user repository the authorization
// service needs.
type permissionStore interface {
	HasPermission(ctx context.Context, userID int64, perm models.Permission) (bool, error)
}

// AuthorizationService answers permission checks against the persisted
// grants. Ownership of individual resources is not decided here; that lives
// in the owner-scoped repository queries.
type AuthorizationService struct {
	store permissionStore
}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService(store permissionStore) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// HasPermission reports whether the user holds the permission.
func (s *AuthorizationService) HasPermission(ctx context.Context, userID int64, perm models.Permission) (bool, error) {
	return s.store.HasPermission(ctx, userID, perm)
}

// RequirePermission returns ErrPermissionDenied when the user lacks the
// permission.
func (s *AuthorizationService) RequirePermission(ctx context.Context, userID int64, perm models.Permission) error {
	ok, err := s.store.HasPermission(ctx, userID, perm)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("permission", string(perm)).Msg("Permission check failed")
		return err
	}
	if !ok {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
