package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/dberrors"
	"github.com/emre/educore/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users and their permissions.
type UserRepository struct {
	DB *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.RoleType, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func selectUserQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "email", "password_hash", "first_name",
		"last_name", "role_type", "created_at", "updated_at",
	).From("users").PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new user and grants the given permissions in a single
// transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, perms []models.Permission) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	sql, args, err := squirrel.Insert("users").
		Columns("email", "password_hash", "first_name", "last_name", "role_type").
		Values(user.Email, user.PasswordHash, user.FirstName, user.LastName, user.RoleType).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create user query")
		return 0, err
	}

	for _, perm := range perms {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, perm); err != nil {
			logger.Error().Err(err).Int64("userID", id).Str("permission", string(perm)).Msg("Error granting permission")
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return id, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := selectUserQuery().Where(squirrel.Eq{"email": email}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.DB.QueryRow(ctx, sql, args...))
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := selectUserQuery().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.DB.QueryRow(ctx, sql, args...))
}

// GetPermissions returns all permissions granted to the user.
func (r *UserRepository) GetPermissions(ctx context.Context, userID int64) ([]models.Permission, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT permission FROM user_permissions WHERE user_id = $1 ORDER BY permission`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make([]models.Permission, 0)
	for rows.Next() {
		var perm models.Permission
		if err := rows.Scan(&perm); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

// HasPermission reports whether the user holds the given permission.
func (r *UserRepository) HasPermission(ctx context.Context, userID int64, perm models.Permission) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission = $2)`,
		userID, perm).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("permission", string(perm)).Msg("Error checking permission")
		return false, err
	}
	return exists, nil
}
