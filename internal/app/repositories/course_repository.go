package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/dberrors"
	"github.com/emre/educore/internal/pkg/helpers"
	"github.com/emre/educore/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository handles database operations for courses. Every read and
// write is scoped by owner: a lookup by id is also the authorization check,
// and an id owned by someone else is indistinguishable from a missing one.
type CourseRepository struct {
	DB *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{DB: db}
}

func selectCourseQuery() squirrel.SelectBuilder {
	return squirrel.Select(
		"id", "subject", "title", "slug", "overview",
		"owner_id", "created_at", "updated_at",
	).From("courses").PlaceholderFormat(squirrel.Dollar)
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.Subject, &course.Title, &course.Slug,
		&course.Overview, &course.OwnerID, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course. The owner must already be stamped on the model.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := squirrel.Insert("courses").
		Columns("subject", "title", "slug", "overview", "owner_id").
		Values(course.Subject, course.Title, course.Slug, course.Overview, course.OwnerID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return 0, apperrors.ErrSlugAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create course query")
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a course by id, constrained to the given owner.
func (r *CourseRepository) GetByID(ctx context.Context, id, ownerID int64) (*models.Course, error) {
	sql, args, err := selectCourseQuery().
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCourse(r.DB.QueryRow(ctx, sql, args...))
}

// ListByOwner retrieves a paginated list of courses owned by the user.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID int64, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	var totalItems int64
	if err := r.DB.QueryRow(ctx,
		`SELECT count(*) FROM courses WHERE owner_id = $1`, ownerID).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return nil, dto.PaginationInfo{}, err
	}

	pagination := helpers.NewPaginationInfo(totalItems, page, size)
	if totalItems == 0 {
		return []*models.Course{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	sql, args, err := selectCourseQuery().
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, dto.PaginationInfo{}, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, pagination, fmt.Errorf("database iteration error: %w", err)
	}

	return courses, pagination, nil
}

// Update updates a course in place, constrained to its owner. The owner
// column is never part of the update.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := squirrel.Update("courses").
		Set("subject", course.Subject).
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("overview", course.Overview).
		// updated_at is handled by trigger
		Where(squirrel.Eq{"id": course.ID, "owner_id": course.OwnerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.ErrSlugAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing update course query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course owned by the user. Modules and content links are
// removed by cascading foreign keys.
func (r *CourseRepository) Delete(ctx context.Context, id, ownerID int64) error {
	cmdTag, err := r.DB.Exec(ctx,
		`DELETE FROM courses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
