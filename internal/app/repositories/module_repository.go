package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleChange is one entry of a module formset: no ID inserts, an ID
// updates, and Delete removes.
type ModuleChange struct {
	ID          int64
	Title       string
	Description string
	SortOrder   int
	Delete      bool
}

// ModuleRepository handles database operations for modules. Modules have no
// owner column; ownership is enforced transitively through the parent course.
type ModuleRepository struct {
	DB *pgxpool.Pool
}

// NewModuleRepository creates a new ModuleRepository.
func NewModuleRepository(db *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func scanModule(row pgx.Row) (*models.Module, error) {
	var module models.Module
	err := row.Scan(
		&module.ID, &module.CourseID, &module.Title, &module.Description,
		&module.SortOrder, &module.CreatedAt, &module.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, err
	}
	return &module, nil
}

// GetByIDOwned retrieves a module by id, constrained to modules whose course
// belongs to the given owner.
func (r *ModuleRepository) GetByIDOwned(ctx context.Context, id, ownerID int64) (*models.Module, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT m.id, m.course_id, m.title, m.description, m.sort_order, m.created_at, m.updated_at
		FROM modules m
		JOIN courses c ON m.course_id = c.id
		WHERE m.id = $1 AND c.owner_id = $2`, id, ownerID)
	return scanModule(row)
}

// ListByCourse returns the ordered modules of a course. Callers resolve the
// course through the owner-scoped course lookup first.
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Module, error) {
	sql, args, err := squirrel.Select(
		"id", "course_id", "title", "description", "sort_order", "created_at", "updated_at",
	).From("modules").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("sort_order ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list modules query")
		return nil, err
	}
	defer rows.Close()

	modules := make([]*models.Module, 0)
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, module)
	}
	return modules, rows.Err()
}

// ApplyFormset applies a batch of module changes to a course inside one
// transaction: the whole formset saves or none of it does. Updates and
// deletes are additionally constrained by course id so an entry cannot reach
// into another course's modules.
func (r *ModuleRepository) ApplyFormset(ctx context.Context, courseID int64, changes []ModuleChange) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, change := range changes {
		switch {
		case change.Delete:
			if change.ID == 0 {
				continue
			}
			cmdTag, err := tx.Exec(ctx,
				`DELETE FROM modules WHERE id = $1 AND course_id = $2`,
				change.ID, courseID)
			if err != nil {
				return err
			}
			if cmdTag.RowsAffected() == 0 {
				return apperrors.ErrModuleNotFound
			}

		case change.ID == 0:
			if _, err := tx.Exec(ctx,
				`INSERT INTO modules (course_id, title, description, sort_order) VALUES ($1, $2, $3, $4)`,
				courseID, change.Title, change.Description, change.SortOrder); err != nil {
				return err
			}

		default:
			cmdTag, err := tx.Exec(ctx,
				`UPDATE modules SET title = $1, description = $2, sort_order = $3 WHERE id = $4 AND course_id = $5`,
				change.Title, change.Description, change.SortOrder, change.ID, courseID)
			if err != nil {
				return err
			}
			if cmdTag.RowsAffected() == 0 {
				return apperrors.ErrModuleNotFound
			}
		}
	}

	return tx.Commit(ctx)
}

// UpdateOrderOwned sets the sort order of one module, constrained to modules
// whose course belongs to the owner. It reports whether a row matched; an
// unowned or missing id is a no-op, not an error.
func (r *ModuleRepository) UpdateOrderOwned(ctx context.Context, id, ownerID int64, order int) (bool, error) {
	cmdTag, err := r.DB.Exec(ctx, `
		UPDATE modules SET sort_order = $1
		WHERE id = $2
		  AND course_id IN (SELECT id FROM courses WHERE owner_id = $3)`,
		order, id, ownerID)
	if err != nil {
		logger.Error().Err(err).Int64("moduleID", id).Msg("Error executing module order update")
		return false, err
	}
	return cmdTag.RowsAffected() > 0, nil
}
