package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/dberrors"
	"github.com/emre/educore/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentRepository handles the contents table and the four item tables it
// points at. The item table and payload column come from the kind registry,
// never from request input, so the dynamic SQL stays closed over known names.
type ContentRepository struct {
	DB *pgxpool.Pool
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{DB: db}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var content models.Content
	err := row.Scan(
		&content.ID, &content.ModuleID, &content.Kind,
		&content.ItemID, &content.SortOrder, &content.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

// ListByModule returns the ordered content links of a module.
func (r *ContentRepository) ListByModule(ctx context.Context, moduleID int64) ([]*models.Content, error) {
	sql, args, err := squirrel.Select(
		"id", "module_id", "kind", "item_id", "sort_order", "created_at",
	).From("contents").
		Where(squirrel.Eq{"module_id": moduleID}).
		OrderBy("sort_order ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("moduleID", moduleID).Msg("Error executing list contents query")
		return nil, err
	}
	defer rows.Close()

	contents := make([]*models.Content, 0)
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}
	return contents, rows.Err()
}

// GetLinkOwned retrieves a content link by id, constrained through its module
// and course to the given owner.
func (r *ContentRepository) GetLinkOwned(ctx context.Context, id, ownerID int64) (*models.Content, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT ct.id, ct.module_id, ct.kind, ct.item_id, ct.sort_order, ct.created_at
		FROM contents ct
		JOIN modules m ON ct.module_id = m.id
		JOIN courses c ON m.course_id = c.id
		WHERE ct.id = $1 AND c.owner_id = $2`, id, ownerID)
	return scanContent(row)
}

// GetItem retrieves an item of the given kind, constrained to the item's own
// owner.
func (r *ContentRepository) GetItem(ctx context.Context, kind models.ContentKind, itemID, ownerID int64) (*models.ContentItem, error) {
	query := fmt.Sprintf(
		`SELECT id, owner_id, title, %s, created_at, updated_at FROM %s WHERE id = $1 AND owner_id = $2`,
		kind.PayloadColumn(), kind.TableName())

	var item models.ContentItem
	err := r.DB.QueryRow(ctx, query, itemID, ownerID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Payload,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, err
	}
	item.Kind = kind
	return &item, nil
}

// GetItems batch-fetches items of one kind by id, keyed by item id.
func (r *ContentRepository) GetItems(ctx context.Context, kind models.ContentKind, itemIDs []int64) (map[int64]*models.ContentItem, error) {
	items := make(map[int64]*models.ContentItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return items, nil
	}

	query := fmt.Sprintf(
		`SELECT id, owner_id, title, %s, created_at, updated_at FROM %s WHERE id = ANY($1)`,
		kind.PayloadColumn(), kind.TableName())

	rows, err := r.DB.Query(ctx, query, itemIDs)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Msg("Error executing batch item query")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Payload,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		item.Kind = kind
		items[item.ID] = &item
	}
	return items, rows.Err()
}

// CreateItem inserts a new item into the kind's table. The owner must already
// be stamped on the model.
func (r *ContentRepository) CreateItem(ctx context.Context, item *models.ContentItem) (int64, error) {
	sql, args, err := squirrel.Insert(item.Kind.TableName()).
		Columns("owner_id", "title", item.Kind.PayloadColumn()).
		Values(item.OwnerID, item.Title, item.Payload).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("kind", string(item.Kind)).Msg("Error executing create item query")
		return 0, err
	}
	return id, nil
}

// UpdateItem updates an item's title and payload, constrained to its owner.
func (r *ContentRepository) UpdateItem(ctx context.Context, item *models.ContentItem) error {
	sql, args, err := squirrel.Update(item.Kind.TableName()).
		Set("title", item.Title).
		Set(item.Kind.PayloadColumn(), item.Payload).
		Where(squirrel.Eq{"id": item.ID, "owner_id": item.OwnerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	cmdTag, err := r.DB.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(item.Kind)).Msg("Error executing update item query")
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFound
	}
	return nil
}

// CreateLink appends a new content link at the end of the module's ordering.
func (r *ContentRepository) CreateLink(ctx context.Context, moduleID int64, kind models.ContentKind, itemID int64) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO contents (module_id, kind, item_id, sort_order)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM contents WHERE module_id = $1))
		RETURNING id`, moduleID, kind, itemID).Scan(&id)
	if err != nil {
		// The module can disappear between the ownership lookup and the insert.
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrModuleNotFound
		}
		logger.Error().Err(err).Int64("moduleID", moduleID).Msg("Error executing create content link query")
		return 0, err
	}
	return id, nil
}

// DeleteWithItem removes a content link and its item in one transaction,
// constrained through module and course to the owner. It returns the removed
// link and item so the caller can clean up anything stored beside the row.
func (r *ContentRepository) DeleteWithItem(ctx context.Context, id, ownerID int64) (*models.Content, *models.ContentItem, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	link, err := scanContent(tx.QueryRow(ctx, `
		SELECT ct.id, ct.module_id, ct.kind, ct.item_id, ct.sort_order, ct.created_at
		FROM contents ct
		JOIN modules m ON ct.module_id = m.id
		JOIN courses c ON m.course_id = c.id
		WHERE ct.id = $1 AND c.owner_id = $2`, id, ownerID))
	if err != nil {
		return nil, nil, err
	}

	itemQuery := fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1 RETURNING id, owner_id, title, %s, created_at, updated_at`,
		link.Kind.TableName(), link.Kind.PayloadColumn())

	var item models.ContentItem
	if err := tx.QueryRow(ctx, itemQuery, link.ItemID).Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Payload,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrContentNotFound
		}
		return nil, nil, err
	}
	item.Kind = link.Kind

	if _, err := tx.Exec(ctx, `DELETE FROM contents WHERE id = $1`, link.ID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return link, &item, nil
}

// UpdateOrderOwned sets the sort order of one content link, constrained
// through module and course to the owner. It reports whether a row matched;
// an unowned or missing id is a no-op, not an error.
func (r *ContentRepository) UpdateOrderOwned(ctx context.Context, id, ownerID int64, order int) (bool, error) {
	cmdTag, err := r.DB.Exec(ctx, `
		UPDATE contents SET sort_order = $1
		WHERE id = $2
		  AND module_id IN (
			SELECT m.id FROM modules m
			JOIN courses c ON m.course_id = c.id
			WHERE c.owner_id = $3
		  )`, order, id, ownerID)
	if err != nil {
		logger.Error().Err(err).Int64("contentID", id).Msg("Error executing content order update")
		return false, err
	}
	return cmdTag.RowsAffected() > 0, nil
}
