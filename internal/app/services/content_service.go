package services

import (
	"context"
	"net/url"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/filestorage"
	"github.com/emre/educore/internal/pkg/logger"
)

// ContentService manages the polymorphic contents of a module. The kind named
// in the URL selects which item table the operation touches; an unknown kind
// is rejected before any data access. The parent module is always resolved
// through its course's owner, while an existing item is checked against the
// item's own owner.
type ContentService interface {
	ListContents(ctx context.Context, moduleID, ownerID int64) (*dto.ContentListResponse, error)
	CreateContent(ctx context.Context, moduleID, ownerID int64, kindName string, req *dto.SaveContentRequest) (*dto.ContentResponse, error)
	UpdateContent(ctx context.Context, moduleID, ownerID, itemID int64, kindName string, req *dto.SaveContentRequest) (*dto.ContentResponse, error)
	DeleteContent(ctx context.Context, contentID, ownerID int64) error
	ReorderContents(ctx context.Context, ownerID int64, orders map[int64]int) (*dto.OrderSavedResponse, error)
}

type contentModuleStore interface {
	GetByIDOwned(ctx context.Context, id, ownerID int64) (*models.Module, error)
}

type contentStore interface {
	ListByModule(ctx context.Context, moduleID int64) ([]*models.Content, error)
	GetLinkOwned(ctx context.Context, id, ownerID int64) (*models.Content, error)
	GetItem(ctx context.Context, kind models.ContentKind, itemID, ownerID int64) (*models.ContentItem, error)
	GetItems(ctx context.Context, kind models.ContentKind, itemIDs []int64) (map[int64]*models.ContentItem, error)
	CreateItem(ctx context.Context, item *models.ContentItem) (int64, error)
	UpdateItem(ctx context.Context, item *models.ContentItem) error
	CreateLink(ctx context.Context, moduleID int64, kind models.ContentKind, itemID int64) (int64, error)
	DeleteWithItem(ctx context.Context, id, ownerID int64) (*models.Content, *models.ContentItem, error)
	UpdateOrderOwned(ctx context.Context, id, ownerID int64, order int) (bool, error)
}

type contentService struct {
	modules  contentModuleStore
	contents contentStore
	storage  filestorage.FileStorage
}

// NewContentService creates a new ContentService.
func NewContentService(modules contentModuleStore, contents contentStore, storage filestorage.FileStorage) ContentService {
	return &contentService{modules: modules, contents: contents, storage: storage}
}

// ListContents returns the ordered contents of one of the owner's modules,
// each joined with its item.
func (s *contentService) ListContents(ctx context.Context, moduleID, ownerID int64) (*dto.ContentListResponse, error) {
	if _, err := s.modules.GetByIDOwned(ctx, moduleID, ownerID); err != nil {
		return nil, err
	}

	links, err := s.contents.ListByModule(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	idsByKind := make(map[models.ContentKind][]int64)
	for _, link := range links {
		idsByKind[link.Kind] = append(idsByKind[link.Kind], link.ItemID)
	}

	itemsByKind := make(map[models.ContentKind]map[int64]*models.ContentItem, len(idsByKind))
	for kind, ids := range idsByKind {
		items, err := s.contents.GetItems(ctx, kind, ids)
		if err != nil {
			return nil, err
		}
		itemsByKind[kind] = items
	}

	responses := make([]dto.ContentResponse, 0, len(links))
	for _, link := range links {
		item := itemsByKind[link.Kind][link.ItemID]
		if item == nil {
			logger.Warn().Int64("contentID", link.ID).Int64("itemID", link.ItemID).Str("kind", string(link.Kind)).Msg("Content link points at missing item")
			continue
		}
		responses = append(responses, *toContentResponse(link, item))
	}
	return &dto.ContentListResponse{Contents: responses}, nil
}

// CreateContent creates a new item of the given kind and appends it to the
// module's ordering. The item owner is stamped from the authenticated
// identity.
func (s *contentService) CreateContent(ctx context.Context, moduleID, ownerID int64, kindName string, req *dto.SaveContentRequest) (*dto.ContentResponse, error) {
	kind, ok := models.ParseContentKind(kindName)
	if !ok {
		return nil, apperrors.ErrContentKindUnknown
	}

	module, err := s.modules.GetByIDOwned(ctx, moduleID, ownerID)
	if err != nil {
		return nil, err
	}

	payload, err := payloadForKind(kind, req)
	if err != nil {
		return nil, err
	}

	item := &models.ContentItem{
		OwnerID: ownerID,
		Kind:    kind,
		Title:   req.Title,
		Payload: payload,
	}

	itemID, err := s.contents.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = itemID

	linkID, err := s.contents.CreateLink(ctx, module.ID, kind, itemID)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("contentID", linkID).Int64("moduleID", module.ID).Str("kind", string(kind)).Msg("Content created")

	link := &models.Content{ID: linkID, ModuleID: module.ID, Kind: kind, ItemID: itemID}
	return toContentResponse(link, item), nil
}

// UpdateContent edits an existing item in place. No new link is created and
// the ordering is untouched. The item is resolved against its own owner.
func (s *contentService) UpdateContent(ctx context.Context, moduleID, ownerID, itemID int64, kindName string, req *dto.SaveContentRequest) (*dto.ContentResponse, error) {
	kind, ok := models.ParseContentKind(kindName)
	if !ok {
		return nil, apperrors.ErrContentKindUnknown
	}

	module, err := s.modules.GetByIDOwned(ctx, moduleID, ownerID)
	if err != nil {
		return nil, err
	}

	item, err := s.contents.GetItem(ctx, kind, itemID, ownerID)
	if err != nil {
		return nil, err
	}

	payload, err := payloadForKind(kind, req)
	if err != nil {
		return nil, err
	}

	oldPayload := item.Payload
	item.Title = req.Title
	item.Payload = payload

	if err := s.contents.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if kindStoresFile(kind) && oldPayload != "" && oldPayload != payload {
		if err := s.storage.DeleteFile(oldPayload); err != nil {
			logger.Warn().Err(err).Str("path", oldPayload).Msg("Failed to remove replaced content file")
		}
	}

	link := &models.Content{ModuleID: module.ID, Kind: kind, ItemID: item.ID}
	return toContentResponse(link, item), nil
}

// DeleteContent removes a content link and its item together. For kinds that
// store an uploaded file, the stored file is removed after the rows are gone.
func (s *contentService) DeleteContent(ctx context.Context, contentID, ownerID int64) error {
	link, item, err := s.contents.DeleteWithItem(ctx, contentID, ownerID)
	if err != nil {
		return err
	}

	if kindStoresFile(link.Kind) && item.Payload != "" {
		if err := s.storage.DeleteFile(item.Payload); err != nil {
			logger.Warn().Err(err).Str("path", item.Payload).Msg("Failed to remove deleted content file")
		}
	}

	logger.Info().Int64("contentID", contentID).Str("kind", string(link.Kind)).Msg("Content deleted")
	return nil
}

// ReorderContents applies a batch of id to position assignments. Rows the
// caller does not own are skipped silently; the acknowledgement never varies.
func (s *contentService) ReorderContents(ctx context.Context, ownerID int64, orders map[int64]int) (*dto.OrderSavedResponse, error) {
	for id, order := range orders {
		applied, err := s.contents.UpdateOrderOwned(ctx, id, ownerID, order)
		if err != nil {
			return nil, err
		}
		if !applied {
			logger.Debug().Int64("contentID", id).Int64("ownerID", ownerID).Msg("Skipped reorder of unowned content")
		}
	}
	resp := dto.NewOrderSavedResponse()
	return &resp, nil
}

// payloadForKind selects and validates the kind-specific payload field.
func payloadForKind(kind models.ContentKind, req *dto.SaveContentRequest) (string, error) {
	switch kind {
	case models.KindText:
		if req.Text == "" {
			return "", apperrors.NewValidationError("text is required")
		}
		return req.Text, nil
	case models.KindVideo:
		if req.URL == "" {
			return "", apperrors.NewValidationError("url is required")
		}
		parsed, err := url.Parse(req.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return "", apperrors.NewValidationError("url must be absolute")
		}
		return req.URL, nil
	case models.KindImage, models.KindFile:
		if req.FilePath == "" {
			return "", apperrors.NewValidationError("file is required")
		}
		return req.FilePath, nil
	}
	return "", apperrors.ErrContentKindUnknown
}

func kindStoresFile(kind models.ContentKind) bool {
	return kind == models.KindImage || kind == models.KindFile
}

func toContentResponse(link *models.Content, item *models.ContentItem) *dto.ContentResponse {
	resp := &dto.ContentResponse{
		ID:       link.ID,
		ModuleID: link.ModuleID,
		Kind:     string(link.Kind),
		ItemID:   item.ID,
		Order:    link.SortOrder,
		Title:    item.Title,
	}
	switch link.Kind {
	case models.KindText:
		resp.Text = item.Payload
	case models.KindVideo:
		resp.URL = item.Payload
	case models.KindImage, models.KindFile:
		resp.File = item.Payload
	}
	return resp
}
