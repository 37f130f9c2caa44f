package services

import (
	"context"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/app/repositories"
	"github.com/emre/educore/internal/pkg/logger"
)

// ModuleService manages the ordered modules of a course. The parent course is
// always resolved through the owner-scoped lookup first, so a caller can only
// ever touch modules of their own courses.
type ModuleService interface {
	ListModules(ctx context.Context, courseID, ownerID int64) (*dto.ModuleListResponse, error)
	UpdateModules(ctx context.Context, courseID, ownerID int64, req *dto.ModuleFormsetRequest) (*dto.ModuleListResponse, error)
	ReorderModules(ctx context.Context, ownerID int64, orders map[int64]int) (*dto.OrderSavedResponse, error)
}

type moduleCourseStore interface {
	GetByID(ctx context.Context, id, ownerID int64) (*models.Course, error)
}

type moduleStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Module, error)
	ApplyFormset(ctx context.Context, courseID int64, changes []repositories.ModuleChange) error
	UpdateOrderOwned(ctx context.Context, id, ownerID int64, order int) (bool, error)
}

type moduleService struct {
	courses moduleCourseStore
	modules moduleStore
}

// NewModuleService creates a new ModuleService.
func NewModuleService(courses moduleCourseStore, modules moduleStore) ModuleService {
	return &moduleService{courses: courses, modules: modules}
}

// ListModules returns the ordered modules of one of the owner's courses.
func (s *moduleService) ListModules(ctx context.Context, courseID, ownerID int64) (*dto.ModuleListResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID, ownerID); err != nil {
		return nil, err
	}

	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toModuleListResponse(modules), nil
}

// UpdateModules applies a module formset to one of the owner's courses:
// entries without an id are created, entries with an id are updated, and
// entries flagged delete are removed. The whole set applies atomically.
func (s *moduleService) UpdateModules(ctx context.Context, courseID, ownerID int64, req *dto.ModuleFormsetRequest) (*dto.ModuleListResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID, ownerID); err != nil {
		return nil, err
	}

	changes := make([]repositories.ModuleChange, 0, len(req.Modules))
	for _, entry := range req.Modules {
		changes = append(changes, repositories.ModuleChange{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			SortOrder:   entry.Order,
			Delete:      entry.Delete,
		})
	}

	if err := s.modules.ApplyFormset(ctx, courseID, changes); err != nil {
		return nil, err
	}

	modules, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return toModuleListResponse(modules), nil
}

// ReorderModules applies a batch of id to position assignments. Rows the
// caller does not own are skipped silently, and the acknowledgement is the
// same whether every row applied or none did. Each row commits on its own,
// so a failure partway leaves earlier rows applied.
func (s *moduleService) ReorderModules(ctx context.Context, ownerID int64, orders map[int64]int) (*dto.OrderSavedResponse, error) {
	for id, order := range orders {
		applied, err := s.modules.UpdateOrderOwned(ctx, id, ownerID, order)
		if err != nil {
			return nil, err
		}
		if !applied {
			logger.Debug().Int64("moduleID", id).Int64("ownerID", ownerID).Msg("Skipped reorder of unowned module")
		}
	}
	resp := dto.NewOrderSavedResponse()
	return &resp, nil
}

func toModuleListResponse(modules []*models.Module) *dto.ModuleListResponse {
	responses := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		responses = append(responses, dto.ModuleResponse{
			ID:          m.ID,
			CourseID:    m.CourseID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.SortOrder,
		})
	}
	return &dto.ModuleListResponse{Modules: responses}
}
