package services

import (
	"context"
	"regexp"
	"time"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/logger"
)

// slugPattern matches lowercase letters, digits and single hyphens between
// groups, the shape produced by slugifying a title.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CourseService defines owner-scoped course management. Every operation takes
// the authenticated owner id; an id owned by someone else behaves exactly like
// a missing one.
type CourseService interface {
	CreateCourse(ctx context.Context, ownerID int64, req *dto.SaveCourseRequest) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id, ownerID int64) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, ownerID int64, page, size int) (*dto.CourseListResponse, error)
	UpdateCourse(ctx context.Context, id, ownerID int64, req *dto.SaveCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id, ownerID int64) error
}

type courseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Course, error)
	ListByOwner(ctx context.Context, ownerID int64, page, size int) ([]*models.Course, dto.PaginationInfo, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id, ownerID int64) error
}

type courseService struct {
	courses courseStore
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses courseStore) CourseService {
	return &courseService{courses: courses}
}

// CreateCourse creates a course owned by the authenticated user. The owner is
// stamped here from the identity; it is never read from the request.
func (s *courseService) CreateCourse(ctx context.Context, ownerID int64, req *dto.SaveCourseRequest) (*dto.CourseResponse, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperrors.NewValidationError("slug must contain only lowercase letters, digits and hyphens")
	}

	course := &models.Course{
		Subject:  req.Subject,
		Title:    req.Title,
		Slug:     req.Slug,
		Overview: req.Overview,
		OwnerID:  ownerID,
	}

	id, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	course.ID = id
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt

	logger.Info().Int64("courseID", id).Int64("ownerID", ownerID).Msg("Course created")
	return toCourseResponse(course), nil
}

// GetCourse retrieves one of the owner's courses.
func (s *courseService) GetCourse(ctx context.Context, id, ownerID int64) (*dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ListCourses lists the owner's courses with pagination. Other users' courses
// never appear, whatever the page.
func (s *courseService) ListCourses(ctx context.Context, ownerID int64, page, size int) (*dto.CourseListResponse, error) {
	courses, pagination, err := s.courses.ListByOwner(ctx, ownerID, page, size)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, *toCourseResponse(course))
	}
	return &dto.CourseListResponse{Courses: responses, Pagination: pagination}, nil
}

// UpdateCourse updates one of the owner's courses. The owner column is never
// touched, so a course cannot be reassigned through this path.
func (s *courseService) UpdateCourse(ctx context.Context, id, ownerID int64, req *dto.SaveCourseRequest) (*dto.CourseResponse, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperrors.NewValidationError("slug must contain only lowercase letters, digits and hyphens")
	}

	course := &models.Course{
		ID:       id,
		Subject:  req.Subject,
		Title:    req.Title,
		Slug:     req.Slug,
		Overview: req.Overview,
		OwnerID:  ownerID,
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	updated, err := s.courses.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(updated), nil
}

// DeleteCourse removes one of the owner's courses together with its modules
// and content links.
func (s *courseService) DeleteCourse(ctx context.Context, id, ownerID int64) error {
	if err := s.courses.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	logger.Info().Int64("courseID", id).Int64("ownerID", ownerID).Msg("Course deleted")
	return nil
}

func toCourseResponse(course *models.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:        course.ID,
		Subject:   course.Subject,
		Title:     course.Title,
		Slug:      course.Slug,
		Overview:  course.Overview,
		OwnerID:   course.OwnerID,
		CreatedAt: course.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: course.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
