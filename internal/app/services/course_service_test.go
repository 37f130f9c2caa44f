package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	"github.com/emre/educore/internal/pkg/helpers"
)

type fakeCourseStore struct {
	nextID  int64
	courses map[int64]*models.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{nextID: 1, courses: make(map[int64]*models.Course)}
}

func (f *fakeCourseStore) Create(_ context.Context, course *models.Course) (int64, error) {
	for _, c := range f.courses {
		if c.Slug == course.Slug {
			return 0, apperrors.ErrSlugAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	stored := *course
	stored.ID = id
	f.courses[id] = &stored
	return id, nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id, ownerID int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok || course.OwnerID != ownerID {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (f *fakeCourseStore) ListByOwner(_ context.Context, ownerID int64, page, size int) ([]*models.Course, dto.PaginationInfo, error) {
	owned := make([]*models.Course, 0)
	for _, c := range f.courses {
		if c.OwnerID == ownerID {
			copied := *c
			owned = append(owned, &copied)
		}
	}
	return owned, helpers.NewPaginationInfo(int64(len(owned)), page, size), nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *models.Course) error {
	existing, ok := f.courses[course.ID]
	if !ok || existing.OwnerID != course.OwnerID {
		return apperrors.ErrCourseNotFound
	}
	existing.Subject = course.Subject
	existing.Title = course.Title
	existing.Slug = course.Slug
	existing.Overview = course.Overview
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id, ownerID int64) error {
	course, ok := f.courses[id]
	if !ok || course.OwnerID != ownerID {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func TestCreateCourseStampsOwner(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	resp, err := svc.CreateCourse(context.Background(), 42, &dto.SaveCourseRequest{
		Subject: "Programming", Title: "Go Basics", Slug: "go-basics",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if resp.OwnerID != 42 {
		t.Errorf("owner = %d, want 42", resp.OwnerID)
	}
	if store.courses[resp.ID].OwnerID != 42 {
		t.Errorf("stored owner = %d, want 42", store.courses[resp.ID].OwnerID)
	}
}

func TestCreateCourseRejectsBadSlug(t *testing.T) {
	svc := NewCourseService(newFakeCourseStore())

	for _, slug := range []string{"", "Go Basics", "go_basics", "-leading", "trailing-", "UPPER"} {
		_, err := svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{
			Subject: "s", Title: "t", Slug: slug,
		})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("slug %q: err = %v, want ErrValidationFailed", slug, err)
		}
	}
}

func TestGetCourseCrossOwnerIsNotFound(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	created, err := svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{
		Subject: "s", Title: "t", Slug: "t",
	})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	if _, err := svc.GetCourse(context.Background(), created.ID, 2); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("cross-owner get: err = %v, want ErrCourseNotFound", err)
	}
	if _, err := svc.GetCourse(context.Background(), 9999, 2); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("missing get: err = %v, want ErrCourseNotFound", err)
	}
}

func TestUpdateCourseCrossOwnerLeavesCourseIntact(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	created, _ := svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{
		Subject: "s", Title: "original", Slug: "original",
	})

	_, err := svc.UpdateCourse(context.Background(), created.ID, 2, &dto.SaveCourseRequest{
		Subject: "s", Title: "hijacked", Slug: "hijacked",
	})
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("cross-owner update: err = %v, want ErrCourseNotFound", err)
	}
	if store.courses[created.ID].Title != "original" {
		t.Errorf("title = %q, want unchanged", store.courses[created.ID].Title)
	}
}

func TestDeleteCourseCrossOwnerLeavesCourseIntact(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	created, _ := svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{
		Subject: "s", Title: "t", Slug: "t",
	})

	if err := svc.DeleteCourse(context.Background(), created.ID, 2); !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("cross-owner delete: err = %v, want ErrCourseNotFound", err)
	}
	if _, ok := store.courses[created.ID]; !ok {
		t.Error("course was deleted by a non-owner")
	}

	if err := svc.DeleteCourse(context.Background(), created.ID, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := store.courses[created.ID]; ok {
		t.Error("course still present after owner delete")
	}
}

func TestListCoursesOnlyOwn(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{Subject: "s", Title: "a", Slug: "a"})
	svc.CreateCourse(context.Background(), 2, &dto.SaveCourseRequest{Subject: "s", Title: "b", Slug: "b"})

	list, err := svc.ListCourses(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(list.Courses) != 1 {
		t.Fatalf("len = %d, want 1", len(list.Courses))
	}
	if list.Courses[0].Slug != "a" {
		t.Errorf("slug = %q, want %q", list.Courses[0].Slug, "a")
	}
}

func TestUpdateCourseCannotChangeOwner(t *testing.T) {
	store := newFakeCourseStore()
	svc := NewCourseService(store)

	created, _ := svc.CreateCourse(context.Background(), 1, &dto.SaveCourseRequest{
		Subject: "s", Title: "t", Slug: "t",
	})

	resp, err := svc.UpdateCourse(context.Background(), created.ID, 1, &dto.SaveCourseRequest{
		Subject: "s2", Title: "t2", Slug: "t2",
	})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if resp.OwnerID != 1 {
		t.Errorf("owner = %d, want 1", resp.OwnerID)
	}
	if store.courses[created.ID].OwnerID != 1 {
		t.Errorf("stored owner = %d, want 1", store.courses[created.ID].OwnerID)
	}
}
