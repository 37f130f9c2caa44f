package services

import (
	"context"
	"errors"
	"testing"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/app/repositories"
	"github.com/emre/educore/internal/pkg/apperrors"
)

type fakeModuleStore struct {
	nextID int64
	// module id -> module; course ownership comes from the course store.
	modules map[int64]*models.Module
	courses *fakeCourseStore
}

func newFakeModuleStore(courses *fakeCourseStore) *fakeModuleStore {
	return &fakeModuleStore{nextID: 1, modules: make(map[int64]*models.Module), courses: courses}
}

func (f *fakeModuleStore) add(courseID int64, title string, order int) *models.Module {
	id := f.nextID
	f.nextID++
	m := &models.Module{ID: id, CourseID: courseID, Title: title, SortOrder: order}
	f.modules[id] = m
	return m
}

func (f *fakeModuleStore) ownerOf(m *models.Module) int64 {
	course, ok := f.courses.courses[m.CourseID]
	if !ok {
		return 0
	}
	return course.OwnerID
}

func (f *fakeModuleStore) GetByIDOwned(_ context.Context, id, ownerID int64) (*models.Module, error) {
	m, ok := f.modules[id]
	if !ok || f.ownerOf(m) != ownerID {
		return nil, apperrors.ErrModuleNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeModuleStore) ListByCourse(_ context.Context, courseID int64) ([]*models.Module, error) {
	out := make([]*models.Module, 0)
	for _, m := range f.modules {
		if m.CourseID == courseID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeModuleStore) ApplyFormset(_ context.Context, courseID int64, changes []repositories.ModuleChange) error {
	for _, change := range changes {
		switch {
		case change.Delete:
			m, ok := f.modules[change.ID]
			if !ok || m.CourseID != courseID {
				return apperrors.ErrModuleNotFound
			}
			delete(f.modules, change.ID)
		case change.ID == 0:
			f.add(courseID, change.Title, change.SortOrder)
		default:
			m, ok := f.modules[change.ID]
			if !ok || m.CourseID != courseID {
				return apperrors.ErrModuleNotFound
			}
			m.Title = change.Title
			m.Description = change.Description
			m.SortOrder = change.SortOrder
		}
	}
	return nil
}

func (f *fakeModuleStore) UpdateOrderOwned(_ context.Context, id, ownerID int64, order int) (bool, error) {
	m, ok := f.modules[id]
	if !ok || f.ownerOf(m) != ownerID {
		return false, nil
	}
	m.SortOrder = order
	return true, nil
}

func moduleFixture(t *testing.T) (*fakeCourseStore, *fakeModuleStore, ModuleService, int64, int64) {
	t.Helper()
	courses := newFakeCourseStore()
	ownID, _ := courses.Create(context.Background(), &models.Course{OwnerID: 1, Slug: "mine"})
	otherID, _ := courses.Create(context.Background(), &models.Course{OwnerID: 2, Slug: "theirs"})
	modules := newFakeModuleStore(courses)
	return courses, modules, NewModuleService(courses, modules), ownID, otherID
}

func TestListModulesCrossOwnerCourseIsNotFound(t *testing.T) {
	_, modules, svc, _, otherCourse := moduleFixture(t)
	modules.add(otherCourse, "hidden", 1)

	_, err := svc.ListModules(context.Background(), otherCourse, 1)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestUpdateModulesFormsetCreatesUpdatesDeletes(t *testing.T) {
	_, modules, svc, ownCourse, _ := moduleFixture(t)
	existing := modules.add(ownCourse, "old title", 1)
	doomed := modules.add(ownCourse, "doomed", 2)

	_, err := svc.UpdateModules(context.Background(), ownCourse, 1, &dto.ModuleFormsetRequest{
		Modules: []dto.ModuleFormEntry{
			{ID: existing.ID, Title: "new title", Order: 1},
			{ID: doomed.ID, Delete: true},
			{Title: "brand new", Order: 2},
		},
	})
	if err != nil {
		t.Fatalf("UpdateModules: %v", err)
	}

	if modules.modules[existing.ID].Title != "new title" {
		t.Errorf("title = %q, want %q", modules.modules[existing.ID].Title, "new title")
	}
	if _, ok := modules.modules[doomed.ID]; ok {
		t.Error("flagged module not deleted")
	}
	listed, _ := svc.ListModules(context.Background(), ownCourse, 1)
	if len(listed.Modules) != 2 {
		t.Errorf("module count = %d, want 2", len(listed.Modules))
	}
}

func TestUpdateModulesCrossOwnerCourseIsNotFound(t *testing.T) {
	_, _, svc, _, otherCourse := moduleFixture(t)

	_, err := svc.UpdateModules(context.Background(), otherCourse, 1, &dto.ModuleFormsetRequest{
		Modules: []dto.ModuleFormEntry{{Title: "x", Order: 1}},
	})
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestReorderModulesSkipsUnownedRows(t *testing.T) {
	_, modules, svc, ownCourse, otherCourse := moduleFixture(t)
	mine := modules.add(ownCourse, "mine", 1)
	theirs := modules.add(otherCourse, "theirs", 1)

	resp, err := svc.ReorderModules(context.Background(), 1, map[int64]int{
		mine.ID:   5,
		theirs.ID: 9,
		424242:    3,
	})
	if err != nil {
		t.Fatalf("ReorderModules: %v", err)
	}
	if resp.Saved != "OK" {
		t.Errorf("saved = %q, want OK", resp.Saved)
	}
	if modules.modules[mine.ID].SortOrder != 5 {
		t.Errorf("owned order = %d, want 5", modules.modules[mine.ID].SortOrder)
	}
	if modules.modules[theirs.ID].SortOrder != 1 {
		t.Errorf("unowned order = %d, want untouched 1", modules.modules[theirs.ID].SortOrder)
	}
}

func TestReorderModulesAcksEmptyBatch(t *testing.T) {
	_, _, svc, _, _ := moduleFixture(t)

	resp, err := svc.ReorderModules(context.Background(), 1, map[int64]int{})
	if err != nil {
		t.Fatalf("ReorderModules: %v", err)
	}
	if resp.Saved != "OK" {
		t.Errorf("saved = %q, want OK", resp.Saved)
	}
}
