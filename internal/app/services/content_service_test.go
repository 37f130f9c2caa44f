package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
)

type fakeContentStore struct {
	nextLinkID int64
	nextItemID int64
	links      map[int64]*models.Content
	// keyed by kind then item id; each kind table has its own id space.
	items   map[models.ContentKind]map[int64]*models.ContentItem
	modules *fakeModuleStore
}

func newFakeContentStore(modules *fakeModuleStore) *fakeContentStore {
	items := make(map[models.ContentKind]map[int64]*models.ContentItem)
	for _, kind := range models.ContentKinds() {
		items[kind] = make(map[int64]*models.ContentItem)
	}
	return &fakeContentStore{
		nextLinkID: 1, nextItemID: 1,
		links: make(map[int64]*models.Content), items: items, modules: modules,
	}
}

func (f *fakeContentStore) linkOwner(link *models.Content) int64 {
	m, ok := f.modules.modules[link.ModuleID]
	if !ok {
		return 0
	}
	return f.modules.ownerOf(m)
}

func (f *fakeContentStore) ListByModule(_ context.Context, moduleID int64) ([]*models.Content, error) {
	out := make([]*models.Content, 0)
	for _, link := range f.links {
		if link.ModuleID == moduleID {
			copied := *link
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeContentStore) GetLinkOwned(_ context.Context, id, ownerID int64) (*models.Content, error) {
	link, ok := f.links[id]
	if !ok || f.linkOwner(link) != ownerID {
		return nil, apperrors.ErrContentNotFound
	}
	copied := *link
	return &copied, nil
}

func (f *fakeContentStore) GetItem(_ context.Context, kind models.ContentKind, itemID, ownerID int64) (*models.ContentItem, error) {
	item, ok := f.items[kind][itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, apperrors.ErrContentNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeContentStore) GetItems(_ context.Context, kind models.ContentKind, itemIDs []int64) (map[int64]*models.ContentItem, error) {
	out := make(map[int64]*models.ContentItem)
	for _, id := range itemIDs {
		if item, ok := f.items[kind][id]; ok {
			copied := *item
			out[id] = &copied
		}
	}
	return out, nil
}

func (f *fakeContentStore) CreateItem(_ context.Context, item *models.ContentItem) (int64, error) {
	id := f.nextItemID
	f.nextItemID++
	stored := *item
	stored.ID = id
	f.items[item.Kind][id] = &stored
	return id, nil
}

func (f *fakeContentStore) UpdateItem(_ context.Context, item *models.ContentItem) error {
	existing, ok := f.items[item.Kind][item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return apperrors.ErrContentNotFound
	}
	existing.Title = item.Title
	existing.Payload = item.Payload
	return nil
}

func (f *fakeContentStore) CreateLink(_ context.Context, moduleID int64, kind models.ContentKind, itemID int64) (int64, error) {
	maxOrder := 0
	for _, link := range f.links {
		if link.ModuleID == moduleID && link.SortOrder > maxOrder {
			maxOrder = link.SortOrder
		}
	}
	id := f.nextLinkID
	f.nextLinkID++
	f.links[id] = &models.Content{
		ID: id, ModuleID: moduleID, Kind: kind, ItemID: itemID, SortOrder: maxOrder + 1,
	}
	return id, nil
}

func (f *fakeContentStore) DeleteWithItem(_ context.Context, id, ownerID int64) (*models.Content, *models.ContentItem, error) {
	link, ok := f.links[id]
	if !ok || f.linkOwner(link) != ownerID {
		return nil, nil, apperrors.ErrContentNotFound
	}
	item, ok := f.items[link.Kind][link.ItemID]
	if !ok {
		return nil, nil, apperrors.ErrContentNotFound
	}
	delete(f.links, id)
	delete(f.items[link.Kind], link.ItemID)
	return link, item, nil
}

func (f *fakeContentStore) UpdateOrderOwned(_ context.Context, id, ownerID int64, order int) (bool, error) {
	link, ok := f.links[id]
	if !ok || f.linkOwner(link) != ownerID {
		return false, nil
	}
	link.SortOrder = order
	return true, nil
}

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) SaveFile(*multipart.FileHeader) (string, error) { return "", nil }
func (f *fakeStorage) SaveFileWithPath(*multipart.FileHeader, string) (string, error) {
	return "", nil
}
func (f *fakeStorage) DeleteFile(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func contentFixture(t *testing.T) (*fakeContentStore, *fakeStorage, ContentService, int64, int64) {
	t.Helper()
	courses := newFakeCourseStore()
	ownCourse, _ := courses.Create(context.Background(), &models.Course{OwnerID: 1, Slug: "mine"})
	otherCourse, _ := courses.Create(context.Background(), &models.Course{OwnerID: 2, Slug: "theirs"})
	modules := newFakeModuleStore(courses)
	ownModule := modules.add(ownCourse, "mine", 1)
	otherModule := modules.add(otherCourse, "theirs", 1)
	contents := newFakeContentStore(modules)
	storage := &fakeStorage{}
	return contents, storage, NewContentService(modules, contents, storage), ownModule.ID, otherModule.ID
}

func TestCreateContentVideoCreatesOneItemAndOneLink(t *testing.T) {
	contents, _, svc, ownModule, _ := contentFixture(t)

	resp, err := svc.CreateContent(context.Background(), ownModule, 1, "video", &dto.SaveContentRequest{
		Title: "Intro", URL: "https://videos.example.com/intro.mp4",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if len(contents.links) != 1 {
		t.Errorf("link count = %d, want 1", len(contents.links))
	}
	if len(contents.items[models.KindVideo]) != 1 {
		t.Errorf("video item count = %d, want 1", len(contents.items[models.KindVideo]))
	}
	if resp.URL != "https://videos.example.com/intro.mp4" {
		t.Errorf("url = %q", resp.URL)
	}
	item := contents.items[models.KindVideo][resp.ItemID]
	if item.OwnerID != 1 {
		t.Errorf("item owner = %d, want 1", item.OwnerID)
	}
}

func TestCreateContentAppendsAtEndOfOrdering(t *testing.T) {
	contents, _, svc, ownModule, _ := contentFixture(t)

	first, _ := svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "a", Text: "one"})
	second, _ := svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "b", Text: "two"})

	if contents.links[first.ID].SortOrder != 1 {
		t.Errorf("first order = %d, want 1", contents.links[first.ID].SortOrder)
	}
	if contents.links[second.ID].SortOrder != 2 {
		t.Errorf("second order = %d, want 2", contents.links[second.ID].SortOrder)
	}
}

func TestCreateContentUnknownKind(t *testing.T) {
	_, _, svc, ownModule, _ := contentFixture(t)

	for _, kind := range []string{"pdf", "Text", "VIDEO", "", "texts"} {
		_, err := svc.CreateContent(context.Background(), ownModule, 1, kind, &dto.SaveContentRequest{Title: "x", Text: "y"})
		if !errors.Is(err, apperrors.ErrContentKindUnknown) {
			t.Errorf("kind %q: err = %v, want ErrContentKindUnknown", kind, err)
		}
	}
}

func TestCreateContentCrossOwnerModuleIsNotFound(t *testing.T) {
	contents, _, svc, _, otherModule := contentFixture(t)

	_, err := svc.CreateContent(context.Background(), otherModule, 1, "text", &dto.SaveContentRequest{Title: "x", Text: "y"})
	if !errors.Is(err, apperrors.ErrModuleNotFound) {
		t.Fatalf("err = %v, want ErrModuleNotFound", err)
	}
	if len(contents.links) != 0 || len(contents.items[models.KindText]) != 0 {
		t.Error("cross-owner create left rows behind")
	}
}

func TestCreateContentValidatesPayloadPerKind(t *testing.T) {
	_, _, svc, ownModule, _ := contentFixture(t)

	cases := []struct {
		kind string
		req  dto.SaveContentRequest
	}{
		{"text", dto.SaveContentRequest{Title: "x"}},
		{"video", dto.SaveContentRequest{Title: "x"}},
		{"video", dto.SaveContentRequest{Title: "x", URL: "not a url"}},
		{"image", dto.SaveContentRequest{Title: "x"}},
		{"file", dto.SaveContentRequest{Title: "x"}},
	}
	for _, tc := range cases {
		_, err := svc.CreateContent(context.Background(), ownModule, 1, tc.kind, &tc.req)
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("kind %q req %+v: err = %v, want ErrValidationFailed", tc.kind, tc.req, err)
		}
	}
}

func TestUpdateContentEditsItemInPlace(t *testing.T) {
	contents, _, svc, ownModule, _ := contentFixture(t)

	created, _ := svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "old", Text: "old body"})

	_, err := svc.UpdateContent(context.Background(), ownModule, 1, created.ItemID, "text", &dto.SaveContentRequest{Title: "new", Text: "new body"})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if len(contents.links) != 1 {
		t.Errorf("link count = %d, want 1 (update must not append)", len(contents.links))
	}
	item := contents.items[models.KindText][created.ItemID]
	if item.Title != "new" || item.Payload != "new body" {
		t.Errorf("item = %q/%q, want new/new body", item.Title, item.Payload)
	}
}

func TestUpdateContentForeignItemIsNotFound(t *testing.T) {
	contents, _, svc, ownModule, _ := contentFixture(t)

	// Item owned by user 2, reachable module owned by user 1.
	foreignID, _ := contents.CreateItem(context.Background(), &models.ContentItem{
		OwnerID: 2, Kind: models.KindText, Title: "theirs", Payload: "body",
	})

	_, err := svc.UpdateContent(context.Background(), ownModule, 1, foreignID, "text", &dto.SaveContentRequest{Title: "x", Text: "y"})
	if !errors.Is(err, apperrors.ErrContentNotFound) {
		t.Errorf("err = %v, want ErrContentNotFound", err)
	}
	if contents.items[models.KindText][foreignID].Title != "theirs" {
		t.Error("foreign item was modified")
	}
}

func TestDeleteContentRemovesLinkAndItemAndStoredFile(t *testing.T) {
	contents, storage, svc, ownModule, _ := contentFixture(t)

	created, _ := svc.CreateContent(context.Background(), ownModule, 1, "file", &dto.SaveContentRequest{
		Title: "slides", FilePath: "uploads/slides.pdf",
	})

	if err := svc.DeleteContent(context.Background(), created.ID, 1); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if len(contents.links) != 0 {
		t.Error("link still present")
	}
	if len(contents.items[models.KindFile]) != 0 {
		t.Error("item still present")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "uploads/slides.pdf" {
		t.Errorf("deleted files = %v, want the stored path", storage.deleted)
	}
}

func TestDeleteContentCrossOwnerLeavesRowsIntact(t *testing.T) {
	contents, storage, svc, ownModule, _ := contentFixture(t)

	created, _ := svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "t", Text: "b"})

	if err := svc.DeleteContent(context.Background(), created.ID, 2); !errors.Is(err, apperrors.ErrContentNotFound) {
		t.Fatalf("err = %v, want ErrContentNotFound", err)
	}
	if len(contents.links) != 1 || len(contents.items[models.KindText]) != 1 {
		t.Error("cross-owner delete removed rows")
	}
	if len(storage.deleted) != 0 {
		t.Error("cross-owner delete touched storage")
	}
}

func TestReorderContentsSkipsUnownedRows(t *testing.T) {
	contents, _, svc, ownModule, otherModule := contentFixture(t)

	mine, _ := svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "m", Text: "b"})
	theirs, _ := svc.CreateContent(context.Background(), otherModule, 2, "text", &dto.SaveContentRequest{Title: "t", Text: "b"})

	resp, err := svc.ReorderContents(context.Background(), 1, map[int64]int{
		mine.ID:   7,
		theirs.ID: 9,
	})
	if err != nil {
		t.Fatalf("ReorderContents: %v", err)
	}
	if resp.Saved != "OK" {
		t.Errorf("saved = %q, want OK", resp.Saved)
	}
	if contents.links[mine.ID].SortOrder != 7 {
		t.Errorf("owned order = %d, want 7", contents.links[mine.ID].SortOrder)
	}
	if contents.links[theirs.ID].SortOrder != 1 {
		t.Errorf("unowned order = %d, want untouched 1", contents.links[theirs.ID].SortOrder)
	}
}

func TestListContentsJoinsItems(t *testing.T) {
	_, _, svc, ownModule, _ := contentFixture(t)

	svc.CreateContent(context.Background(), ownModule, 1, "text", &dto.SaveContentRequest{Title: "a", Text: "body"})
	svc.CreateContent(context.Background(), ownModule, 1, "video", &dto.SaveContentRequest{Title: "b", URL: "https://v.example.com/x.mp4"})

	list, err := svc.ListContents(context.Background(), ownModule, 1)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}
	if len(list.Contents) != 2 {
		t.Fatalf("len = %d, want 2", len(list.Contents))
	}
	for _, c := range list.Contents {
		switch c.Kind {
		case "text":
			if c.Text != "body" {
				t.Errorf("text payload = %q", c.Text)
			}
		case "video":
			if c.URL != "https://v.example.com/x.mp4" {
				t.Errorf("video payload = %q", c.URL)
			}
		}
	}
}
