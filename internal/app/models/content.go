package models

import "time"

// ContentKind identifies which of the four item tables a content row points
// at. The set is closed; there is no dynamic registration.
type ContentKind string

const (
	KindText  ContentKind = "text"
	KindVideo ContentKind = "video"
	KindImage ContentKind = "image"
	KindFile  ContentKind = "file"
)

// kindInfo describes where a kind's items live and which column holds the
// kind-specific payload (text body, video URL, or stored file path).
type kindInfo struct {
	table         string
	payloadColumn string
}

var contentKinds = map[ContentKind]kindInfo{
	KindText:  {table: "text_items", payloadColumn: "body"},
	KindVideo: {table: "video_items", payloadColumn: "url"},
	KindImage: {table: "image_items", payloadColumn: "file_path"},
	KindFile:  {table: "file_items", payloadColumn: "file_path"},
}

// ParseContentKind resolves a kind name. Matching is exact and case
// sensitive: "Text", "VIDEO" or "" are all rejected.
func ParseContentKind(name string) (ContentKind, bool) {
	kind := ContentKind(name)
	if _, ok := contentKinds[kind]; !ok {
		return "", false
	}
	return kind, true
}

// Valid reports whether the kind is one of the four known kinds.
func (k ContentKind) Valid() bool {
	_, ok := contentKinds[k]
	return ok
}

// TableName returns the item table for the kind.
func (k ContentKind) TableName() string {
	return contentKinds[k].table
}

// PayloadColumn returns the column holding the kind-specific payload.
func (k ContentKind) PayloadColumn() string {
	return contentKinds[k].payloadColumn
}

// ContentKinds returns the known kinds, useful for validation messages.
func ContentKinds() []ContentKind {
	return []ContentKind{KindText, KindVideo, KindImage, KindFile}
}

// Content links a module to exactly one polymorphic item. Kind and ItemID are
// chosen at creation and immutable; SortOrder is scoped to the module.
type Content struct {
	ID        int64       `db:"id" json:"id"`
	ModuleID  int64       `db:"module_id" json:"moduleId"`
	Kind      ContentKind `db:"kind" json:"kind"`
	ItemID    int64       `db:"item_id" json:"itemId"`
	SortOrder int         `db:"sort_order" json:"order"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// ContentItem is the common shape shared by the four item tables. Payload
// carries the kind-specific column: body for text, url for video, file_path
// for image and file. Items carry their own owner, independent of the parent
// course's owner.
type ContentItem struct {
	ID        int64       `db:"id" json:"id"`
	OwnerID   int64       `db:"owner_id" json:"ownerId"`
	Kind      ContentKind `db:"-" json:"kind"`
	Title     string      `db:"title" json:"title"`
	Payload   string      `db:"-" json:"payload"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
