package models

import "time"

// Module is a section within a course, ordered by SortOrder. It carries no
// owner of its own; ownership is inferred from the parent course.
type Module struct {
	ID          int64     `db:"id" json:"id"`
	CourseID    int64     `db:"course_id" json:"courseId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	SortOrder   int       `db:"sort_order" json:"order"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
