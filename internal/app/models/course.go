package models

import "time"

// Course is the root of the ownership chain: modules and contents are
// authorized transitively through their course's owner. The owner is set at
// creation and never reassigned.
type Course struct {
	ID        int64     `db:"id" json:"id"`
	Subject   string    `db:"subject" json:"subject"`
	Title     string    `db:"title" json:"title"`
	Slug      string    `db:"slug" json:"slug"`
	Overview  string    `db:"overview" json:"overview"`
	OwnerID   int64     `db:"owner_id" json:"ownerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
