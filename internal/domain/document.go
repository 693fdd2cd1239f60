package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document holds the system-assigned fields shared by every stored entity.
// Entities embed it inline; the store owns all three fields.
type Document struct {
	ID        bson.ObjectID `bson:"_id"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// Meta exposes the embedded system fields to generic stores.
func (d *Document) Meta() *Document { return d }

// Hex returns the identifier in its string form, or "" before creation.
func (d Document) Hex() string {
	if d.ID.IsZero() {
		return ""
	}
	return d.ID.Hex()
}
