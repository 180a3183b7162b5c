package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product record as persisted by the store. ID and
// timestamps are assigned by the database, never by the application.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	Stock       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
