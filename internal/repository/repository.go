// Package repository defines the data-access contract for product records.
package repository

import (
	"context"
	"errors"

	"productflow/internal/model"
)

// ErrNotFound is the absent-marker returned when no record matches the
// given identifier. Callers translate it into a 404-shaped error.
var ErrNotFound = errors.New("record not found")

// ProductData carries a partial product payload. Pointer fields distinguish
// "absent" from a supplied zero value, which matters for create-mode
// validation and for partial updates.
type ProductData struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *float64 `json:"stock"`
}

// ProductRepository manages product records in the store. Identifier
// arguments are raw strings: a malformed id is passed through to the store,
// whose cast failure is classified by the error-normalizing middleware.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, data ProductData) (*model.Product, error)
	Update(ctx context.Context, id string, data ProductData) (*model.Product, error)
	Delete(ctx context.Context, id string) (*model.Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
