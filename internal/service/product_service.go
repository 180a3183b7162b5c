package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"productflow/internal/apperror"
	"productflow/internal/metrics"
	"productflow/internal/model"
	"productflow/internal/repository"
)

// Validation messages for the service-layer rules. Length bounds are not
// checked here: the store schema enforces them and those failures surface
// as 422 through the error middleware.
const (
	msgPositiveNumber    = "Value must be a positive number"
	msgNonNegativeNumber = "Value must be non-negative"
)

// ProductService enforces the business rules around product records and
// orchestrates repository calls. It is stateless and safe for concurrent use.
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new ProductService over the given repository.
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ListProducts returns all products ordered by creation time descending.
func (ps *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return ps.repo.FindAll(ctx)
}

// GetProduct returns the product with the given id or a 404-shaped error.
func (ps *ProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := ps.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound()
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct validates the payload, guards name uniqueness and inserts
// the record. The uniqueness pre-check and the insert are two separate
// store operations; the unique index on name is the real guarantee when
// two concurrent creates race past the check.
func (ps *ProductService) CreateProduct(ctx context.Context, data repository.ProductData) (*model.Product, error) {
	if err := validateProductData(data, false); err != nil {
		return nil, err
	}

	if data.Name != nil {
		exists, err := ps.repo.ExistsByName(ctx, *data.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.New(fmt.Sprintf("%s already exists", *data.Name), http.StatusConflict)
		}
	}

	product, err := ps.repo.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	metrics.ProductsCreated.Inc()
	return product, nil
}

// UpdateProduct validates the supplied fields and applies a partial update,
// returning the post-update record or a 404-shaped error.
func (ps *ProductService) UpdateProduct(ctx context.Context, id string, data repository.ProductData) (*model.Product, error) {
	if err := validateProductData(data, true); err != nil {
		return nil, err
	}

	product, err := ps.repo.Update(ctx, id, data)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound()
		}
		return nil, err
	}
	metrics.ProductsUpdated.Inc()
	return product, nil
}

// DeleteProduct removes the product with the given id.
func (ps *ProductService) DeleteProduct(ctx context.Context, id string) error {
	_, err := ps.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound()
		}
		return err
	}
	metrics.ProductsDeleted.Inc()
	return nil
}

// validateProductData applies the service-layer rules: all four fields must
// be present on create, and price/stock must be non-negative whenever
// supplied. Update payloads skip the required-fields check.
func validateProductData(data repository.ProductData, isUpdate bool) error {
	if !isUpdate {
		if data.Name == nil || data.Description == nil || data.Price == nil || data.Stock == nil {
			return apperror.New(apperror.MsgInvalidInput, http.StatusBadRequest)
		}
	}

	if data.Price != nil && *data.Price < 0 {
		return apperror.New(msgPositiveNumber, http.StatusBadRequest)
	}
	if data.Stock != nil && *data.Stock < 0 {
		return apperror.New(msgNonNegativeNumber, http.StatusBadRequest)
	}
	return nil
}
