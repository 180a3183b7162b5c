package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"productflow/internal/apperror"
	"productflow/internal/http/response"
	"productflow/internal/model"
	"productflow/internal/repository"
)

// ProductService is the service surface the controller depends on.
type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, data repository.ProductData) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, data repository.ProductData) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductController handles HTTP requests for product operations. Errors
// are recorded on the context and written by the error middleware; each
// handler calls exactly one service operation.
type ProductController struct {
	productService ProductService
}

// NewProductController creates a new ProductController with the given product service.
func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       float64 `json:"stock"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ListProducts handles the HTTP GET request for listing all products.
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	productResponses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		productResponses = append(productResponses, toProductResponse(&product))
	}
	response.Send(c, http.StatusOK, response.MsgFetched, productResponses)
}

// GetProduct handles the HTTP GET request for fetching a product by ID.
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Send(c, http.StatusOK, response.MsgFetched, toProductResponse(product))
}

// CreateProduct handles the HTTP POST request for creating a new product.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var data repository.ProductData
	if err := c.ShouldBindJSON(&data); err != nil {
		_ = c.Error(apperror.New(apperror.MsgInvalidInput, http.StatusBadRequest))
		c.Abort()
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), data)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Send(c, http.StatusCreated, response.MsgCreated, toProductResponse(product))
}

// UpdateProduct handles the HTTP PUT request for partially updating a product.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var data repository.ProductData
	if err := c.ShouldBindJSON(&data); err != nil {
		_ = c.Error(apperror.New(apperror.MsgInvalidInput, http.StatusBadRequest))
		c.Abort()
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	response.Send(c, http.StatusOK, response.MsgUpdated, toProductResponse(product))
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.Status(http.StatusNoContent)
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.Format(time.RFC3339),
	}
}
