package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"productflow/internal/model"
	"productflow/internal/repository"
)

const productColumns = "id, name, description, price, stock, created_at, updated_at"

// ProductRepository implements repository.ProductRepository on PostgreSQL.
//
// Identifier parameters are bound as raw strings: the store performs the
// uuid cast, so a malformed id comes back as an invalid-text-representation
// error instead of being rejected here. Name and description are trimmed in
// SQL so the schema length checks apply to the trimmed value.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll retrieves every product, newest first.
func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product by id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return product, nil
}

// Create inserts a new product. The store assigns id and timestamps and
// enforces the schema constraints (lengths, signs, name uniqueness).
func (r *ProductRepository) Create(ctx context.Context, data repository.ProductData) (*model.Product, error) {
	query := `INSERT INTO products (name, description, price, stock)
	          VALUES (btrim($1), btrim($2), $3, $4)
	          RETURNING ` + productColumns

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, data.Name, data.Description, data.Price, data.Stock))
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return product, nil
}

// Update applies only the supplied fields and refreshes updated_at. The
// schema constraints are re-checked by the store on the new values.
func (r *ProductRepository) Update(ctx context.Context, id string, data repository.ProductData) (*model.Product, error) {
	var (
		assignments []string
		args        []any
	)
	next := func() int { return len(args) + 1 }

	if data.Name != nil {
		assignments = append(assignments, fmt.Sprintf("name = btrim($%d)", next()))
		args = append(args, *data.Name)
	}
	if data.Description != nil {
		assignments = append(assignments, fmt.Sprintf("description = btrim($%d)", next()))
		args = append(args, *data.Description)
	}
	if data.Price != nil {
		assignments = append(assignments, fmt.Sprintf("price = $%d", next()))
		args = append(args, *data.Price)
	}
	if data.Stock != nil {
		assignments = append(assignments, fmt.Sprintf("stock = $%d", next()))
		args = append(args, *data.Stock)
	}
	assignments = append(assignments, "updated_at = now()")

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), next(), productColumns)
	args = append(args, id)

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// Delete removes a product by id and returns the removed record.
func (r *ProductRepository) Delete(ctx context.Context, id string) (*model.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return product, nil
}

// ExistsByName reports whether a product with exactly that name exists.
func (r *ProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to prepare exists statement: %w", err)
	}
	defer stmt.Close()

	var exists bool
	if err := stmt.QueryRowContext(ctx, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query product existence: %w", err)
	}
	return exists, nil
}
