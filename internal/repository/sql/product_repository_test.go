package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productflow/internal/repository"
)

var productCols = []string{"id", "name", "description", "price", "stock", "created_at", "updated_at"}

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

func TestProductRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		data := repository.ProductData{
			Name:        strPtr("Wireless Mouse"),
			Description: strPtr("High-precision wireless mouse with ergonomic design"),
			Price:       numPtr(29.99),
			Stock:       numPtr(100),
		}

		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productCols).
			AddRow(id.String(), "Wireless Mouse", "High-precision wireless mouse with ergonomic design", 29.99, 100.0, now, now)

		mock.ExpectPrepare("INSERT INTO products").
			ExpectQuery().
			WithArgs(*data.Name, *data.Description, *data.Price, *data.Stock).
			WillReturnRows(rows)

		product, err := repo.Create(ctx, data)
		require.NoError(t, err)

		assert.Equal(t, id, product.ID)
		assert.Equal(t, "Wireless Mouse", product.Name)
		assert.Equal(t, float64(100), product.Stock)
		assert.False(t, product.CreatedAt.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate key error passes through unclassified", func(t *testing.T) {
		data := repository.ProductData{
			Name:        strPtr("Wireless Mouse"),
			Description: strPtr("High-precision wireless mouse with ergonomic design"),
			Price:       numPtr(29.99),
			Stock:       numPtr(100),
		}

		mock.ExpectPrepare("INSERT INTO products").
			ExpectQuery().
			WithArgs(*data.Name, *data.Description, *data.Price, *data.Stock).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "products_name_key"})

		_, err := repo.Create(ctx, data)

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, pgerrcode.UniqueViolation, pgErr.Code)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful find", func(t *testing.T) {
		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productCols).
			AddRow(id.String(), "Wireless Mouse", "High-precision wireless mouse with ergonomic design", 29.99, 100.0, now, now)

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnRows(rows)

		product, err := repo.FindByID(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, id, product.ID)
		assert.Equal(t, "Wireless Mouse", product.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to sentinel", func(t *testing.T) {
		id := uuid.New().String()

		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed id surfaces the store cast error", func(t *testing.T) {
		mock.ExpectPrepare("SELECT (.+) FROM products WHERE id = \\$1").
			ExpectQuery().
			WithArgs("not-a-uuid").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})

		_, err := repo.FindByID(ctx, "not-a-uuid")

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, pgerrcode.InvalidTextRepresentation, pgErr.Code)
		assert.False(t, errors.Is(err, repository.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows(productCols).
		AddRow(uuid.NewString(), "Newer", "The most recently created product", 2.0, 1.0, newer, newer).
		AddRow(uuid.NewString(), "Older", "A product created an hour earlier", 1.0, 1.0, older, older)

	mock.ExpectPrepare("SELECT (.+) FROM products ORDER BY created_at DESC, id DESC").
		ExpectQuery().
		WillReturnRows(rows)

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Newer", products[0].Name)
	assert.Equal(t, "Older", products[1].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("partial update sets only supplied fields", func(t *testing.T) {
		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productCols).
			AddRow(id.String(), "Wireless Mouse", "High-precision wireless mouse with ergonomic design", 34.99, 100.0, now.Add(-time.Hour), now)

		mock.ExpectPrepare(`UPDATE products SET price = \$1, updated_at = now\(\) WHERE id = \$2 RETURNING`).
			ExpectQuery().
			WithArgs(34.99, id.String()).
			WillReturnRows(rows)

		product, err := repo.Update(ctx, id.String(), repository.ProductData{Price: numPtr(34.99)})
		require.NoError(t, err)
		assert.Equal(t, 34.99, product.Price)
		assert.True(t, product.UpdatedAt.After(product.CreatedAt))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all fields supplied", func(t *testing.T) {
		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productCols).
			AddRow(id.String(), "Wireless Mouse Pro", "Updated description for the wireless mouse", 34.99, 150.0, now, now)

		mock.ExpectPrepare(`UPDATE products SET name = btrim\(\$1\), description = btrim\(\$2\), price = \$3, stock = \$4, updated_at = now\(\) WHERE id = \$5 RETURNING`).
			ExpectQuery().
			WithArgs("Wireless Mouse Pro", "Updated description for the wireless mouse", 34.99, 150.0, id.String()).
			WillReturnRows(rows)

		product, err := repo.Update(ctx, id.String(), repository.ProductData{
			Name:        strPtr("Wireless Mouse Pro"),
			Description: strPtr("Updated description for the wireless mouse"),
			Price:       numPtr(34.99),
			Stock:       numPtr(150),
		})
		require.NoError(t, err)
		assert.Equal(t, "Wireless Mouse Pro", product.Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no match maps to sentinel", func(t *testing.T) {
		id := uuid.New().String()

		mock.ExpectPrepare(`UPDATE products SET price = \$1, updated_at = now\(\) WHERE id = \$2 RETURNING`).
			ExpectQuery().
			WithArgs(34.99, id).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.Update(ctx, id, repository.ProductData{Price: numPtr(34.99)})
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("schema violation passes through unclassified", func(t *testing.T) {
		id := uuid.New().String()

		mock.ExpectPrepare(`UPDATE products SET description = btrim\(\$1\), updated_at = now\(\) WHERE id = \$2 RETURNING`).
			ExpectQuery().
			WithArgs("short", id).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "products_description_length"})

		_, err := repo.Update(ctx, id, repository.ProductData{Description: strPtr("short")})

		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		assert.Equal(t, pgerrcode.CheckViolation, pgErr.Code)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("successful delete returns the removed record", func(t *testing.T) {
		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(productCols).
			AddRow(id.String(), "Wireless Mouse", "High-precision wireless mouse with ergonomic design", 29.99, 100.0, now, now)

		mock.ExpectPrepare(`DELETE FROM products WHERE id = \$1 RETURNING`).
			ExpectQuery().
			WithArgs(id.String()).
			WillReturnRows(rows)

		product, err := repo.Delete(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, id, product.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no match maps to sentinel", func(t *testing.T) {
		id := uuid.New().String()

		mock.ExpectPrepare(`DELETE FROM products WHERE id = \$1 RETURNING`).
			ExpectQuery().
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_ExistsByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db)
	ctx := context.Background()

	t.Run("existing name", func(t *testing.T) {
		mock.ExpectPrepare("SELECT EXISTS").
			ExpectQuery().
			WithArgs("Wireless Mouse").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsByName(ctx, "Wireless Mouse")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown name", func(t *testing.T) {
		mock.ExpectPrepare("SELECT EXISTS").
			ExpectQuery().
			WithArgs("Unknown").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByName(ctx, "Unknown")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
