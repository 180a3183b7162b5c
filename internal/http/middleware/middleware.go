package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"productflow/internal/apperror"
	"productflow/internal/config"
	"productflow/internal/http/response"
)

// Messages produced while classifying persistence-layer errors.
const (
	msgInvalidIDFormat  = "Invalid ID format"
	msgValidationFailed = "Validation failed"
	idField             = "id"
)

// constraintMessages maps the named schema constraints from the products
// migration to user-facing field messages for 422 responses.
var constraintMessages = map[string]string{
	"products_name_length":        "Product name must be between 3 and 100 characters long",
	"products_description_length": "Product description must be between 10 and 500 characters long",
	"products_price_non_negative": "Price must be a positive number",
	"products_stock_non_negative": "Stock must be non-negative",
}

// Errors is the single choke point converting any error recorded during the
// request into the wire error envelope. Handlers and the layers below never
// write error responses themselves.
func Errors(conf *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		appErr := classify(err)
		if !appErr.IsOperational {
			slog.Error("unhandled error",
				slog.Any("err", err),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)
		}

		stack := ""
		if !conf.IsProduction() {
			stack = stackText(err)
		}
		response.SendError(c, appErr.StatusCode, appErr.Message, stack)
	}
}

// classify applies the error taxonomy in fixed order: structured AppError,
// store cast error, store schema validation error, store duplicate key,
// then the non-operational catch-all.
func classify(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation:
			return apperror.New(fmt.Sprintf("%s: %s", msgInvalidIDFormat, idField), http.StatusBadRequest)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperror.New(fmt.Sprintf("%s: %s", msgValidationFailed, schemaMessage(pgErr)), http.StatusUnprocessableEntity)
		case pgerrcode.UniqueViolation:
			return apperror.New(fmt.Sprintf("%s already exists", constraintField(pgErr.ConstraintName)), http.StatusConflict)
		}
	}

	return apperror.NewInternal(apperror.MsgInternalServer)
}

func schemaMessage(pgErr *pgconn.PgError) string {
	if msg, ok := constraintMessages[pgErr.ConstraintName]; ok {
		return msg
	}
	if pgErr.Code == pgerrcode.NotNullViolation && pgErr.ColumnName != "" {
		return fmt.Sprintf("Product %s is required", pgErr.ColumnName)
	}
	return pgErr.Message
}

// constraintField extracts the offending field from a unique constraint
// name such as "products_name_key".
func constraintField(constraint string) string {
	field := strings.TrimPrefix(constraint, "products_")
	field = strings.TrimSuffix(field, "_key")
	if field == "" {
		return constraint
	}
	return field
}

func stackText(err error) string {
	var pErr *panicError
	if errors.As(err, &pErr) {
		return fmt.Sprintf("%v\n%s", pErr.value, pErr.stack)
	}
	return err.Error()
}

// panicError carries a recovered panic value and its stack through the
// error chain so the normalizer can expose it outside production.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Recovery converts panics into an error on the context instead of crashing
// the server. It must be registered after Errors so the recovered panic is
// still normalized into the 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				_ = c.Error(&panicError{value: v, stack: debug.Stack()})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// CORS mirrors the permissive any-origin policy of the API edge.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLogger logs every request through the default slog logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
