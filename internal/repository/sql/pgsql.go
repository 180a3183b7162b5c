package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"productflow/internal/config"
)

const (
	maxConnectAttempts = 5
	connectRetryDelay  = 5 * time.Second
	connectTimeout     = 10 * time.Second
)

// ConnState describes the lifecycle state of the store connection.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Manager owns the store connection lifecycle. It is created disconnected,
// moves through connecting to connected during Open, and back to
// disconnected on Close or when Open exhausts its retry budget. The pool is
// shared by every repository; loss of the underlying connection after
// startup is not repaired here, failing store calls surface through the
// error middleware instead.
type Manager struct {
	dsn   string
	db    *sql.DB
	state atomic.Int32
}

// NewManager creates a disconnected Manager for the given store settings.
func NewManager(dbConf config.DB) (*Manager, error) {
	dsn, err := dbConf.DSN()
	if err != nil {
		return nil, err
	}
	return &Manager{dsn: dsn}, nil
}

// State returns the current connection lifecycle state.
func (m *Manager) State() ConnState {
	return ConnState(m.state.Load())
}

// DB returns the connection pool. Valid only after a successful Open.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Open establishes the store connection with a bounded fixed-delay retry
// and runs pending migrations. The process must refuse to start when the
// retry budget is exhausted.
func (m *Manager) Open(ctx context.Context) error {
	if m.State() == StateConnected {
		return nil
	}
	m.state.Store(int32(StateConnecting))

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		db, err := m.connect(ctx)
		if err == nil {
			m.db = db
			m.state.Store(int32(StateConnected))
			slog.Info("store connection established", slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		slog.Error("store connection attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxConnectAttempts),
			slog.Any("err", err),
		)
		if attempt == maxConnectAttempts {
			break
		}

		select {
		case <-ctx.Done():
			m.state.Store(int32(StateDisconnected))
			return fmt.Errorf("store connection aborted: %w", ctx.Err())
		case <-time.After(connectRetryDelay):
		}
	}

	m.state.Store(int32(StateDisconnected))
	return fmt.Errorf("database connection failed: %w", lastErr)
}

func (m *Manager) connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate applies pending schema migrations from the migrations directory.
func (m *Manager) Migrate() error {
	driver, err := postgres.WithInstance(m.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	mig, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the pool and moves the manager back to disconnected.
func (m *Manager) Close() error {
	m.state.Store(int32(StateDisconnected))
	if m.db == nil {
		return nil
	}
	slog.Info("store connection closed")
	return m.db.Close()
}
