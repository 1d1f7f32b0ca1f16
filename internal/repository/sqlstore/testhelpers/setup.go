package testhelpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/repository/sqlstore"
)

// TestDB is a record store prepared for tests.
type TestDB struct {
	Store  *sqlstore.Store
	Logger *zap.Logger
}

// DB exposes the underlying connection for fixtures.
func (db *TestDB) DB() *sqlx.DB {
	return db.Store.DB
}

// SetupSQLite opens a private in-memory store with an empty incident table.
func SetupSQLite(t *testing.T) *TestDB {
	t.Helper()

	store, err := sqlstore.NewSQLite(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := CreateIncidentTable(store.DB); err != nil {
		t.Fatalf("Failed to create incident table: %v", err)
	}

	return &TestDB{Store: store, Logger: zap.NewNop()}
}

// SetupBareSQLite opens an in-memory store without any tables.
func SetupBareSQLite(t *testing.T) *TestDB {
	t.Helper()

	store, err := sqlstore.NewSQLite(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return &TestDB{Store: store, Logger: zap.NewNop()}
}

// SetupPostgres connects to the PostgreSQL test database described by the
// TEST_DB_* variables and recreates the incident table. The test is skipped
// when TEST_DB_HOST is unset.
func SetupPostgres(t *testing.T) *TestDB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping PostgreSQL tests")
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("TEST_DB_PORT", "5433"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "hotspots_test"),
		getEnv("TEST_DB_SSLMODE", "disable"),
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	var err error
	maxRetries := 5
	retryDelay := 500 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}
	if err != nil {
		t.Fatalf("Failed to connect to test database after %d attempts: %v", maxRetries, err)
	}

	store := sqlstore.NewStoreForTest(db, zap.NewNop())
	t.Cleanup(func() {
		_ = DropIncidentTable(db)
		_ = store.Close()
	})

	if err := DropIncidentTable(db); err != nil {
		t.Fatalf("Failed to drop incident table: %v", err)
	}
	if err := CreateIncidentTable(db); err != nil {
		t.Fatalf("Failed to create incident table: %v", err)
	}

	return &TestDB{Store: store, Logger: zap.NewNop()}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
