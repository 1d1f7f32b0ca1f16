package sqlstore

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/hotspot-explorer/internal/config"
	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/domain/repository"
)

const (
	driverPgx    = "pgx"
	driverSQLite = "sqlite"

	pingTimeout = 5 * time.Second
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

// Store - хранилище записей на PostgreSQL или SQLite.
type Store struct {
	*sqlx.DB
	logger *zap.Logger
}

var _ repository.RecordStore = (*Store)(nil)

// New открывает хранилище, выбранное cfg.Driver.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg.SQLitePath, logger)
	case config.DriverPostgres, "":
		return NewPostgres(cfg, logger)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Open подключается по DSN: путь к файлу для sqlite, строка подключения
// или URL для postgres.
func Open(driver, dsn string, logger *zap.Logger) (*Store, error) {
	switch driver {
	case config.DriverSQLite:
		return NewSQLite(dsn, logger)
	case config.DriverPostgres:
		db, err := sqlx.Open(driverPgx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := ping(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("PostgreSQL connected")
		return &Store{DB: db, logger: logger}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// NewPostgres создает новое подключение к PostgreSQL
func NewPostgres(cfg *config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Open(driverPgx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
	)

	return &Store{DB: db, logger: logger}, nil
}

// NewSQLite открывает встроенное хранилище. ":memory:" дает отдельную базу,
// которая живет столько же, сколько хранилище.
func NewSQLite(path string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Open(driverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// every new connection to :memory: would see an empty database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := ping(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	logger.Info("SQLite opened", zap.String("path", path))

	return &Store{DB: db, logger: logger}, nil
}

func ping(db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Execute подставляет плейсхолдеры драйвера вместо '?', выполняет запрос
// и возвращает все строки.
func (s *Store) Execute(ctx context.Context, query string, args ...interface{}) (*domain.ResultSet, error) {
	rows, err := s.QueryxContext(ctx, s.Rebind(query), args...)
	if err != nil {
		s.logger.Error("Query failed", zap.String("query", query), zap.Error(err))
		return nil, eris.Wrapf(err, "execute query on %s", s.DriverName())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "read result columns")
	}

	rs := &domain.ResultSet{Columns: columns}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, eris.Wrap(err, "scan result row")
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		s.logger.Error("Query iteration failed", zap.String("query", query), zap.Error(err))
		return nil, eris.Wrap(err, "iterate result rows")
	}

	return rs, nil
}

// TableColumns возвращает колонки таблицы в текущей схеме. Для отсутствующей
// таблицы возвращается пустой список, а не ошибка.
func (s *Store) TableColumns(ctx context.Context, table string) ([]string, error) {
	var query string
	if s.IsSQLite() {
		query = `SELECT name FROM pragma_table_info(?) ORDER BY cid`
	} else {
		query = `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ?
			ORDER BY ordinal_position`
	}

	var columns []string
	if err := s.SelectContext(ctx, &columns, s.Rebind(query), table); err != nil {
		return nil, eris.Wrapf(err, "list columns of %s", table)
	}
	return columns, nil
}

// IsSQLite сообщает, работает ли хранилище на встроенном движке.
func (s *Store) IsSQLite() bool {
	return s.DriverName() == driverSQLite
}

// Close закрывает подключение к БД
func (s *Store) Close() error {
	s.logger.Info("Closing record store", zap.String("driver", s.DriverName()))
	return s.DB.Close()
}

// Health проверяет подключение к БД
func (s *Store) Health(ctx context.Context) error {
	return s.PingContext(ctx)
}

// NewStoreForTest wraps an already opened database.
func NewStoreForTest(db *sqlx.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		DB:     db,
		logger: logger,
	}
}
