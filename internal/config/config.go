package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Hotspot  HotspotConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	RadiusSessionTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
	PollInterval  time.Duration
}

// HotspotConfig holds analysis defaults and request bounds.
type HotspotConfig struct {
	DefaultCenterLat   float64
	DefaultCenterLon   float64
	DefaultRadiusMiles float64
	MaxTopK            int
	MaxPageSize        int
	FacetLimit         int
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory underneath it.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			ReadTimeout:  time.Duration(v.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("API_WRITE_TIMEOUT")) * time.Second,
			CORSOrigins:  v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			SQLitePath:      v.GetString("DB_SQLITE_PATH"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:         v.GetString("REDIS_HOST"),
			Port:         v.GetInt("REDIS_PORT"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout:  time.Duration(v.GetInt("REDIS_DIAL_TIMEOUT")) * time.Millisecond,
			ReadTimeout:  time.Duration(v.GetInt("REDIS_READ_TIMEOUT")) * time.Millisecond,
			WriteTimeout: time.Duration(v.GetInt("REDIS_WRITE_TIMEOUT")) * time.Millisecond,
		},
		Cache: CacheConfig{
			RadiusSessionTTL: time.Duration(v.GetInt("RADIUS_SESSION_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
			PollInterval:  time.Duration(v.GetInt("WORKER_POLL_INTERVAL")) * time.Millisecond,
		},
		Hotspot: HotspotConfig{
			DefaultCenterLat:   v.GetFloat64("HOTSPOT_DEFAULT_CENTER_LAT"),
			DefaultCenterLon:   v.GetFloat64("HOTSPOT_DEFAULT_CENTER_LON"),
			DefaultRadiusMiles: v.GetFloat64("HOTSPOT_DEFAULT_RADIUS_MILES"),
			MaxTopK:            v.GetInt("HOTSPOT_MAX_TOP_K"),
			MaxPageSize:        v.GetInt("HOTSPOT_MAX_PAGE_SIZE"),
			FacetLimit:         v.GetInt("HOTSPOT_FACET_LIMIT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_READ_TIMEOUT", 30)
	v.SetDefault("API_WRITE_TIMEOUT", 60)
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173,http://localhost:8501")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "hotspots.db")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 2000)
	v.SetDefault("REDIS_READ_TIMEOUT", 1000)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 1000)

	v.SetDefault("RADIUS_SESSION_TTL", 24*60*60)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_CONSUMER_GROUP", "facet-refresh-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 10)
	v.SetDefault("WORKER_POLL_INTERVAL", 500)

	v.SetDefault("HOTSPOT_DEFAULT_CENTER_LAT", 51.5074)
	v.SetDefault("HOTSPOT_DEFAULT_CENTER_LON", -0.1278)
	v.SetDefault("HOTSPOT_DEFAULT_RADIUS_MILES", 10.0)
	v.SetDefault("HOTSPOT_MAX_TOP_K", 200)
	v.SetDefault("HOTSPOT_MAX_PAGE_SIZE", 500)
	v.SetDefault("HOTSPOT_FACET_LIMIT", 30)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// Validate rejects settings the services cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Hotspot.MaxTopK <= 0 {
		return fmt.Errorf("HOTSPOT_MAX_TOP_K must be positive")
	}
	if c.Hotspot.MaxPageSize <= 0 {
		return fmt.Errorf("HOTSPOT_MAX_PAGE_SIZE must be positive")
	}
	if c.Hotspot.FacetLimit <= 0 {
		return fmt.Errorf("HOTSPOT_FACET_LIMIT must be positive")
	}
	if c.Worker.BatchSize <= 0 {
		return fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
