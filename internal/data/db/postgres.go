package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

// Config selects the SQL backend. Postgres is the production store; sqlite
// serves local development and the admin CLI against a file.
type Config struct {
	Driver     string `koanf:"driver"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"sslmode"`
	SQLitePath string `koanf:"sqlitepath"`
	MaxOpen    int    `koanf:"maxopen"`
	MaxIdle    int    `koanf:"maxidle"`
}

func (c Config) PostgresDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, sslMode)
}

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(cfg Config, logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "postgres":
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "tutorialhub.db"
		}
		db, err = gorm.Open(sqlite.Open(path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	if sqlDB, err := db.DB(); err == nil {
		if cfg.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		}
		if cfg.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		}
	}

	serviceLog.Info("Database connected")
	return &Service{db: db, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PingContext checks that the pool can still reach the database.
func (s *Service) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
