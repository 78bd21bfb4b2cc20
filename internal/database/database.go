package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-platform/internal/config"
)

// ErrNotConfigured is returned when no database connection string is set.
var ErrNotConfigured = errors.New("database: DATABASE_URL is not configured")

// Service wraps the GORM connection pool.
type Service interface {
	GetDB() *gorm.DB
	Ping(ctx context.Context) error
	Close() error
}

type service struct {
	db *gorm.DB
}

// New opens a postgres connection from the configured DSN and applies
// the pool settings.
func New(cfg *config.Config) (Service, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrNotConfigured
	}

	gormLogLevel := logger.Warn
	if cfg.Debug {
		gormLogLevel = logger.Info
	}
	gormLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: access pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db}, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

func (s *service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
