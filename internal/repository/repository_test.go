package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-platform/internal/domain"
	"todo-platform/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.TodoItem{}))

	return db
}

func createTodo(t *testing.T, repo repository.TodoRepository, todo domain.TodoItem) *domain.TodoItem {
	t.Helper()
	if todo.Status == "" {
		todo.Status = domain.StatusPending
	}
	if todo.Priority == "" {
		todo.Priority = domain.PriorityMedium
	}
	require.NoError(t, repo.Create(context.Background(), &todo))
	return &todo
}

func createCategory(t *testing.T, repo repository.CategoryRepository, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name}
	require.NoError(t, repo.Create(context.Background(), category))
	return category
}

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

func datePtr(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &parsed
}
