package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-platform/internal/domain"
	"todo-platform/internal/repository"
	"todo-platform/internal/service"
)

func newServices(t *testing.T) (service.TodoService, service.CategoryService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Category{}, &domain.TodoItem{}))

	return service.NewTodoService(repository.NewGormTodoRepository(db)),
		service.NewCategoryService(repository.NewGormCategoryRepository(db))
}

func strPtr(s string) *string { return &s }

func TestCreateTodoDenormalizesCategoryName(t *testing.T) {
	todos, categories := newServices(t)
	ctx := context.Background()

	category, err := categories.CreateCategory(ctx, service.CreateCategoryRequest{Name: "work"})
	require.NoError(t, err)

	created, err := todos.CreateTodo(ctx, service.CreateTodoRequest{
		Title:      "with category",
		CategoryID: &category.ID,
		DueDate:    strPtr("2025-12-24"),
	})
	require.NoError(t, err)

	require.NotNil(t, created.CategoryName)
	assert.Equal(t, "work", *created.CategoryName)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2025-12-24", *created.DueDate)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "medium", created.Priority)
	assert.NotEmpty(t, created.CreatedAt)
	assert.NotEmpty(t, created.UpdatedAt)
}

func TestCreateTodoRejectsBadDate(t *testing.T) {
	todos, _ := newServices(t)

	_, err := todos.CreateTodo(context.Background(), service.CreateTodoRequest{
		Title:   "x",
		DueDate: strPtr("2025-13-45"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidDueDate)
}

func TestUpdateTodoRejectsBadDate(t *testing.T) {
	todos, _ := newServices(t)
	ctx := context.Background()

	created, err := todos.CreateTodo(ctx, service.CreateTodoRequest{Title: "x"})
	require.NoError(t, err)

	_, err = todos.UpdateTodoFull(ctx, created.ID, service.UpdateTodoRequest{DueDate: strPtr("not-a-date")})
	assert.ErrorIs(t, err, service.ErrInvalidDueDate)

	_, err = todos.UpdateTodoPartial(ctx, created.ID, service.UpdateTodoRequest{DueDate: strPtr("")})
	assert.ErrorIs(t, err, service.ErrInvalidDueDate)
}

func TestGetAndDeleteMissingTodo(t *testing.T) {
	todos, _ := newServices(t)
	ctx := context.Background()

	_, err := todos.GetTodo(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = todos.DeleteTodo(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTodosReturnsTotal(t *testing.T) {
	todos, _ := newServices(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := todos.CreateTodo(ctx, service.CreateTodoRequest{Title: "task"})
		require.NoError(t, err)
	}

	page, total, err := todos.ListTodos(ctx, service.ListTodosQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 2)
}

func TestDeleteCategoryMissing(t *testing.T) {
	_, categories := newServices(t)

	err := categories.DeleteCategory(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
