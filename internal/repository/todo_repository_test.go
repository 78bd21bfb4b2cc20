package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-platform/internal/domain"
	"todo-platform/internal/repository"
)

func TestTodoListOrderAndTotal(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	for i := 1; i <= 5; i++ {
		createTodo(t, repo, domain.TodoItem{Title: fmt.Sprintf("task %d", i)})
	}

	todos, total, err := repo.List(context.Background(), domain.TodoFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, todos, 5)
	for i := 1; i < len(todos); i++ {
		assert.Greater(t, todos[i-1].ID, todos[i].ID, "ordered by id descending")
	}
}

func TestTodoListFilters(t *testing.T) {
	db := newTestDB(t)
	categoryRepo := repository.NewGormCategoryRepository(db)
	repo := repository.NewGormTodoRepository(db)

	work := createCategory(t, categoryRepo, "work")

	createTodo(t, repo, domain.TodoItem{Title: "a", Status: "pending", Priority: "low"})
	createTodo(t, repo, domain.TodoItem{Title: "b", Status: "done", Priority: "high", CategoryID: &work.ID})
	createTodo(t, repo, domain.TodoItem{Title: "c", Status: "pending", Priority: "high", CategoryID: &work.ID})

	todos, total, err := repo.List(context.Background(), domain.TodoFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, todo := range todos {
		assert.Equal(t, "pending", todo.Status)
	}

	todos, total, err = repo.List(context.Background(), domain.TodoFilter{Priority: "high", CategoryID: &work.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, todo := range todos {
		assert.Equal(t, "high", todo.Priority)
		require.NotNil(t, todo.CategoryID)
		assert.Equal(t, work.ID, *todo.CategoryID)
	}

	todos, total, err = repo.List(context.Background(), domain.TodoFilter{Status: "pending", Priority: "high", CategoryID: &work.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, todos, 1)
	assert.Equal(t, "c", todos[0].Title)
}

func TestTodoListPaginationKeepsTotal(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	for i := 1; i <= 7; i++ {
		createTodo(t, repo, domain.TodoItem{Title: fmt.Sprintf("task %d", i)})
	}

	todos, total, err := repo.List(context.Background(), domain.TodoFilter{Limit: 3, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, todos, 3)
	assert.Equal(t, "task 7", todos[0].Title)

	todos, total, err = repo.List(context.Background(), domain.TodoFilter{Limit: 3, Offset: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, todos, 1)
	assert.Equal(t, "task 1", todos[0].Title)
}

func TestTodoListJoinsCategoryName(t *testing.T) {
	db := newTestDB(t)
	categoryRepo := repository.NewGormCategoryRepository(db)
	repo := repository.NewGormTodoRepository(db)

	work := createCategory(t, categoryRepo, "work")
	createTodo(t, repo, domain.TodoItem{Title: "with category", CategoryID: &work.ID})
	createTodo(t, repo, domain.TodoItem{Title: "without category"})

	todos, _, err := repo.List(context.Background(), domain.TodoFilter{})
	require.NoError(t, err)
	require.Len(t, todos, 2)

	for _, todo := range todos {
		switch todo.Title {
		case "with category":
			require.NotNil(t, todo.Category)
			assert.Equal(t, "work", todo.Category.Name)
		case "without category":
			assert.Nil(t, todo.Category)
		}
	}
}

func TestTodoCreateDefaultsAndTimestamps(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	todo := createTodo(t, repo, domain.TodoItem{Title: "a task"})

	got, err := repo.FindByID(context.Background(), todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "medium", got.Priority)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestTodoUpdateFullFalsyFallbacks(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	todo := createTodo(t, repo, domain.TodoItem{
		Title:       "original title",
		Description: strPtr("original description"),
		Status:      "in_progress",
		Priority:    "high",
		DueDate:     datePtr(t, "2025-06-01"),
	})

	// Empty title, status and priority fall back to the stored values.
	got, err := repo.UpdateFull(context.Background(), todo.ID, domain.TodoUpdate{
		Title:    strPtr(""),
		Status:   strPtr(""),
		Priority: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "original title", got.Title)
	assert.Equal(t, "in_progress", got.Status)
	assert.Equal(t, "high", got.Priority)

	// An absent due_date leaves the stored value; an explicit empty
	// description writes through.
	got, err = repo.UpdateFull(context.Background(), todo.ID, domain.TodoUpdate{
		Description: strPtr(""),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-06-01", got.DueDate.Format("2006-01-02"))

	// Supplied non-empty values replace.
	got, err = repo.UpdateFull(context.Background(), todo.ID, domain.TodoUpdate{
		Title:   strPtr("new title"),
		DueDate: datePtr(t, "2025-07-02"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "2025-07-02", got.DueDate.Format("2006-01-02"))
}

func TestTodoUpdatePartialOnlyAppliesPresentFields(t *testing.T) {
	db := newTestDB(t)
	categoryRepo := repository.NewGormCategoryRepository(db)
	repo := repository.NewGormTodoRepository(db)

	work := createCategory(t, categoryRepo, "work")
	todo := createTodo(t, repo, domain.TodoItem{
		Title:       "original",
		Description: strPtr("keep me"),
		Priority:    "low",
	})

	got, err := repo.UpdatePartial(context.Background(), todo.ID, domain.TodoUpdate{
		Status:     strPtr("completed"),
		CategoryID: uintPtr(work.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, work.ID, *got.CategoryID)
	// Omitted fields keep their previous values.
	assert.Equal(t, "original", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "keep me", *got.Description)
	assert.Equal(t, "low", got.Priority)

	// Unlike a full update, a partial update applies an explicit empty title.
	got, err = repo.UpdatePartial(context.Background(), todo.ID, domain.TodoUpdate{
		Title: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
}

func TestTodoUpdateRefreshesUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	todo := createTodo(t, repo, domain.TodoItem{Title: "a task"})
	before := todo.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	got, err := repo.UpdatePartial(context.Background(), todo.ID, domain.TodoUpdate{
		Title: strPtr("renamed"),
	})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(before))
}

func TestTodoUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	_, err := repo.UpdateFull(context.Background(), 404, domain.TodoUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.UpdatePartial(context.Background(), 404, domain.TodoUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTodoDeleteReportsExistence(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewGormTodoRepository(db)

	todo := createTodo(t, repo, domain.TodoItem{Title: "short lived"})

	existed, err := repo.Delete(context.Background(), todo.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(context.Background(), todo.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = repo.FindByID(context.Background(), todo.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
