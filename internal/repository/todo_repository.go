package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-platform/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// TodoRepository defines the persistence operations for todo items.
type TodoRepository interface {
	// List returns the filtered page ordered by id descending, plus the
	// total number of matching rows ignoring pagination.
	List(ctx context.Context, filter domain.TodoFilter) ([]domain.TodoItem, int64, error)
	FindByID(ctx context.Context, id uint) (*domain.TodoItem, error)
	Create(ctx context.Context, todo *domain.TodoItem) error
	// UpdateFull applies replace semantics: title, status and priority fall
	// back to the stored value when the incoming value is absent or empty;
	// description, due_date and category_id overwrite whenever present.
	UpdateFull(ctx context.Context, id uint, upd domain.TodoUpdate) (*domain.TodoItem, error)
	// UpdatePartial applies each field iff it is present in the payload.
	UpdatePartial(ctx context.Context, id uint, upd domain.TodoUpdate) (*domain.TodoItem, error)
	// Delete reports whether a row existed.
	Delete(ctx context.Context, id uint) (bool, error)
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a GORM-backed todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) List(ctx context.Context, filter domain.TodoFilter) ([]domain.TodoItem, int64, error) {
	conditions := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("todo_items.status = ?", filter.Status)
		}
		if filter.Priority != "" {
			db = db.Where("todo_items.priority = ?", filter.Priority)
		}
		if filter.CategoryID != nil {
			db = db.Where("todo_items.category_id = ?", *filter.CategoryID)
		}
		return db
	}

	var total int64
	if err := conditions(r.db.WithContext(ctx).Model(&domain.TodoItem{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var todos []domain.TodoItem
	err := conditions(r.db.WithContext(ctx)).
		Joins("Category").
		Order("todo_items.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&todos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	return todos, total, nil
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.TodoItem, error) {
	var todo domain.TodoItem
	err := r.db.WithContext(ctx).Joins("Category").First(&todo, "todo_items.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find todo %d: %w", id, err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.TodoItem) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *gormTodoRepository) UpdateFull(ctx context.Context, id uint, upd domain.TodoUpdate) (*domain.TodoItem, error) {
	return r.update(ctx, id, func(row *domain.TodoItem) {
		// Empty strings fall back to the stored value here; a caller
		// cannot clear title, status or priority through a full update.
		if upd.Title != nil && *upd.Title != "" {
			row.Title = *upd.Title
		}
		if upd.Description != nil {
			row.Description = upd.Description
		}
		if upd.Status != nil && *upd.Status != "" {
			row.Status = *upd.Status
		}
		if upd.Priority != nil && *upd.Priority != "" {
			row.Priority = *upd.Priority
		}
		if upd.DueDate != nil {
			row.DueDate = upd.DueDate
		}
		if upd.CategoryID != nil {
			row.CategoryID = upd.CategoryID
		}
	})
}

func (r *gormTodoRepository) UpdatePartial(ctx context.Context, id uint, upd domain.TodoUpdate) (*domain.TodoItem, error) {
	return r.update(ctx, id, func(row *domain.TodoItem) {
		if upd.Title != nil {
			row.Title = *upd.Title
		}
		if upd.Description != nil {
			row.Description = upd.Description
		}
		if upd.Status != nil {
			row.Status = *upd.Status
		}
		if upd.Priority != nil {
			row.Priority = *upd.Priority
		}
		if upd.DueDate != nil {
			row.DueDate = upd.DueDate
		}
		if upd.CategoryID != nil {
			row.CategoryID = upd.CategoryID
		}
	})
}

func (r *gormTodoRepository) update(ctx context.Context, id uint, apply func(*domain.TodoItem)) (*domain.TodoItem, error) {
	var row domain.TodoItem
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find todo %d: %w", id, err)
	}

	apply(&row)

	// Save with Select("*") writes every column so that fields set to nil
	// (e.g. a cleared category) are persisted as NULL.
	if err := r.db.WithContext(ctx).Model(&row).Select("*").Omit("created_at").Updates(&row).Error; err != nil {
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.TodoItem{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
