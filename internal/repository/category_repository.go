package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-platform/internal/domain"
)

// CategoryRepository defines the persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	// Delete removes a category and clears the reference on any todos
	// pointing at it. It reports whether a row existed.
	Delete(ctx context.Context, id uint) (bool, error)
}

type gormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a GORM-backed category repository.
func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return &category, nil
}

// Delete clears category_id on referencing todos before removing the row.
// The schema also carries ON DELETE SET NULL, but doing it here keeps the
// behavior identical on databases where the constraint is not enforced.
func (r *gormCategoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	existed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category domain.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		existed = true
		if err := tx.Model(&domain.TodoItem{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, id).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	return existed, nil
}
