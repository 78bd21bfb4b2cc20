package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Priority values accepted for a todo item.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// StatusPending is the status assigned to every newly created todo.
const StatusPending = "pending"

// Category groups todo items. Categories are never updated after creation;
// deleting one clears the reference on its todos instead of cascading.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
}

// TodoItem is the persisted todo record.
type TodoItem struct {
	ID          uint       `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Description *string    `gorm:"type:text"`
	Status      string     `gorm:"size:20;not null;default:pending"`
	Priority    string     `gorm:"size:20;not null;default:medium"`
	DueDate     *time.Time `gorm:"type:date"`
	CategoryID  *uint      `gorm:"index"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoUpdate carries an update payload. A nil field means the field was
// absent from the payload; full and partial updates interpret the
// non-nil values differently (see the repository).
type TodoUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	CategoryID  *uint
}

// TodoFilter narrows and pages a todo listing. Zero values mean
// "no filter"; Limit is normalized to 100 when unset.
type TodoFilter struct {
	Status     string
	Priority   string
	CategoryID *uint
	Limit      int
	Offset     int
}

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
