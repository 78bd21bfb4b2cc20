package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-platform/internal/domain"
	"todo-platform/internal/repository"
)

// dueDateLayout is the only accepted calendar-date format.
const dueDateLayout = "2006-01-02"

// ErrInvalidDueDate is returned when a payload carries a due_date that is
// not a YYYY-MM-DD calendar date.
var ErrInvalidDueDate = errors.New("due_date must be a YYYY-MM-DD date")

// CreateTodoRequest holds the data needed to create a todo.
// DueDate is a YYYY-MM-DD string.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	CategoryID  *uint   `json:"category_id"`
}

// UpdateTodoRequest holds an update payload. Pointer fields distinguish an
// omitted field from one set to its zero value; the same struct serves both
// the full (PUT) and partial (PATCH) endpoints, which interpret it
// differently at the repository.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	CategoryID  *uint   `json:"category_id"`
}

// TodoResponse is the API representation of a todo, with the category name
// denormalized from the joined category row.
type TodoResponse struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	DueDate      *string `json:"due_date"`
	CategoryID   *uint   `json:"category_id"`
	CategoryName *string `json:"category_name"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ListTodosQuery narrows and pages a listing. Validation of the raw query
// string happens at the HTTP layer; values here are already well-formed.
type ListTodosQuery struct {
	Status     string
	Priority   string
	CategoryID *uint
	Limit      int
	Offset     int
}

// TodoService exposes todo operations to the HTTP layer.
type TodoService interface {
	ListTodos(ctx context.Context, query ListTodosQuery) ([]TodoResponse, int64, error)
	GetTodo(ctx context.Context, id uint) (*TodoResponse, error)
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)
	// UpdateTodoFull applies replace semantics (see repository.TodoRepository).
	UpdateTodoFull(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	// UpdateTodoPartial applies only the fields present in the payload.
	UpdateTodoPartial(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, id uint) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates the todo service.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) ListTodos(ctx context.Context, query ListTodosQuery) ([]TodoResponse, int64, error) {
	todos, total, err := s.repo.List(ctx, domain.TodoFilter{
		Status:     query.Status,
		Priority:   query.Priority,
		CategoryID: query.CategoryID,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, toTodoResponse(&todos[i]))
	}
	return responses, total, nil
}

func (s *todoService) GetTodo(ctx context.Context, id uint) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	todo := &domain.TodoItem{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		CategoryID:  req.CategoryID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}

	// Re-read through the join so category_name is populated.
	created, err := s.repo.FindByID(ctx, todo.ID)
	if err != nil {
		return nil, err
	}
	resp := toTodoResponse(created)
	return &resp, nil
}

func (s *todoService) UpdateTodoFull(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	upd, err := toTodoUpdate(req)
	if err != nil {
		return nil, err
	}
	todo, err := s.repo.UpdateFull(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) UpdateTodoPartial(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	upd, err := toTodoUpdate(req)
	if err != nil {
		return nil, err
	}
	todo, err := s.repo.UpdatePartial(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	resp := toTodoResponse(todo)
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id uint) error {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}

func toTodoUpdate(req UpdateTodoRequest) (domain.TodoUpdate, error) {
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return domain.TodoUpdate{}, err
	}
	return domain.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		CategoryID:  req.CategoryID,
	}, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dueDateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, *raw)
	}
	return &parsed, nil
}

func toTodoResponse(todo *domain.TodoItem) TodoResponse {
	resp := TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		CategoryID:  todo.CategoryID,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
	if todo.DueDate != nil {
		formatted := todo.DueDate.Format(dueDateLayout)
		resp.DueDate = &formatted
	}
	if todo.Category != nil {
		resp.CategoryName = &todo.Category.Name
	}
	return resp
}
