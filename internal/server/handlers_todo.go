package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"todo-platform/internal/domain"
	"todo-platform/internal/llm"
	"todo-platform/internal/service"
)

func parseIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	query := service.ListTodosQuery{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Limit:    100,
	}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "category_id must be an integer")
			return
		}
		categoryID := uint(parsed)
		query.CategoryID = &categoryID
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		query.Limit = parsed
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		query.Offset = parsed
	}

	todos, _, err := s.todoService.ListTodos(r.Context(), query)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list todos")
		respondWithError(w, http.StatusServiceUnavailable, "failed to retrieve todos")
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.GetTodo(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "todo not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Uint("id", id).Msg("get todo")
		respondWithError(w, http.StatusServiceUnavailable, "failed to retrieve todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "title must not be empty")
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDueDate) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create todo")
		respondWithError(w, http.StatusServiceUnavailable, "failed to create todo")
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

type naturalLanguageTodoBody struct {
	Text string `json:"text"`
}

// createTodoFromNaturalLanguageHandler parses one free-text sentence via
// the LLM client and creates the resulting todo. Configuration and parse
// failures are the client's fault (400); anything else is upstream (502).
func (s *Server) createTodoFromNaturalLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var body naturalLanguageTodoBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	parsed, err := s.parser.ParseTodo(r.Context(), body.Text)
	if err != nil {
		var parseErr *llm.ParseError
		switch {
		case errors.Is(err, llm.ErrNotConfigured), errors.As(err, &parseErr):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("natural language parse failed")
			respondWithError(w, http.StatusBadGateway, "failed to call the parsing service")
		}
		return
	}

	req := service.CreateTodoRequest{
		Title:       parsed.Title,
		Description: parsed.Description,
		Status:      parsed.Status,
		Priority:    parsed.Priority,
		CategoryID:  parsed.CategoryID,
	}
	// The model's date is taken on trust only if its first ten characters
	// are a real YYYY-MM-DD date; anything else is silently dropped.
	if parsed.DueDate != nil {
		candidate := strings.TrimSpace(*parsed.DueDate)
		if len(candidate) > 10 {
			candidate = candidate[:10]
		}
		if _, err := time.Parse("2006-01-02", candidate); err == nil {
			req.DueDate = &candidate
		}
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create todo from natural language")
		respondWithError(w, http.StatusBadGateway, "failed to create todo")
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	s.applyTodoUpdate(w, r, s.todoService.UpdateTodoFull)
}

func (s *Server) patchTodoHandler(w http.ResponseWriter, r *http.Request) {
	s.applyTodoUpdate(w, r, s.todoService.UpdateTodoPartial)
}

func (s *Server) applyTodoUpdate(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, id uint, req service.UpdateTodoRequest) (*service.TodoResponse, error),
) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "todo not found")
		case errors.Is(err, service.ErrInvalidDueDate):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			zerolog.Ctx(r.Context()).Error().Err(err).Uint("id", id).Msg("update todo")
			respondWithError(w, http.StatusServiceUnavailable, "failed to update todo")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "todo not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Uint("id", id).Msg("delete todo")
		respondWithError(w, http.StatusServiceUnavailable, "failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
