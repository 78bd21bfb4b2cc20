package server

import (
	"fmt"
	"net/http"
	"time"

	"todo-platform/internal/config"
	"todo-platform/internal/llm"
	"todo-platform/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	cfg             *config.Config
	todoService     service.TodoService
	categoryService service.CategoryService
	parser          *llm.Client
}

// New creates a Server with its dependencies.
func New(cfg *config.Config, todoService service.TodoService, categoryService service.CategoryService, parser *llm.Client) *Server {
	return &Server{
		cfg:             cfg,
		todoService:     todoService,
		categoryService: categoryService,
		parser:          parser,
	}
}

// HTTPServer wraps the router in an http.Server with sane timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
}
