package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes builds the router. Paths no API route matches fall through to the
// static frontend directory when it exists.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.listCategoriesHandler)
		r.Post("/", s.createCategoryHandler)
		r.Delete("/{id}", s.deleteCategoryHandler)
	})

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.listTodosHandler)
		r.Post("/", s.createTodoHandler)
		r.Post("/from-natural-language", s.createTodoFromNaturalLanguageHandler)
		r.Get("/{id}", s.getTodoHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Patch("/{id}", s.patchTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	if info, err := os.Stat(s.cfg.FrontendDir); err == nil && info.IsDir() {
		fileServer := http.FileServer(http.Dir(s.cfg.FrontendDir))
		r.NotFound(fileServer.ServeHTTP)
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, http.StatusNotFound, "not found")
		})
	}

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
