package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"todo-platform/internal/domain"
	"todo-platform/internal/service"
)

func (s *Server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categoryService.ListCategories(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list categories")
		respondWithError(w, http.StatusServiceUnavailable, "failed to retrieve categories")
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	category, err := s.categoryService.CreateCategory(r.Context(), req)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("create category")
		respondWithError(w, http.StatusServiceUnavailable, "failed to create category")
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

func (s *Server) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	err := s.categoryService.DeleteCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Uint("id", id).Msg("delete category")
		respondWithError(w, http.StatusServiceUnavailable, "failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
