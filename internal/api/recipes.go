package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/recipes"
	"go.uber.org/zap"
)

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListRecipes()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": list})
}

func (s *Server) saveRecipe(w http.ResponseWriter, r *http.Request) {
	var recipe domain.Recipe
	if !s.decode(w, r, &recipe) {
		return
	}
	if strings.TrimSpace(recipe.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	saved, err := s.store.SaveRecipe(recipe)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.store.GetRecipe(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRecipe(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestRequest asks for recipes built from the current pantry
type SuggestRequest struct {
	recipes.Options
	Save bool `json:"save"`
}

func (s *Server) suggestRecipes(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !s.decode(w, r, &req) {
		return
	}

	pantry, err := s.store.ListItems()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	suggested, err := s.suggester.Suggest(r.Context(), pantry, req.Options)
	if err != nil {
		if errors.Is(err, recipes.ErrSuggestionsUnavailable) {
			s.fail(w, r, err)
			return
		}
		s.logger.Warn("recipe suggestion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if req.Save {
		for i, recipe := range suggested {
			saved, err := s.store.SaveRecipe(recipe)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			suggested[i] = *saved
		}
	}
	if suggested == nil {
		suggested = []domain.Recipe{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": suggested})
}

func (s *Server) cookRecipe(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.CookRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
