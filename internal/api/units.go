package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/units"
)

func displayQuantity(it domain.PantryItem) string {
	return units.BestDisplayUnit(it.Qty()).String()
}

func (s *Server) listUnits(w http.ResponseWriter, r *http.Request) {
	byCategory := make(map[units.Category][]units.Unit)
	for _, c := range []units.Category{units.Weight, units.Volume, units.Count, units.Length} {
		byCategory[c] = units.Units(c)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"units":      units.All(),
		"categories": byCategory,
	})
}

func parseAmountParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		return 0, fmt.Errorf("query parameter 'amount' is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount must be a finite number, got %q", raw)
	}
	return v, nil
}

func (s *Server) convertUnits(w http.ResponseWriter, r *http.Request) {
	amount, err := parseAmountParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "query parameters 'from' and 'to' are required")
		return
	}

	result, err := units.Convert(amount, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":   units.Q(amount, from),
		"result": units.Q(result, to),
	})
}

func (s *Server) displayUnits(w http.ResponseWriter, r *http.Request) {
	amount, err := parseAmountParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'unit' is required")
		return
	}

	best := units.BestDisplayUnit(units.Q(amount, unit))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quantity": best,
		"display":  best.String(),
	})
}
