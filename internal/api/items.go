package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/parser"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"go.uber.org/zap"
)

// ItemView is a stored item with its quantity in the most readable unit
type ItemView struct {
	domain.PantryItem
	Display string `json:"display"`
}

func viewOf(it domain.PantryItem) ItemView {
	return ItemView{PantryItem: it, Display: displayQuantity(it)}
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	var (
		items []domain.PantryItem
		err   error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items, err = s.store.SearchItems(q)
	} else {
		items, err = s.store.ListItems()
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views := make([]ItemView, len(items))
	for i, it := range items {
		views[i] = viewOf(it)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": views,
		"count": len(views),
	})
}

// AddItemRequest is the request body for adding a single item
type AddItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	unit := req.Unit
	if strings.TrimSpace(unit) == "" {
		unit = "pcs"
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = parser.GuessCategory(req.Name)
	}

	item, err := s.store.AddItem(req.Name, req.Quantity, unit, category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(*item))
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.store.GetItem(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*item))
}

// UpdateItemRequest patches an item; omitted fields keep their value
type UpdateItemRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1"`
	Category *string  `json:"category"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit     *string  `json:"unit" validate:"omitempty,min=1"`
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateItemRequest
	if !s.decode(w, r, &req) {
		return
	}

	item, err := s.store.GetItem(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.Name != nil || req.Category != nil {
		name, category := item.Name, item.Category
		if req.Name != nil {
			name = *req.Name
		}
		if req.Category != nil {
			category = *req.Category
		}
		if item, err = s.store.RenameItem(id, name, category); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	if req.Quantity != nil || req.Unit != nil {
		quantity, unit := item.Quantity, item.Unit
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if req.Unit != nil {
			unit = *req.Unit
		}
		if item, err = s.store.UpdateQuantity(id, quantity, unit); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, viewOf(*item))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteItem(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderRequest lists item IDs in their new display order
type ReorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

func (s *Server) reorderItems(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.store.ReorderItems(req.IDs); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BulkRequest carries free text to parse, or items already reviewed by the
// user from a preview
type BulkRequest struct {
	Text  string     `json:"text" validate:"required_without=Items"`
	Items []BulkItem `json:"items" validate:"required_without=Text,omitempty,dive"`
}

// BulkItem is one reviewed line of a bulk add
type BulkItem struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
	Category string  `json:"category,omitempty"`
}

func lineItems(in []BulkItem) []domain.ParsedLineItem {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.ParsedLineItem, len(in))
	for i, it := range in {
		out[i] = domain.ParsedLineItem{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit, Category: it.Category}
	}
	return out
}

// PreviewResponse shows how a batch would be reconciled
type PreviewResponse struct {
	Items      []domain.ParsedLineItem `json:"items"`
	NewItems   []domain.ParsedLineItem `json:"new_items"`
	Updates    []reconcile.Update      `json:"updates"`
	Unresolved []reconcile.Update      `json:"unresolved"`
}

// reconcileBatch parses text when no items were supplied and matches the
// batch against the current pantry
func (s *Server) reconcileBatch(r *http.Request, req BulkRequest) ([]domain.ParsedLineItem, reconcile.Result, error) {
	items := lineItems(req.Items)
	if len(items) == 0 {
		names, err := s.store.ItemNames()
		if err != nil {
			return nil, reconcile.Result{}, err
		}
		if items, err = s.parser.ParseText(r.Context(), req.Text, names); err != nil {
			return nil, reconcile.Result{}, err
		}
	}

	pantry, err := s.store.Snapshot()
	if err != nil {
		return nil, reconcile.Result{}, err
	}
	return items, reconcile.Reconcile(items, pantry), nil
}

func preview(items []domain.ParsedLineItem, res reconcile.Result) PreviewResponse {
	unresolved := res.Unresolved()
	if unresolved == nil {
		unresolved = []reconcile.Update{}
	}
	if items == nil {
		items = []domain.ParsedLineItem{}
	}
	return PreviewResponse{
		Items:      items,
		NewItems:   res.NewItems,
		Updates:    res.Updates,
		Unresolved: unresolved,
	}
}

func (s *Server) previewBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if !s.decode(w, r, &req) {
		return
	}

	items, res, err := s.reconcileBatch(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview(items, res))
}

func (s *Server) applyBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if !s.decode(w, r, &req) {
		return
	}

	_, res, err := s.reconcileBatch(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.store.ApplyReconciliation(r.Context(), res)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if len(report.Unresolved) > 0 {
		s.logger.Info("bulk add left unmerged lines",
			zap.Int("unresolved", len(report.Unresolved)),
		)
	}
	writeJSON(w, http.StatusOK, report)
}
