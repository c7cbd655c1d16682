package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/pricing"
	"github.com/shopspring/decimal"
)

// AddPriceRequest is the request body for recording a price
type AddPriceRequest struct {
	ItemName    string          `json:"item_name" validate:"required"`
	Store       string          `json:"store" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    float64         `json:"quantity" validate:"gt=0"`
	Unit        string          `json:"unit" validate:"required"`
	PurchasedAt *time.Time      `json:"purchased_at"`
}

func (s *Server) listPrices(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")
	records, err := s.store.ListPrices(item)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if records == nil {
		records = []domain.PriceRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"history": pricing.History(records),
	})
}

func (s *Server) addPrice(w http.ResponseWriter, r *http.Request) {
	var req AddPriceRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Price.IsNegative() {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	rec := domain.PriceRecord{
		ItemName: req.ItemName,
		Store:    req.Store,
		Price:    req.Price,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	}
	if req.PurchasedAt != nil {
		rec.PurchasedAt = *req.PurchasedAt
	}

	saved, err := s.store.AddPrice(rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) comparePrices(w http.ResponseWriter, r *http.Request) {
	item := strings.TrimSpace(r.URL.Query().Get("item"))
	if item == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'item' is required")
		return
	}

	records, err := s.store.ListPrices(item)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Compare(records))
}
