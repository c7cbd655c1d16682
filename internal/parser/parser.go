// Package parser turns free text and receipt photos into grocery line items.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/llm"
	"github.com/kitchenmania/pantry/internal/reconcile"
	"go.uber.org/zap"
)

// ErrReceiptUnsupported is returned when receipt images cannot be read
// without a vision model
var ErrReceiptUnsupported = errors.New("receipt parsing requires an AI API key")

// Parser produces line items. existing lists current pantry names so the
// parser can flag items that are already stocked.
type Parser interface {
	ParseText(ctx context.Context, text string, existing []string) ([]domain.ParsedLineItem, error)
	ParseReceipt(ctx context.Context, image []byte, mimeType string, existing []string) ([]domain.ParsedLineItem, error)
}

// New returns the AI parser when a client is configured and the regex
// fallback otherwise
func New(client *llm.Client, logger *zap.Logger) Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Info("no AI key configured, using regex parser")
		return NewRegexParser()
	}
	return NewAIParser(client, logger)
}

// MarkExisting sets Exists on items whose normalized name is in existing
func MarkExisting(items []domain.ParsedLineItem, existing []string) []domain.ParsedLineItem {
	names := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		names[reconcile.NormalizeName(n)] = struct{}{}
	}
	for i := range items {
		_, items[i].Exists = names[reconcile.NormalizeName(items[i].Name)]
	}
	return items
}

// APICallError wraps a failed model call
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError wraps a model response that could not be decoded
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
