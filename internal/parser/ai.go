package parser

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/llm"
	"github.com/kitchenmania/pantry/internal/units"
	"go.uber.org/zap"
)

// AIParser extracts line items with a language model
type AIParser struct {
	client *llm.Client
	logger *zap.Logger
}

// NewAIParser creates an AIParser
func NewAIParser(client *llm.Client, logger *zap.Logger) *AIParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIParser{client: client, logger: logger}
}

// ParseText extracts grocery items from free text
func (p *AIParser) ParseText(ctx context.Context, text string, existing []string) ([]domain.ParsedLineItem, error) {
	resp, err := p.client.Complete(ctx, buildTextPrompt(text, existing))
	if err != nil {
		return nil, &APICallError{Message: "parse text", Cause: err}
	}
	return p.decode(resp, existing)
}

// ParseReceipt extracts purchased items from a receipt photo
func (p *AIParser) ParseReceipt(ctx context.Context, image []byte, mimeType string, existing []string) ([]domain.ParsedLineItem, error) {
	resp, err := p.client.CompleteWithImage(ctx, buildReceiptPrompt(existing), image, mimeType)
	if err != nil {
		return nil, &APICallError{Message: "parse receipt", Cause: err}
	}
	return p.decode(resp, existing)
}

type itemsResponse struct {
	Items []domain.ParsedLineItem `json:"items"`
}

func (p *AIParser) decode(resp string, existing []string) ([]domain.ParsedLineItem, error) {
	clean := llm.StripCodeFence(resp)

	var out itemsResponse
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, &ParseError{Message: "decode items", Cause: err}
	}

	items := make([]domain.ParsedLineItem, 0, len(out.Items))
	for _, it := range out.Items {
		it.Name = strings.TrimSpace(it.Name)
		it.Unit = canonicalUnit(it.Unit)
		if it.Quantity <= 0 {
			it.Quantity = 1
		}
		items = append(items, it)
	}

	p.logger.Debug("parsed items", zap.Int("count", len(items)))
	return MarkExisting(items, existing), nil
}

func buildTextPrompt(text string, existing []string) string {
	var sb strings.Builder

	sb.WriteString("Extract the grocery items from this text. Return JSON only.\n\n")
	sb.WriteString("Text:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	writeExisting(&sb, existing)
	writeFormat(&sb)

	return sb.String()
}

func buildReceiptPrompt(existing []string) string {
	var sb strings.Builder

	sb.WriteString("This image is a grocery receipt. List the food and household items purchased. ")
	sb.WriteString("Ignore totals, taxes, discounts and payment lines. Return JSON only.\n\n")
	writeExisting(&sb, existing)
	writeFormat(&sb)

	return sb.String()
}

func writeExisting(sb *strings.Builder, existing []string) {
	if len(existing) == 0 {
		return
	}
	sb.WriteString("Items already in the pantry (reuse these exact names when an item matches):\n")
	for _, name := range existing {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeFormat(sb *strings.Builder) {
	sb.WriteString(`Return a JSON object with this structure:
{
  "items": [
    {"name": "Milk", "quantity": 1, "unit": "l", "category": "Dairy", "exists": true}
  ]
}

Rules:
- Use one of these units: `)
	sb.WriteString(strings.Join(units.Symbols(), ", "))
	sb.WriteString(`
- Use "pcs" when the item is counted
- Quantity is a positive number
- Category is a short grocery aisle name (Produce, Dairy, Meat, Bakery, Pantry, Frozen, Beverages, Household)
- "exists" is true when the item matches one of the pantry items listed above

Return ONLY the JSON, no other text.`)
}
