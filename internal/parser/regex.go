package parser

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/kitchenmania/pantry/internal/domain"
	"github.com/kitchenmania/pantry/internal/units"
)

// unitAliases maps spelled-out units to table symbols
var unitAliases = map[string]string{
	"gr": "g", "gram": "g", "grams": "g",
	"kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
	"milligram": "mg", "milligrams": "mg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"tablespoon": "tbsp", "tablespoons": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp",
	"pints": "pint", "quarts": "quart", "gallons": "gallon",
	"pc": "pcs", "piece": "pcs", "item": "pcs", "unit": "pcs",
}

const number = `(\d+\s+\d+/\d+|\d+/\d+|\d+(?:[.,]\d+)?)`

var (
	unitPattern = buildUnitPattern()

	qtyFirst   = regexp.MustCompile(`(?i)^` + number + `\s*(?:(` + unitPattern + `)\.?)?\s+(?:of\s+)?(.+)$`)
	timesFirst = regexp.MustCompile(`(?i)^` + number + `\s*x\s+(.+)$`)
	qtyLast    = regexp.MustCompile(`(?i)^(.+?)\s+` + number + `\s*(` + unitPattern + `)?\.?$`)
	timesLast  = regexp.MustCompile(`(?i)^(.+?)\s+x\s*` + number + `$`)

	bullet = regexp.MustCompile(`^(?:[-*•]+|\[[ xX]?\])\s*`)
)

func buildUnitPattern() string {
	var all []string
	all = append(all, units.Symbols()...)
	for alias := range unitAliases {
		all = append(all, alias)
	}
	// longest first so "kg" wins over "g"
	sort.Slice(all, func(i, j int) bool {
		if len(all[i]) != len(all[j]) {
			return len(all[i]) > len(all[j])
		}
		return all[i] < all[j]
	})
	for i, u := range all {
		all[i] = regexp.QuoteMeta(u)
	}
	return `(?:` + strings.Join(all, "|") + `)\b`
}

// RegexParser is the offline fallback used when no AI key is configured
type RegexParser struct{}

// NewRegexParser creates a RegexParser
func NewRegexParser() *RegexParser {
	return &RegexParser{}
}

// ParseText splits text into entries and reads a quantity and unit from each
func (p *RegexParser) ParseText(_ context.Context, text string, existing []string) ([]domain.ParsedLineItem, error) {
	var items []domain.ParsedLineItem
	for _, line := range splitEntries(text) {
		if it, ok := ParseLine(line); ok {
			items = append(items, it)
		}
	}
	return MarkExisting(items, existing), nil
}

// ParseReceipt always fails: images need a vision model
func (p *RegexParser) ParseReceipt(context.Context, []byte, string, []string) ([]domain.ParsedLineItem, error) {
	return nil, ErrReceiptUnsupported
}

// ParseLine reads a single entry such as "2 kg flour", "milk 1l" or "3x eggs".
// Entries without a quantity count as one piece.
func ParseLine(line string) (domain.ParsedLineItem, bool) {
	line = bullet.ReplaceAllString(strings.TrimSpace(line), "")
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return domain.ParsedLineItem{}, false
	}

	name, qty, unit := line, "1", ""
	if m := timesFirst.FindStringSubmatch(line); m != nil {
		qty, name = m[1], m[2]
	} else if m := qtyFirst.FindStringSubmatch(line); m != nil {
		qty, unit, name = m[1], m[2], m[3]
	} else if m := timesLast.FindStringSubmatch(line); m != nil {
		name, qty = m[1], m[2]
	} else if m := qtyLast.FindStringSubmatch(line); m != nil {
		name, qty, unit = m[1], m[2], m[3]
	}

	name = strings.TrimFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	if name == "" {
		return domain.ParsedLineItem{}, false
	}

	amount, ok := parseAmount(qty)
	if !ok || amount <= 0 {
		amount = 1
	}

	return domain.ParsedLineItem{
		Name:     name,
		Quantity: amount,
		Unit:     canonicalUnit(unit),
		Category: GuessCategory(name),
	}, true
}

// splitEntries breaks text on newlines, semicolons and commas. A comma
// between two digits is a decimal separator and does not split.
func splitEntries(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for i, r := range runes {
		switch r {
		case '\n', '\r', ';':
			flush()
		case ',':
			if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	whole := 0.0
	if parts := strings.Fields(s); len(parts) == 2 {
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		whole, s = w, parts[1]
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return whole + n/d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return whole + v, true
}

// canonicalUnit maps aliases onto table symbols. Empty means counted;
// unknown units are kept as given.
func canonicalUnit(unit string) string {
	n := units.Normalize(unit)
	if n == "" {
		return "pcs"
	}
	if alias, ok := unitAliases[n]; ok {
		return alias
	}
	if _, ok := units.Lookup(n); ok {
		return n
	}
	return strings.TrimSpace(unit)
}
