package parser

import (
	"strings"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/grammar"
	"github.com/erenkarakoc/ekap-editor/internal/util"
)

// Tail is what ExtractTail recovers from the end of a completed entry line:
// the price run, then the unit, then the location, with whatever remains as
// the description.
type Tail struct {
	Description string
	Prices      []internal.Price
	Unit        *string
	Location    *string
}

// Complete reports whether the tail carries at least one price slot.
func (t Tail) Complete() bool {
	return len(t.Prices) > 0
}

// HasPriceTail reports whether a line's last token is a price or a price
// sentinel. Used to keep price-terminated lines out of the header class.
func HasPriceTail(g *grammar.Grammar, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	if IsPriceToken(last) || g.IsSentinelPrice(last) {
		return true
	}
	return isDashPlaceholder(g, last) && dashHasAnchor(g, fields)
}

// ExtractTail scans the assembled text of one entry right to left: it pops
// up to MaxPrices price tokens, then the unit, then the location, honoring
// the section's column schema for code. Tokens that do not fit the tail stay
// in the description.
func ExtractTail(g *grammar.Grammar, text, code string) Tail {
	tokens := strings.Fields(util.NormalizeSpaces(text))

	var prices []internal.Price
	for len(tokens) > 0 && len(prices) < g.MaxPrices {
		last := tokens[len(tokens)-1]
		if g.IsSentinelPrice(last) {
			prices = append(prices, internal.Price{Sentinel: last})
		} else if isDashPlaceholder(g, last) && dashHasAnchor(g, tokens) {
			prices = append(prices, internal.Price{Sentinel: last})
			// "0 -" renders a zero price with a footnote dash; the zero
			// goes with the dash, not the description.
			if tokens[len(tokens)-2] == "0" {
				tokens = tokens[:len(tokens)-1]
			}
		} else if IsPriceToken(last) {
			amount, err := ParsePrice(last)
			if err != nil {
				break
			}
			prices = append(prices, internal.Price{Amount: &amount})
		} else {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}

	if rejectBarePrices(g, tokens, prices) {
		return Tail{Description: cleanDescription(strings.Join(append(tokens, priceTokens(prices)...), " "))}
	}

	return finishTail(g, tokens, reverse(prices), code)
}

func finishTail(g *grammar.Grammar, tokens []string, prices []internal.Price, code string) Tail {
	t := Tail{Prices: prices}
	if len(prices) > 0 {
		if g.LocationAfterUnit {
			tokens = popLocation(g, tokens, &t, code)
			tokens = popUnit(g, tokens, &t, code)
		} else {
			tokens = popUnit(g, tokens, &t, code)
			tokens = popLocation(g, tokens, &t, code)
		}
	}
	t.Description = cleanDescription(strings.Join(tokens, " "))
	return t
}

func popUnit(g *grammar.Grammar, tokens []string, t *Tail, code string) []string {
	if t.Unit != nil || !g.SectionHasUnit(code) || len(tokens) == 0 {
		return tokens
	}
	if len(tokens) >= 2 {
		compound := strings.ToLower(tokens[len(tokens)-2] + " " + tokens[len(tokens)-1])
		for _, cu := range g.CompoundUnits {
			if compound == cu {
				t.Unit = util.StringPtr(compound)
				return tokens[:len(tokens)-2]
			}
		}
	}
	last := tokens[len(tokens)-1]
	if g.IsUnit(last) {
		t.Unit = util.StringPtr(g.NormalizeUnit(last))
		return tokens[:len(tokens)-1]
	}
	for _, u := range g.GluedUnits {
		if strings.HasSuffix(last, u) && len([]rune(last)) > len([]rune(u)) {
			t.Unit = util.StringPtr(u)
			tokens[len(tokens)-1] = last[:len(last)-len(u)]
			return tokens
		}
	}
	return tokens
}

func popLocation(g *grammar.Grammar, tokens []string, t *Tail, code string) []string {
	if t.Location != nil || !g.SectionHasLocation(code) || len(tokens) == 0 {
		return tokens
	}
	last := tokens[len(tokens)-1]
	if g.IsLocation(last) {
		t.Location = util.StringPtr(last)
		return tokens[:len(tokens)-1]
	}
	return tokens
}

func isDashPlaceholder(g *grammar.Grammar, tok string) bool {
	if !g.DashPlaceholders {
		return false
	}
	return tok == "-" || tok == "--" || tok == "---"
}

// dashHasAnchor admits a dash as a price slot only when it is anchored by a
// unit token (single or compound) or a literal zero just before it, so
// hyphenated description fragments are not swallowed.
func dashHasAnchor(g *grammar.Grammar, tokens []string) bool {
	if len(tokens) < 2 {
		return false
	}
	prev := tokens[len(tokens)-2]
	if prev == "0" || g.IsUnit(prev) {
		return true
	}
	if len(tokens) >= 3 {
		compound := strings.ToLower(tokens[len(tokens)-3] + " " + tokens[len(tokens)-2])
		for _, cu := range g.CompoundUnits {
			if compound == cu {
				return true
			}
		}
	}
	return false
}

// rejectBarePrices applies the small-price guard: a run of sub-threshold
// amounts with no unit token just before it is a quantity fragment inside
// the description, not a price column.
func rejectBarePrices(g *grammar.Grammar, tokens []string, prices []internal.Price) bool {
	if g.MinBarePrice.IsZero() || len(prices) == 0 {
		return false
	}
	for _, p := range prices {
		if p.Sentinel != "" {
			return false
		}
		if p.Amount != nil && p.Amount.GreaterThanOrEqual(g.MinBarePrice) {
			return false
		}
	}
	if len(tokens) == 0 {
		return true
	}
	prev := tokens[len(tokens)-1]
	if g.IsUnit(prev) {
		return false
	}
	if g.IsLocation(prev) && len(tokens) >= 2 && g.IsUnit(tokens[len(tokens)-2]) {
		return false
	}
	return true
}

func priceTokens(prices []internal.Price) []string {
	out := make([]string, 0, len(prices))
	for i := len(prices) - 1; i >= 0; i-- {
		p := prices[i]
		if p.Sentinel != "" {
			out = append(out, p.Sentinel)
			continue
		}
		out = append(out, FormatPrice(*p.Amount))
	}
	return out
}

func reverse(prices []internal.Price) []internal.Price {
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	return prices
}

func cleanDescription(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), " :;,")
}
