package parser

import (
	"strings"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/grammar"
	"github.com/erenkarakoc/ekap-editor/internal/util"
)

// Parser assembles records from classified lines. State is one open entry
// waiting for its price tail, one context buffer of descriptive lines seen
// before any code, and the current category.
type Parser struct {
	g *grammar.Grammar
}

// New returns a parser for the given grammar.
func New(g *grammar.Grammar) *Parser {
	return &Parser{g: g}
}

// openEntry is a code line whose price tail has not arrived yet. parts
// accumulates the entry's text across lines; context holds descriptive
// lines that preceded the code.
type openEntry struct {
	code    string
	parts   []string
	context []string
	waited  int
}

// Parse runs the full pipeline on raw lines: preprocessing repairs, leading
// skip, then the line-by-line assembly. Lines that never complete within the
// lookahead window are emitted without prices rather than dropped.
func (p *Parser) Parse(lines []string) []internal.Record {
	g := p.g
	lines = Preprocess(g, lines)
	if g.SkipLeadingLines > 0 && len(lines) > g.SkipLeadingLines {
		lines = lines[g.SkipLeadingLines:]
	}

	var (
		records  []internal.Record
		category *string
		context  []string
		open     *openEntry
		prev     string
	)

	flush := func() {
		if open == nil {
			return
		}
		desc := cleanDescription(strings.Join(append(append([]string{}, open.context...), open.parts...), " "))
		if desc != "" {
			records = append(records, internal.Record{
				ItemCode:    open.code,
				Description: desc,
				Category:    category,
			})
		}
		open = nil
	}

	for _, raw := range lines {
		stripped := strings.TrimSpace(util.NormalizeSpaces(raw))
		c := Classify(g, stripped, prev)

		switch c.Kind {
		case LineGarbage:
			// Page breaks and repeated table headers; state survives.
			continue

		case LineCategoryHeader:
			flush()
			category = util.StringPtr(c.Category)
			context = nil

		case LineSectionCategory:
			flush()
			category = util.StringPtr(c.Category)

		case LineReference:
			if open != nil {
				open.parts = append(open.parts, stripped)
				open.waited++
			} else {
				context = append(context, stripped)
			}

		case LineStructuralHeader:
			// Subsection naming line, neither item nor description.

		case LineFormulaItem:
			flush()
			records = append(records, internal.Record{
				ItemCode:    c.Code,
				Description: g.FormulaSentinel,
				Unit:        util.StringPtr(c.Unit),
				Prices:      []internal.Price{{Sentinel: g.FormulaSentinel}},
				Category:    category,
			})
			context = nil

		case LineItemStart:
			flush()
			if first, second, ok := p.splitTwoCodes(stripped); ok {
				records = p.emitComplete(records, first, category, nil)
				stripped = second
				code, rest, matched := MatchCode(g, second)
				if !matched {
					context = nil
					break
				}
				c.Code, c.Rest = code, rest
			}
			if HasPriceTail(g, stripped) {
				t := ExtractTail(g, c.Rest, c.Code)
				desc := t.Description
				if desc == "" && len(context) > 0 {
					desc = cleanDescription(strings.Join(context, " "))
				}
				records = append(records, record(c.Code, desc, t, category))
			} else {
				open = &openEntry{code: c.Code, context: context}
				if c.Rest != "" {
					open.parts = []string{c.Rest}
				}
			}
			context = nil

		case LineContinuation:
			if open == nil {
				context = append(context, stripped)
				break
			}
			open.parts = append(open.parts, stripped)
			open.waited++
			if HasPriceTail(g, stripped) {
				t := ExtractTail(g, strings.Join(open.parts, " "), open.code)
				if t.Complete() {
					desc := t.Description
					if desc == "" && len(open.context) > 0 {
						desc = cleanDescription(strings.Join(open.context, " "))
					}
					records = append(records, record(open.code, desc, t, category))
					open = nil
					break
				}
			}
			if open.waited >= g.LookaheadWindow {
				flush()
			}
		}

		prev = stripped
	}

	flush()
	return records
}

// splitTwoCodes detects two entries pasted onto one physical line. The split
// applies only when the first half is itself price-terminated; otherwise the
// second code is almost always a reference inside the description.
func (p *Parser) splitTwoCodes(line string) (first, second string, ok bool) {
	if p.g.CodeScanPattern == nil {
		return "", "", false
	}
	locs := p.g.CodeScanPattern.FindAllStringIndex(line, 2)
	if len(locs) < 2 || locs[0][0] != 0 {
		return "", "", false
	}
	first = strings.TrimSpace(line[:locs[1][0]])
	second = strings.TrimSpace(line[locs[1][0]:])
	if !HasPriceTail(p.g, first) {
		return "", "", false
	}
	return first, second, true
}

// emitComplete parses one self-contained entry line and appends its record.
func (p *Parser) emitComplete(records []internal.Record, line string, category *string, context []string) []internal.Record {
	code, rest, ok := MatchCode(p.g, line)
	if !ok {
		return records
	}
	t := ExtractTail(p.g, rest, code)
	desc := t.Description
	if desc == "" && len(context) > 0 {
		desc = cleanDescription(strings.Join(context, " "))
	}
	return append(records, record(code, desc, t, category))
}

func record(code, desc string, t Tail, category *string) internal.Record {
	return internal.Record{
		ItemCode:    code,
		Description: desc,
		Unit:        t.Unit,
		Location:    t.Location,
		Prices:      t.Prices,
		Category:    category,
	}
}
