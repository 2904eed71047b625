package parser

import (
	"strings"

	"github.com/erenkarakoc/ekap-editor/internal/grammar"
	"github.com/erenkarakoc/ekap-editor/internal/util"
)

// LineKind is the typed outcome of classifying one input line. The
// assembler's transition table is a single switch over these variants.
type LineKind int

const (
	// LineGarbage is discarded with no state change; the pending buffer
	// survives page markers and header fragments untouched.
	LineGarbage LineKind = iota
	// LineCategoryHeader names a new classification group.
	LineCategoryHeader
	// LineSectionCategory is the dotted "NN.NNN.-Header" form: it sets the
	// category from its text without being a generic header line.
	LineSectionCategory
	// LineReference starts with something code-shaped that is actually a
	// citation to another item, or a calendar date. Folded into the
	// description buffer, never emitted alone.
	LineReference
	// LineStructuralHeader is a code line naming a price-less subsection
	// ("25.102.1000 LAVABO TESİSATI: (Ölçü: Tk.)").
	LineStructuralHeader
	// LineItemStart begins a genuine entry: Code and Rest are set.
	LineItemStart
	// LineFormulaItem is a bare "code + unit" formula-priced entry.
	LineFormulaItem
	// LineContinuation carries no code and no header: description or price
	// spillover belonging to a neighboring entry.
	LineContinuation
)

// Classification is the typed result for one line.
type Classification struct {
	Kind     LineKind
	Category string // LineCategoryHeader / LineSectionCategory
	Code     string // LineItemStart / LineFormulaItem
	Rest     string // LineItemStart: the line after the code
	Unit     string // LineFormulaItem
}

// Classify assigns a line its kind, in the fixed priority order garbage >
// header > section category > reference/date/structural > item start >
// continuation. prevLine is the previous non-garbage line, used to suppress
// header classification after a trailing conjunction.
func Classify(g *grammar.Grammar, line, prevLine string) Classification {
	stripped := strings.TrimSpace(line)

	if IsGarbageLine(g, stripped) {
		return Classification{Kind: LineGarbage}
	}

	if IsCategoryHeader(g, stripped, prevLine) {
		return Classification{Kind: LineCategoryHeader, Category: stripped}
	}

	if g.SectionHeaderPattern != nil {
		if m := g.SectionHeaderPattern.FindStringSubmatch(stripped); m != nil {
			return Classification{Kind: LineSectionCategory, Category: strings.TrimSpace(m[len(m)-1])}
		}
	}

	if code, rest, ok := MatchCode(g, stripped); ok {
		if g.DateShapedCodes && IsDateNotCode(code) {
			return Classification{Kind: LineReference}
		}
		if IsItemReference(g, stripped, rest) {
			return Classification{Kind: LineReference}
		}
		if isStructuralHeader(g, stripped) {
			return Classification{Kind: LineStructuralHeader}
		}
		if unit, ok := formulaUnit(g, stripped); ok {
			return Classification{Kind: LineFormulaItem, Code: code, Unit: unit}
		}
		return Classification{Kind: LineItemStart, Code: code, Rest: rest}
	}

	return Classification{Kind: LineContinuation}
}

// MatchCode matches the source's item-code grammar at the start of a line
// and returns the code and the remainder of the line.
func MatchCode(g *grammar.Grammar, line string) (code, rest string, ok bool) {
	idx := g.CodePattern.FindStringSubmatchIndex(line)
	if idx == nil || idx[2] != 0 {
		return "", "", false
	}
	code = line[idx[2]:idx[3]]
	rest = strings.TrimSpace(line[idx[3]:])
	return code, rest, true
}

// IsGarbageLine reports lines to drop without touching parser state: blank
// and near-blank lines, page markers, fixed header/footer fragments, note
// lines, and the per-source garbage patterns.
func IsGarbageLine(g *grammar.Grammar, stripped string) bool {
	if len([]rune(stripped)) < g.MinLineLength {
		return true
	}
	if _, ok := g.HeaderFragments[strings.ToLower(stripped)]; ok {
		return true
	}
	for _, prefix := range g.NotePrefixes {
		if strings.HasPrefix(stripped, prefix) {
			return true
		}
	}
	for _, re := range g.GarbagePatterns {
		if re.MatchString(stripped) {
			return true
		}
	}
	return false
}

// IsItemReference reports whether a code at the start of this line is a
// citation to another item rather than a definition: "Poz:" prefixes, a
// parenthetical alternate code right after the code, reference phrases
// ("poz nolu", "pozundan", locative suffixes), or a cross-reference marker
// anywhere in the line.
func IsItemReference(g *grammar.Grammar, line, afterCode string) bool {
	if g.ReferencePrefix != nil && g.ReferencePrefix.MatchString(line) {
		return true
	}
	if g.AltCodePattern != nil && g.AltCodePattern.MatchString(afterCode) {
		return true
	}
	lower := strings.ToLower(afterCode)
	for _, kw := range g.ReferenceKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if g.CrossRefPattern != nil && g.CrossRefPattern.MatchString(line) {
		return true
	}
	return false
}

func isStructuralHeader(g *grammar.Grammar, line string) bool {
	for _, re := range g.StructuralHeaderPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// formulaUnit recognizes the bare "code + unit" formula-priced entry form
// and returns the unit token.
func formulaUnit(g *grammar.Grammar, line string) (string, bool) {
	if g.FormulaSentinel == "" {
		return "", false
	}
	tokens := strings.Fields(line)
	if len(tokens) != 2 {
		return "", false
	}
	if !g.IsUnit(tokens[1]) {
		return "", false
	}
	return tokens[1], true
}

// IsCategoryHeader applies the source's header rules: a fixed suffix word, a
// section letter marker, or a mostly-uppercase line that is not an item
// line, a price-terminated line, a parenthetical spec, or a continuation of
// the previous line.
func IsCategoryHeader(g *grammar.Grammar, stripped, prevLine string) bool {
	if stripped == "" {
		return false
	}

	for _, suffix := range g.HeaderSuffixes {
		if strings.HasSuffix(stripped, suffix) {
			return true
		}
	}

	// Price-terminated always wins over header classification.
	if HasPriceTail(g, stripped) {
		return false
	}
	if _, _, ok := MatchCode(g, stripped); ok {
		return false
	}
	for _, re := range g.HeaderExcludes {
		if re.MatchString(stripped) {
			return false
		}
	}

	if g.HeaderMarkerPattern != nil && g.HeaderMarkerPattern.MatchString(stripped) {
		return true
	}

	if len([]rune(stripped)) <= g.MinHeaderLength {
		return false
	}
	letterWords, upperWords := util.UppercaseWordRatio(stripped)
	if letterWords < g.MinHeaderWords || letterWords == 0 {
		return false
	}
	if float64(upperWords) < float64(letterWords)*g.UppercaseRatio {
		return false
	}

	if prevLine != "" {
		prevUpper := strings.ToUpper(strings.TrimSpace(prevLine))
		for _, marker := range g.ContinuationMarkers {
			if strings.HasSuffix(prevUpper, marker) {
				return false
			}
		}
	}
	return true
}
