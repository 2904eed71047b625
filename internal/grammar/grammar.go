// Package grammar holds the per-source rule tables that parameterize the
// parser engine. CSB, DSİ and KTB catalogs share one line grammar shape but
// differ in code patterns, unit vocabularies, column layouts and header
// conventions; each source is a data table here, not a code fork.
package grammar

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erenkarakoc/ekap-editor/internal"
)

// Grammar is the full rule set for one document family. All fields are
// read-only after construction; the parser never mutates a Grammar.
type Grammar struct {
	Source internal.Source

	// CodePattern matches an item code at the start of a line; the first
	// capture group is the code itself.
	CodePattern *regexp.Regexp
	// CodeScanPattern finds codes anywhere in a line, used to split two
	// entries sharing one physical line. Nil disables the split check.
	CodeScanPattern *regexp.Regexp
	// DateShapedCodes is set when the code grammar collides with the
	// DD.MM.YYYY date shape and candidates must pass a calendar check.
	DateShapedCodes bool

	// Units is the lowercase single-token unit vocabulary. CompoundUnits
	// are lowercase two-word forms checked before single tokens. GluedUnits
	// are suffixes like "m²" that may not tokenize as separate words.
	Units         map[string]struct{}
	CompoundUnits []string
	GluedUnits    []string
	// UppercaseUnits lists units rendered uppercase in output (KTB habit).
	UppercaseUnits map[string]struct{}

	// Locations is the closed purchase/delivery-site vocabulary, stored
	// lowercase.
	Locations map[string]struct{}
	// LocationAfterUnit is set when the location token sits between the
	// unit and the price tail (CSB column order); otherwise the location
	// precedes the unit (KTB).
	LocationAfterUnit bool

	// UnitSections/LocationSections gate extraction by the code's section
	// prefix (first two dotted groups). Nil means every section carries the
	// column; an empty map means none does.
	UnitSections     map[string]struct{}
	LocationSections map[string]struct{}

	// SentinelPrices are the non-numeric price words ("Formüllerden",
	// "Değişken"), compared case-insensitively. DashPlaceholders allows
	// "-" / "---" (and "0 -") as a no-charge price tail.
	SentinelPrices   map[string]struct{}
	DashPlaceholders bool
	// FormulaSentinel fills both price and description for bare code+unit
	// formula entries. Empty disables formula-entry recognition.
	FormulaSentinel string

	// MaxPrices bounds the trailing price run (1 for DSİ, 2 for CSB,
	// 3 for KTB).
	MaxPrices int
	// MinBarePrice, when positive, rejects a trailing price below this
	// value unless a known unit precedes the price run. Corpus-tuned;
	// overridable via TOML.
	MinBarePrice decimal.Decimal
	// LookaheadWindow bounds the multi-line price search after a priceless
	// code line.
	LookaheadWindow int

	// Header classification.
	HeaderSuffixes       []string
	SectionHeaderPattern *regexp.Regexp // dotted-prefix ".-" category form
	HeaderMarkerPattern  *regexp.Regexp // "A." / "B-" section letter forms
	HeaderExcludes       []*regexp.Regexp
	ContinuationMarkers  []string // uppercase suffixes of the previous line
	UppercaseRatio       float64
	MinHeaderWords       int
	MinHeaderLength      int

	// Reference detection: a code followed by these phrases is a citation,
	// not a definition.
	ReferenceKeywords []string
	ReferencePrefix   *regexp.Regexp
	AltCodePattern    *regexp.Regexp
	CrossRefPattern   *regexp.Regexp
	// StructuralHeaderPatterns mark code lines that name a subsection
	// rather than a priced item.
	StructuralHeaderPatterns []*regexp.Regexp

	// Garbage detection.
	GarbagePatterns []*regexp.Regexp
	HeaderFragments map[string]struct{}
	NotePrefixes    []string
	MinLineLength   int
	SkipLeadingLines int // table-of-contents prefix to drop (DSİ)

	// Preprocessor repair toggles.
	RepairSplitPrice bool // price decimal digit split onto the next line
	RepairSplitUnit  bool // "m" + "3 <price>" split unit
}

// ForSource returns the built-in grammar for a document family.
func ForSource(src internal.Source) (*Grammar, bool) {
	switch src {
	case internal.SourceCSB:
		return CSB(), true
	case internal.SourceDSI:
		return DSI(), true
	case internal.SourceKTB:
		return KTB(), true
	default:
		return nil, false
	}
}

// SectionPrefix returns the first two dotted groups of a code
// ("10.100.1047" -> "10.100"). Codes with fewer groups return themselves.
func SectionPrefix(code string) string {
	parts := strings.Split(code, ".")
	if len(parts) < 2 {
		return code
	}
	return parts[0] + "." + parts[1]
}

// SectionHasUnit reports whether records in the code's section carry a unit
// column.
func (g *Grammar) SectionHasUnit(code string) bool {
	if g.UnitSections == nil {
		return true
	}
	_, ok := g.UnitSections[SectionPrefix(code)]
	return ok
}

// SectionHasLocation reports whether records in the code's section carry a
// location column.
func (g *Grammar) SectionHasLocation(code string) bool {
	if g.LocationSections == nil {
		return true
	}
	_, ok := g.LocationSections[SectionPrefix(code)]
	return ok
}

// IsUnit reports whether the token belongs to the unit vocabulary. A single
// trailing dot is ignored so "Ad." matches "ad".
func (g *Grammar) IsUnit(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := g.Units[lower]; ok {
		return true
	}
	_, ok := g.Units[strings.TrimSuffix(lower, ".")]
	return ok
}

// NormalizeUnit applies the source's output casing to a recognized unit.
func (g *Grammar) NormalizeUnit(token string) string {
	if g.UppercaseUnits == nil {
		return token
	}
	if _, ok := g.UppercaseUnits[strings.ToLower(token)]; ok {
		return strings.ToUpper(token)
	}
	return token
}

// IsLocation reports whether the token is a purchase/delivery-site word.
func (g *Grammar) IsLocation(token string) bool {
	_, ok := g.Locations[strings.ToLower(token)]
	return ok
}

// IsSentinelPrice reports whether the token is a non-numeric price word.
func (g *Grammar) IsSentinelPrice(token string) bool {
	if g.SentinelPrices == nil {
		return false
	}
	_, ok := g.SentinelPrices[strings.ToLower(token)]
	return ok
}

func set(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[strings.ToLower(w)] = struct{}{}
	}
	return out
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}
