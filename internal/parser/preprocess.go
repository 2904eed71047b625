package parser

import (
	"regexp"
	"strings"

	"github.com/erenkarakoc/ekap-editor/internal/grammar"
)

var (
	splitPriceTail = regexp.MustCompile(`,\d$`)
	loneDigit      = regexp.MustCompile(`^\d$`)
	splitUnitNext  = regexp.MustCompile(`^3\s+[\d.]+,\d{2}$`)
)

// Preprocess repairs artifacts the upstream text extractor introduces at
// line boundaries, with one line of lookahead:
//
//   - a price cut after its first decimal digit ("140.000.000,0" + "0")
//     is rejoined by concatenation;
//   - a unit letter cut from its digit ("... m" + "3 1.234,56") is rejoined
//     into "... m3 1.234,56".
//
// It runs once over the whole input before any classification; later stages
// never re-invoke it.
func Preprocess(g *grammar.Grammar, lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\n")

		if g.RepairSplitPrice && i+1 < len(lines) && splitPriceTail.MatchString(line) {
			next := strings.TrimSpace(lines[i+1])
			if loneDigit.MatchString(next) {
				out = append(out, line+next)
				i++
				continue
			}
		}

		if g.RepairSplitUnit && i+1 < len(lines) {
			stripped := strings.TrimSpace(line)
			next := strings.TrimSpace(lines[i+1])
			if strings.HasSuffix(stripped, " m") && splitUnitNext.MatchString(next) {
				out = append(out, stripped+"3 "+strings.TrimSpace(next[1:]))
				i++
				continue
			}
		}

		out = append(out, line)
	}
	return out
}
