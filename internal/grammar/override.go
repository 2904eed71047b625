package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Override is the TOML shape for per-source grammar tuning. Several of the
// engine's tie-break thresholds are empirically fitted against one observed
// document per family, so they ship as data rather than code.
type Override struct {
	LookaheadWindow *int     `toml:"lookahead_window"`
	MinBarePrice    *string  `toml:"min_bare_price"`
	ExtraUnits      []string `toml:"extra_units"`
	ExtraLocations  []string `toml:"extra_locations"`
	ExtraSentinels  []string `toml:"extra_sentinels"`
	ExtraGarbage    []string `toml:"extra_garbage"`
}

// LoadOverride applies <dir>/<source>.toml on top of the given grammar, if
// the file exists. A missing file is not an error; a malformed one is.
func LoadOverride(g *Grammar, dir string) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, string(g.Source)+".toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var ov Override
	if err := toml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("grammar override %s: %w", path, err)
	}
	return ov.Apply(g)
}

// Apply mutates the grammar in place with the override's values.
func (ov Override) Apply(g *Grammar) error {
	if ov.LookaheadWindow != nil && *ov.LookaheadWindow > 0 {
		g.LookaheadWindow = *ov.LookaheadWindow
	}
	if ov.MinBarePrice != nil {
		min, err := decimal.NewFromString(*ov.MinBarePrice)
		if err != nil {
			return fmt.Errorf("min_bare_price: %w", err)
		}
		g.MinBarePrice = min
	}
	for _, u := range ov.ExtraUnits {
		g.Units[strings.ToLower(u)] = struct{}{}
	}
	for _, l := range ov.ExtraLocations {
		if g.Locations == nil {
			g.Locations = map[string]struct{}{}
		}
		g.Locations[strings.ToLower(l)] = struct{}{}
	}
	for _, s := range ov.ExtraSentinels {
		if g.SentinelPrices == nil {
			g.SentinelPrices = map[string]struct{}{}
		}
		g.SentinelPrices[strings.ToLower(s)] = struct{}{}
	}
	if len(ov.ExtraGarbage) > 0 {
		g.GarbagePatterns = append(g.GarbagePatterns, patterns(ov.ExtraGarbage...)...)
	}
	return nil
}
