package grammar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverride(t *testing.T) {
	tmp := t.TempDir()
	blob := `
lookahead_window = 25
min_bare_price = "50"
extra_units = ["çuval"]
extra_sentinels = ["Pazarlıktan"]
`
	if err := os.WriteFile(filepath.Join(tmp, "ktb.toml"), []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}

	g := KTB()
	if err := LoadOverride(g, tmp); err != nil {
		t.Fatal(err)
	}

	if g.LookaheadWindow != 25 {
		t.Errorf("lookahead = %d", g.LookaheadWindow)
	}
	if g.MinBarePrice.String() != "50" {
		t.Errorf("min bare price = %s", g.MinBarePrice)
	}
	if !g.IsUnit("çuval") {
		t.Error("extra unit not applied")
	}
	if !g.IsSentinelPrice("pazarlıktan") {
		t.Error("extra sentinel not applied")
	}
}

func TestLoadOverrideMissingFile(t *testing.T) {
	g := CSB()
	if err := LoadOverride(g, t.TempDir()); err != nil {
		t.Fatal(err)
	}
}

func TestSectionGating(t *testing.T) {
	g := CSB()
	if !g.SectionHasUnit("10.100.1047") {
		t.Error("10.100 should carry a unit column")
	}
	if g.SectionHasUnit("15.435.1001") {
		t.Error("15.435 should not carry a unit column")
	}
	if !g.SectionHasLocation("10.130.1003") {
		t.Error("10.130 should carry a location column")
	}
	if g.SectionHasLocation("10.100.1047") {
		t.Error("10.100 should not carry a location column")
	}

	d := DSI()
	if !d.SectionHasUnit("07.005.1001") {
		t.Error("every DSİ section carries a unit column")
	}
	if d.SectionHasLocation("07.005.1001") {
		t.Error("DSİ has no location column")
	}
}
