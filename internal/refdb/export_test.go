package refdb

import (
	"strings"
	"testing"
)

func TestPricedHeadersWideLayout(t *testing.T) {
	h := pricedHeaders()
	want := 12 + 3*(lastPricePeriod-firstPricePeriod+1)
	if len(h) != want {
		t.Fatalf("headers = %d, want %d", len(h), want)
	}
	if h[4] != "has_transport" || h[11] != "long_description" {
		t.Errorf("metadata columns = %v", h[4:12])
	}
	if h[12] != "unit_price_p40" {
		t.Errorf("first price column = %q", h[12])
	}
	if h[len(h)-1] != "labor_price_p50" {
		t.Errorf("last price column = %q", h[len(h)-1])
	}
}

func TestPricedQueryColumns(t *testing.T) {
	q := pricedQuery()
	for _, col := range []string{"nak", "tiptan", "uzuntan", "bf40, mf40, df40", "bf50, mf50, df50"} {
		if !strings.Contains(q, col) {
			t.Errorf("query missing %q:\n%s", col, q)
		}
	}
}

func TestSheetNameCapAndPunctuation(t *testing.T) {
	got := sheetName("20 - Tesisat — Sıhhi (Su-Boru) ve daha uzun bir ek")
	if n := len([]rune(got)); n > 31 {
		t.Errorf("sheet name %q is %d runes", got, n)
	}
	if got := sheetName("a/b:c"); got != "a-b-c" {
		t.Errorf("punctuation not replaced: %q", got)
	}
}
