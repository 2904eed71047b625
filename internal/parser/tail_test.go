package parser

import (
	"testing"

	"github.com/erenkarakoc/ekap-editor/internal/grammar"
)

func priceString(t *testing.T, tail Tail, idx int) string {
	t.Helper()
	if idx >= len(tail.Prices) {
		t.Fatalf("no price slot %d (got %d)", idx, len(tail.Prices))
	}
	p := tail.Prices[idx]
	if p.Sentinel != "" {
		return p.Sentinel
	}
	return FormatPrice(*p.Amount)
}

func TestExtractTailCSBRayic(t *testing.T) {
	g := grammar.CSB()
	tail := ExtractTail(g, "Soğuk demirci usta yardımcısı Sa 230,00", "10.100.1047")
	if got := priceString(t, tail, 0); got != "230,00" {
		t.Errorf("price = %q", got)
	}
	if tail.Unit == nil || *tail.Unit != "Sa" {
		t.Errorf("unit = %v, want Sa", tail.Unit)
	}
	if tail.Location != nil {
		t.Errorf("location should be gated off for 10.100, got %v", *tail.Location)
	}
	if tail.Description != "Soğuk demirci usta yardımcısı" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailCSBLocation(t *testing.T) {
	// Rayiç column order is description, unit, location, price: the
	// location sits next to the price and is popped before the unit.
	g := grammar.CSB()
	tail := ExtractTail(g, "Çimento (torbalı) kg İşbaşında 2,50", "10.130.1003")
	if tail.Unit == nil || *tail.Unit != "kg" {
		t.Fatalf("unit = %v", tail.Unit)
	}
	if tail.Location == nil || *tail.Location != "İşbaşında" {
		t.Fatalf("location = %v", tail.Location)
	}
	if tail.Description != "Çimento (torbalı)" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailCSBTwoPrices(t *testing.T) {
	// Birim fiyat sections carry price and installation price but no unit
	// column; the unit token stays in the description.
	g := grammar.CSB()
	tail := ExtractTail(g, "Panel radyatör montajı 1.500,00 250,00", "15.435.1001")
	if len(tail.Prices) != 2 {
		t.Fatalf("prices = %d, want 2", len(tail.Prices))
	}
	if got := priceString(t, tail, 0); got != "1500,00" {
		t.Errorf("base price = %q", got)
	}
	if got := priceString(t, tail, 1); got != "250,00" {
		t.Errorf("install price = %q", got)
	}
	if tail.Unit != nil {
		t.Errorf("unit should be gated off for 15.435, got %q", *tail.Unit)
	}
}

func TestExtractTailDSISentinel(t *testing.T) {
	g := grammar.DSI()
	tail := ExtractTail(g, "İşletme tesisleri binası Faturadan", "36.075.1102")
	if got := priceString(t, tail, 0); got != "Faturadan" {
		t.Errorf("price = %q", got)
	}
	if tail.Description != "İşletme tesisleri binası" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailDSIDashPlaceholder(t *testing.T) {
	g := grammar.DSI()
	tail := ExtractTail(g, "Su numunesi alınması adet -", "41.205.1010")
	if got := priceString(t, tail, 0); got != "-" {
		t.Fatalf("price = %q, want dash placeholder", got)
	}
	if tail.Unit == nil || *tail.Unit != "adet" {
		t.Errorf("unit = %v", tail.Unit)
	}
}

func TestExtractTailDSIDashCompoundUnitAnchor(t *testing.T) {
	g := grammar.DSI()
	tail := ExtractTail(g, "Mikrobiyolojik analiz parametre başı -", "42.110.1020")
	if got := priceString(t, tail, 0); got != "-" {
		t.Fatalf("price = %q, want dash placeholder", got)
	}
	if tail.Unit == nil || *tail.Unit != "parametre başı" {
		t.Errorf("unit = %v", tail.Unit)
	}
	if tail.Description != "Mikrobiyolojik analiz" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailDSIZeroDash(t *testing.T) {
	// "0 -" is a zero price with a footnote dash; both tokens belong to
	// the price tail.
	g := grammar.DSI()
	tail := ExtractTail(g, "Enerji bedeli 0 -", "55.107.1010")
	if got := priceString(t, tail, 0); got != "-" {
		t.Fatalf("price = %q, want dash placeholder", got)
	}
	if tail.Description != "Enerji bedeli" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailDSIDashWithoutAnchor(t *testing.T) {
	// A trailing hyphen with no unit before it is description text.
	g := grammar.DSI()
	tail := ExtractTail(g, "Beton santrali ile üretim -", "15.140.1001")
	if len(tail.Prices) != 0 {
		t.Fatalf("unanchored dash extracted as price: %v", tail.Prices)
	}
}

func TestExtractTailDSICompoundUnit(t *testing.T) {
	g := grammar.DSI()
	tail := ExtractTail(g, "Mikrobiyolojik analiz parametre başı 870,00", "42.110.1020")
	if tail.Unit == nil || *tail.Unit != "parametre başı" {
		t.Fatalf("unit = %v", tail.Unit)
	}
	if tail.Description != "Mikrobiyolojik analiz" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailKTBThreePrices(t *testing.T) {
	g := grammar.KTB()
	tail := ExtractTail(g, "Kesme taş sökülmesi M2 450,00 250,00 180,00", "KTB.1.1")
	if len(tail.Prices) != 3 {
		t.Fatalf("prices = %d, want 3", len(tail.Prices))
	}
	if priceString(t, tail, 0) != "450,00" || priceString(t, tail, 1) != "250,00" || priceString(t, tail, 2) != "180,00" {
		t.Errorf("price order wrong: %v", tail.Prices)
	}
	if tail.Unit == nil || *tail.Unit != "M2" {
		t.Errorf("unit = %v", tail.Unit)
	}
}

func TestExtractTailKTBLocation(t *testing.T) {
	// KTB columns run description, location, unit, price: the unit sits
	// next to the price and is popped before the location.
	g := grammar.KTB()
	tail := ExtractTail(g, "Çam kerestesi Depoda M3 9.500,00", "V.0201")
	if got := priceString(t, tail, 0); got != "9500,00" {
		t.Errorf("price = %q", got)
	}
	if tail.Unit == nil || *tail.Unit != "M3" {
		t.Fatalf("unit = %v", tail.Unit)
	}
	if tail.Location == nil || *tail.Location != "Depoda" {
		t.Fatalf("location = %v", tail.Location)
	}
	if tail.Description != "Çam kerestesi" {
		t.Errorf("description = %q", tail.Description)
	}
}

func TestExtractTailKTBSmallPriceGuard(t *testing.T) {
	g := grammar.KTB()

	// Measurement value without a unit: not a price.
	tail := ExtractTail(g, "Sertlik Derecesi 1,25", "KTB.2.7")
	if len(tail.Prices) != 0 {
		t.Fatalf("small bare value extracted as price: %v", tail.Prices)
	}
	if tail.Description != "Sertlik Derecesi 1,25" {
		t.Errorf("description = %q", tail.Description)
	}

	// Same magnitude with a unit before it: a genuine price.
	tail = ExtractTail(g, "Derz açılması m 85,00", "KTB.2.8")
	if len(tail.Prices) != 1 {
		t.Fatalf("unit-anchored small price rejected")
	}
	if got := priceString(t, tail, 0); got != "85,00" {
		t.Errorf("price = %q", got)
	}
}

func TestExtractTailGluedUnit(t *testing.T) {
	g := grammar.DSI()
	tail := ExtractTail(g, "Dolgu yapılması kazım³ 145,00", "15.160.1010")
	if tail.Unit == nil || *tail.Unit != "m³" {
		t.Fatalf("unit = %v", tail.Unit)
	}
	if tail.Description != "Dolgu yapılması kazı" {
		t.Errorf("description = %q", tail.Description)
	}
}
