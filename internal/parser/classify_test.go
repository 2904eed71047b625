package parser

import (
	"testing"

	"github.com/erenkarakoc/ekap-editor/internal/grammar"
)

func TestClassifyCSB(t *testing.T) {
	g := grammar.CSB()
	cases := []struct {
		name string
		line string
		prev string
		want LineKind
	}{
		{"item with inline tail", "10.100.1047 Soğuk demirci usta yardımcısı Sa 230,00", "", LineItemStart},
		{"item without price", "10.120.1010 Çelik boru 100 mm anma çaplı", "", LineItemStart},
		{"standalone date", "19.03.2003", "", LineGarbage},
		{"date with text", "19.03.2003 tarihli sözleşme esasları", "", LineReference},
		{"reference keyword", "10.100.1047 poz nolu işçilik dahil", "", LineReference},
		{"poz prefix folds into description", "Poz: 10.100.1047 uygulanır", "", LineContinuation},
		{"structural header", "25.102.1000 LAVABO TESİSATI: (Ölçü: Tk.)", "", LineStructuralHeader},
		{"category uppercase", "İNŞAAT İŞÇİLİĞİ", "", LineCategoryHeader},
		{"six-letter category", "KUMLAR", "", LineCategoryHeader},
		{"short uppercase fragment", "BETON", "", LineContinuation},
		{"category suffix", "Çimento Rayiçleri", "", LineCategoryHeader},
		{"continuation after conjunction", "KARIŞIM MALZEMELERİ", "ÇİMENTO İLE", LineContinuation},
		{"page marker", "-12-", "", LineGarbage},
		{"note line", "Not: nakliye hariçtir", "", LineGarbage},
		{"table header fragment", "Poz No", "", LineGarbage},
		{"price tail continuation", "Sa 230,00", "", LineContinuation},
		{"plain description", "Çelik boru 100 mm anma çaplı", "", LineContinuation},
	}
	for _, c := range cases {
		got := Classify(g, c.line, c.prev)
		if got.Kind != c.want {
			t.Errorf("%s: Classify(%q) = %v, want %v", c.name, c.line, got.Kind, c.want)
		}
	}
}

func TestClassifyCSBItemFields(t *testing.T) {
	g := grammar.CSB()
	got := Classify(g, "10.100.1047 Soğuk demirci usta yardımcısı Sa 230,00", "")
	if got.Code != "10.100.1047" {
		t.Errorf("Code = %q, want 10.100.1047", got.Code)
	}
	if got.Rest != "Soğuk demirci usta yardımcısı Sa 230,00" {
		t.Errorf("Rest = %q", got.Rest)
	}
}

func TestClassifyCSBSectionCategory(t *testing.T) {
	g := grammar.CSB()
	got := Classify(g, "10.110.-Bayındırlık Malzemeleri", "")
	if got.Kind != LineSectionCategory {
		t.Fatalf("Kind = %v, want LineSectionCategory", got.Kind)
	}
	if got.Category != "Bayındırlık Malzemeleri" {
		t.Errorf("Category = %q", got.Category)
	}
}

func TestClassifyCSBCodeFollowedBySlash(t *testing.T) {
	// "10.240.6003/6010-" is a code range citation, never an item start.
	g := grammar.CSB()
	got := Classify(g, "10.240.6003/6010- arası pozlar için geçerlidir", "")
	if got.Kind == LineItemStart {
		t.Fatalf("code range classified as item start")
	}
}

func TestClassifyDSI(t *testing.T) {
	g := grammar.DSI()
	cases := []struct {
		name string
		line string
		want LineKind
	}{
		{"formula entry", "55.107.1004 m³", LineFormulaItem},
		{"sentinel tail", "36.075.1102 İşletme tesisleri binası Faturadan", LineItemStart},
		{"letter section", "B. KAZI İŞLERİ", LineCategoryHeader},
		{"standard reference", "TS EN 196-1 deney yöntemi", LineContinuation},
		{"page number", "147", LineGarbage},
		{"note", "NOT: Bedeli ayrıca ödenir", LineGarbage},
	}
	for _, c := range cases {
		got := Classify(g, c.line, "")
		if got.Kind != c.want {
			t.Errorf("%s: Classify(%q) = %v, want %v", c.name, c.line, got.Kind, c.want)
		}
	}
}

func TestClassifyDSIFormulaUnit(t *testing.T) {
	g := grammar.DSI()
	got := Classify(g, "55.107.1004 m³", "")
	if got.Code != "55.107.1004" || got.Unit != "m³" {
		t.Errorf("Code/Unit = %q/%q", got.Code, got.Unit)
	}
}

func TestClassifyKTB(t *testing.T) {
	g := grammar.KTB()
	cases := []struct {
		name string
		line string
		want LineKind
	}{
		{"item", "KTB.1.1 Kesme taş sökülmesi M2 450,00 250,00 180,00", LineItemStart},
		{"prefixed item", "04.KTB.İNŞ.01 Moloz taş duvar örülmesi", LineItemStart},
		{"page marker", "--- PAGE 12 ---", LineGarbage},
		{"bare number", "2025", LineGarbage},
		{"section marker", "A- AHŞAP İŞLERİ", LineCategoryHeader},
		{"measurement value line", "Sertlik Derecesi 1,25 olan taşlar", LineContinuation},
	}
	for _, c := range cases {
		got := Classify(g, c.line, "")
		if got.Kind != c.want {
			t.Errorf("%s: Classify(%q) = %v, want %v", c.name, c.line, got.Kind, c.want)
		}
	}
}
