package grammar

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/erenkarakoc/ekap-editor/internal"
)

// DSI returns the grammar for the Devlet Su İşleri catalog. Single price
// column, unit column everywhere, no location column. Carries sentinel
// prices ("Tariften", "Faturadan", "Formüllerden") and bare code+unit
// formula entries, and its text dump opens with a ~112-line table of
// contents that must be skipped wholesale.
func DSI() *Grammar {
	return &Grammar{
		Source: internal.SourceDSI,

		CodePattern:     regexp.MustCompile(`^(\d{2}\.\d{3}\.\d{4}(?:/\d+)?)\b`),
		CodeScanPattern: regexp.MustCompile(`(\d{2}\.\d{3}\.\d{4}(?:/\d+)?)\b`),

		Units: set(
			"metre", "m", "m²", "m³", "m2", "m3",
			"m²-m³",
			"kg", "ton",
			"adet", "ad",
			"saat", "sa",
			"km", "km²", "km2",
			"nokta", "ha", "hektar", "dekar", "kesit",
			"pafta", "yil", "yıl", "sayfa", "ster",
			"litre", "lt", "istasyon", "parsel", "paket",
		),
		CompoundUnits: []string{"1000 adet", "parametre başı"},
		GluedUnits:    []string{"m²", "m³"},

		Locations:        set(),
		LocationSections: map[string]struct{}{},

		SentinelPrices:   set("Tariften", "Faturadan", "Formüllerden", "Formülden"),
		DashPlaceholders: true,
		FormulaSentinel:  "Formüllerden",

		MaxPrices:       1,
		LookaheadWindow: 15,

		HeaderMarkerPattern: regexp.MustCompile(`^[A-Z]\.\s+.+`),
		HeaderExcludes: patterns(
			`^\(`,
			`^\d+\s*-\s`,
			`^(TS|EN|ISO|ASTM|ACI|EPA|ISRM|VDG)\s`,
			`\bTS\s+(EN\s+)?(ISO\s+)?\d`,
			`(TS|EN|ISO|ASTM)\s*(EN\s*)?\d+[-\s]?\d*\s*$`,
			`^[)a-zçğıöşü]`,
			`[A-Z][a-z]?\d*O\d`, // chemical formulas in lab sections
			`PCB\s*\d`,
			`(?i)parametre\s*=`,
			`^(Ton|Adet)$`,
			`ayrı\)`,
			`İşletme İçi Meto[td]$`,
		),
		UppercaseRatio:  0.7,
		MinHeaderWords:  2,
		MinHeaderLength: 3,

		ReferenceKeywords: []string{"pozundaki gibidir"},

		GarbagePatterns: patterns(
			`^\d{1,3}$`, // standalone page number

			// Formula explanation blocks around the pump and energy items:
			// variable legends, coefficient tables and piecewise conditions
			// that would otherwise read as continuation text.
			`^Hal .*Çekilen su miktarı`,
			`^Hal \d\s*-\s`,
			`^F\s*=`,
			`^Q = Saatte metreküp$`,
			`^h = metre$`,
			`^K\d\s*=\s`,
			`^K\d?\s*=\s*Katsayı`,
			`^Yukarıdaki formüllerde:`,
			`^B = Temel`,
			`^\(B\) katsayısı`,
			`^\d+\s*m²?\s*<\s*S`,
			`^S\s*[<>]`,
			`^Bu toplam alan S ise:`,
			`^takdirde:`,
			`^(den|olduğu)\s`,
			`√M`,
			`M= …`,
			`^1 Ton yükün`,
			`\(\d{2}\.\d{3}\.\d{4}\) pozundaki gibidir`,
		),
		HeaderFragments: set(
			"POZ NO YAPILAN İŞİN TANIMI ÖLÇÜ BİRİMİ BİRİM",
			"FİYATI (TL)",
		),
		NotePrefixes:     []string{"NOT:", "Not:"},
		MinLineLength:    1,
		SkipLeadingLines: 112,

		MinBarePrice: decimal.Zero,

		RepairSplitUnit: true,
	}
}
