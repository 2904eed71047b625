package grammar

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/erenkarakoc/ekap-editor/internal"
)

// CSB returns the grammar for the Çevre ve Şehircilik Bakanlığı catalog.
// Two table layouts share one document: rayiç sections (code, description,
// unit, location, price) and birim fiyat sections (code, description, unit
// price, installation price). Only the 10.100/10.130 rayiç sections carry a
// unit column, and only 10.130 a location column.
func CSB() *Grammar {
	return &Grammar{
		Source: internal.SourceCSB,

		// Codes not followed by "/" or "-": those are references like
		// "10.240.6003/6010-".
		CodePattern:     regexp.MustCompile(`^(\d{2}\.\d{2,3}\.\d{4,5})(?:[^/\-]|$)`),
		DateShapedCodes: true,

		Units: set(
			"m", "m²", "m³", "mt", "cm", "cm²", "cm³", "mm", "mm2", "mm.",
			"kg", "gr", "ton", "kwh", "kw", "kva",
			"adet", "ad", "ad.", "takım", "tk", "tk.", "set",
			"sa", "saat", "gün", "dakika",
			"lt", "km", "dm³", "ø mm",
		),
		GluedUnits: []string{"m²", "m³", "cm²", "cm³", "dm³"},

		Locations:         set("İşbaşında", "Fabrikada", "Depoda", "Ocakta"),
		LocationAfterUnit: true,

		UnitSections:     set("10.100", "10.130"),
		LocationSections: set("10.130"),

		MaxPrices:       2,
		LookaheadWindow: 15,

		HeaderSuffixes:       []string{"Rayiçleri"},
		SectionHeaderPattern: regexp.MustCompile(`^(\d{2}\.\d{2,3})\.-(.+)$`),
		HeaderExcludes: patterns(
			`^\(`,
			`\)$`,
			`TS EN`,
			`\bTS `,
			`\bCEM `,
		),
		ContinuationMarkers: []string{
			" VE", " İLE", " VEYA", " YA DA",
			" İÇİN", " DAHİL", " OLMAK", " OLAN", " OLARAK",
		},
		UppercaseRatio:  1.0,
		MinHeaderWords:  1,
		MinHeaderLength: 5,

		ReferenceKeywords: []string{
			"poz nolu", "pozundan", "pozuna", "pozunu", "poz no",
			"pozların", "pozundaki",
			"'de ", "'da ", "'den ", "'dan ", "'deki", "'daki",
			"ile aynı",
		},
		ReferencePrefix: regexp.MustCompile(`(?i)^poz[\s.:]+`),
		AltCodePattern:  regexp.MustCompile(`^\s*\(\d{2}\.\d{3}\)`),
		CrossRefPattern: regexp.MustCompile(`BFT\s+\d{2}\.\d{2,3}\.\d{4}`),
		StructuralHeaderPatterns: patterns(
			`\(Ölçü\s*:`,
			`:$`,
			`:\s*\(Ölçü`,
			`:\s*\(TS`,
		),

		GarbagePatterns: patterns(
			`^\d{2}\.\d{2}\.\d{4}$`, // standalone date line
			`^-\d+-$`,               // page marker
			`[A-Z]\s*=\s*[\d,.]+\s*x`, // formula line
		),
		HeaderFragments: set(
			"Sıra", "Poz No", "Tanımı", "Ölçü", "Birimi", "Rayiç",
			"Fiyatı", "TL", "Montajlı", "Birim Fiyat", "Montaj Bedeli",
			"Yapılacak İşin Cinsi", "Satın Alma", "Yeri", "No",
			"Poz No Tanımı", "Rayiç Fiyatı",
		),
		NotePrefixes:  []string{"Not:", "NOT:", "NOT "},
		MinLineLength: 3,

		MinBarePrice: decimal.Zero,

		RepairSplitPrice: true,
	}
}
