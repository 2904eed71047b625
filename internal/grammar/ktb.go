package grammar

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/erenkarakoc/ekap-editor/internal"
)

// KTB returns the grammar for the Kültür ve Turizm Bakanlığı (Vakıflar)
// restoration catalog. Codes are prefix-shaped rather than purely numeric,
// up to three prices per line (unit, installation, removal), and a trailing
// small price only counts when a unit precedes it. The document is full of
// measurement values like "Sertlik Derecesi 1,25" that would otherwise read
// as prices.
func KTB() *Grammar {
	return &Grammar{
		Source: internal.SourceKTB,

		CodePattern: regexp.MustCompile(`^((?:04\.KTB\.|04\.V\d|01\.V\d|V\.\d|KTB\.\d)\S*)`),

		Units: set(
			"m2", "m²", "m3", "m³", "m", "mt", "tul", "cm", "mm",
			"mmxm", "mm/m", "metre",
			"kg", "gr", "ton", "kt", "kwh", "kutu", "paket",
			"adet", "ad", "ad.", "takım", "tk", "tk.", "set",
			"sa", "saat", "gün", "dakika", "sefer", "defa",
			"lt", "km", "kg/m2", "gr/m2", "ton/m3", "cm²",
		),
		GluedUnits: []string{"m²", "m³", "cm²"},
		UppercaseUnits: set(
			"m2", "m3", "m", "kg", "ad", "tk", "sa", "lt", "km", "ton", "kt",
		),

		Locations: set("işbaşında", "fabrikada", "depoda", "ocakta"),

		SentinelPrices: set("Değişken"),

		MaxPrices:       3,
		MinBarePrice:    decimal.NewFromInt(100),
		LookaheadWindow: 15,

		HeaderMarkerPattern: regexp.MustCompile(`^[A-Z0-9]-\s`),
		HeaderExcludes: patterns(
			`^\(`,
			`^[()TSENIO0-9\-,\s]+\)?$`, // bare standard references
		),
		UppercaseRatio:  0.7,
		MinHeaderWords:  1,
		MinHeaderLength: 3,

		GarbagePatterns: patterns(
			`(?i)--- PAGE`,
			`(?i)BİRİM FİYAT EKİ`,
			`(?i)01 OCAK 2025`,
			`^T\.C\.$`,
			`(?i)SAYFA NO`,
			`^POZ NO$`,
			`(?i)İMALAT ÇEŞİDİ`,
			`(?i)ÖLÇÜ BİRİMİ`,
			`(?i)^MONTAJ FİYAT`,
			`^-\d+-$`,
			`^\d+$`,
		),
		MinLineLength: 1,
	}
}
