package internal

import "github.com/shopspring/decimal"

// Source identifies the document family a record was extracted from. Each
// family has its own line grammar (code pattern, unit vocabulary, column
// layout) configured in internal/grammar.
type Source string

const (
	SourceCSB Source = "csb"
	SourceDSI Source = "dsi"
	SourceKTB Source = "ktb"
)

// Price is a single price cell: either a numeric amount in Turkish lira or a
// sentinel text standing in for an intentionally non-numeric price
// ("Formüllerden", "Faturadan", "Değişken", dash placeholders). At most one
// of Amount/Sentinel is set; both empty means no price was found.
type Price struct {
	Amount   *decimal.Decimal
	Sentinel string
}

// IsEmpty reports whether the price carries neither an amount nor a sentinel.
func (p Price) IsEmpty() bool {
	return p.Amount == nil && p.Sentinel == ""
}

// Record is one normalized catalog entry. Price slots are positional:
// index 0 is the base/unit price, 1 the installation price, 2 the removal
// price; trailing absent slots are omitted.
type Record struct {
	ItemCode    string
	Description string
	Unit        *string
	Location    *string
	Prices      []Price
	Category    *string
}

// UnitPrice returns the base price slot, or an empty Price when none was
// extracted.
func (r Record) UnitPrice() Price {
	if len(r.Prices) > 0 {
		return r.Prices[0]
	}
	return Price{}
}

// InstallPrice returns the installation price slot, if present.
func (r Record) InstallPrice() *Price {
	if len(r.Prices) > 1 {
		return &r.Prices[1]
	}
	return nil
}

// RemovalPrice returns the removal (demolition) price slot, if present.
func (r Record) RemovalPrice() *Price {
	if len(r.Prices) > 2 {
		return &r.Prices[2]
	}
	return nil
}

// RunRow is a stored parse run.
type RunRow struct {
	ID        string
	Source    string
	InputRef  string
	Records   int
	Priced    int
	CreatedAt string
}

// PageEntry is one entry returned by the vision extractor for a page image.
// Field names follow the JSON contract of the extraction prompt.
type PageEntry struct {
	ItemCode     string   `json:"poz_no"`
	Description  string   `json:"description"`
	Unit         *string  `json:"unit"`
	Location     *string  `json:"location"`
	UnitPrice    *float64 `json:"birim_fiyat"`
	InstallPrice *float64 `json:"montaj_fiyat"`
	Category     *string  `json:"category"`
}

// PageResult is the vision extractor's output for one page. A page that
// exhausted its retry budget yields a zero PageResult, never an error, so
// the job can continue with the next page.
type PageResult struct {
	PageCategory *string     `json:"page_category"`
	Entries      []PageEntry `json:"entries"`
}
