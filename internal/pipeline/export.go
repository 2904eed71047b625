package pipeline

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/parser"
	"github.com/erenkarakoc/ekap-editor/internal/util"
)

// Column layouts differ per source: CSB carries a purchase-site column and
// two prices, DSİ a single price and no location, KTB three prices.
func exportHeaders(source internal.Source) []string {
	switch source {
	case internal.SourceCSB:
		return []string{"POZ_NO", "DESCRIPTION", "UNIT", "SATIN_ALMA_YERI", "BIRIM_FIYAT", "MONTAJ_FIYAT", "CATEGORY"}
	case internal.SourceDSI:
		return []string{"POZ_NO", "DESCRIPTION", "UNIT", "BIRIM_FIYAT", "CATEGORY"}
	case internal.SourceKTB:
		return []string{"POZ_NO", "DESCRIPTION", "UNIT", "LOCATION", "BIRIM_FIYAT", "MONTAJ_FIYAT", "SOKUM_FIYAT", "CATEGORY"}
	default:
		return []string{"POZ_NO", "DESCRIPTION", "UNIT", "LOCATION", "BIRIM_FIYAT", "CATEGORY"}
	}
}

func exportValues(source internal.Source, r internal.Record) []any {
	switch source {
	case internal.SourceCSB:
		return []any{r.ItemCode, r.Description, util.DerefString(r.Unit), util.DerefString(r.Location),
			priceCell(r.UnitPrice()), priceCellPtr(r.InstallPrice()), util.DerefString(r.Category)}
	case internal.SourceDSI:
		return []any{r.ItemCode, r.Description, util.DerefString(r.Unit),
			priceCell(r.UnitPrice()), util.DerefString(r.Category)}
	case internal.SourceKTB:
		return []any{r.ItemCode, r.Description, util.DerefString(r.Unit), util.DerefString(r.Location),
			priceCell(r.UnitPrice()), priceCellPtr(r.InstallPrice()), priceCellPtr(r.RemovalPrice()),
			util.DerefString(r.Category)}
	default:
		return []any{r.ItemCode, r.Description, util.DerefString(r.Unit), util.DerefString(r.Location),
			priceCell(r.UnitPrice()), util.DerefString(r.Category)}
	}
}

// ExportRecordsToXLSX writes one spreadsheet with the source's column
// layout. Numeric prices become number cells; sentinels and placeholders
// stay text; absent optionals render blank.
func ExportRecordsToXLSX(source internal.Source, records []internal.Record, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := exportHeaders(source)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, record := range records {
		r := i + 2
		for col, value := range exportValues(source, record) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

type csvRow struct {
	ItemCode     string `csv:"poz_no"`
	Description  string `csv:"description"`
	Unit         string `csv:"unit"`
	Location     string `csv:"location"`
	UnitPrice    string `csv:"birim_fiyat"`
	InstallPrice string `csv:"montaj_fiyat"`
	RemovalPrice string `csv:"sokum_fiyat"`
	Category     string `csv:"category"`
}

// ExportRecordsToCSV writes the uniform debug CSV: every source gets the
// same columns, prices in canonical Turkish rendering.
func ExportRecordsToCSV(records []internal.Record, outputPath string) error {
	rows := make([]csvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, csvRow{
			ItemCode:     r.ItemCode,
			Description:  r.Description,
			Unit:         util.DerefString(r.Unit),
			Location:     util.DerefString(r.Location),
			UnitPrice:    priceText(r.UnitPrice()),
			InstallPrice: priceTextPtr(r.InstallPrice()),
			RemovalPrice: priceTextPtr(r.RemovalPrice()),
			Category:     util.DerefString(r.Category),
		})
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}

func priceCell(p internal.Price) any {
	if p.Sentinel != "" {
		return p.Sentinel
	}
	if p.Amount != nil {
		v, _ := p.Amount.Float64()
		return v
	}
	return ""
}

func priceCellPtr(p *internal.Price) any {
	if p == nil {
		return ""
	}
	return priceCell(*p)
}

func priceText(p internal.Price) string {
	if p.Sentinel != "" {
		return p.Sentinel
	}
	if p.Amount != nil {
		return parser.FormatPrice(*p.Amount)
	}
	return ""
}

func priceTextPtr(p *internal.Price) string {
	if p == nil {
		return ""
	}
	return priceText(*p)
}
