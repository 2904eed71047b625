// Package refdb exports the poz reference catalog from the legacy oskaplus
// Postgres database, one spreadsheet sheet per book.
package refdb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

// bookNames maps the knt book identifier to a human-readable label used in
// sheet names.
var bookNames = map[string]string{
	"3":  "KGM (Karayolları)",
	"6":  "ÇŞİDB — Yapı İşleri",
	"7":  "ÇŞİDB — Rayiçler",
	"17": "Tesisat — Mekanik",
	"18": "Tesisat — Elektrik",
	"20": "Tesisat — Sıhhi (Su-Boru)",
	"22": "Tesisat — Sıhhi Gereçler",
	"24": "Tesisat — Telefon Santral",
	"26": "Tesisat — Telefon-Haberleşme",
	"32": "DSİ",
	"33": "DSİ — Ek Pozlar",
	"35": "Yangın Tesisatı",
	"40": "İller Bankası",
	"41": "İller Bankası — Yapı",
	"45": "Enerji ve Tabii Kaynaklar",
	"58": "Makine-Ekipman Rayiçleri",
	"72": "Özel İmalatlar - Su Yalıtımı",
	"74": "Peyzaj - Çevre Düzenleme",
	"75": "Altyapı - Kanalizasyon",
	"81": "Vakıflar (Restorasyon)",
	"82": "Vakıflar — Rayiçler",
	"84": "Vakıflar — Özel",
	"85": "Vakıflar — İşçilik",
	"86": "Orman Genel Müdürlüğü",
	"87": "Köy Hizmetleri - KHGM",
	"88": "Ek Pozlar - Diğer",
}

// Price periods present in veri2060: three price columns (bf/mf/df) per
// period, periods 40 through 50.
const (
	firstPricePeriod = 40
	lastPricePeriod  = 50
)

type periodPrices struct {
	Unit     *float64
	Material *float64
	Labor    *float64
}

type catalogRow struct {
	Poz         string
	Book        string
	Description string
	Unit        string

	HasTransport    string
	TypeCode        string
	TypeName        string
	AltPoz          string
	RegionID        string
	Level           string
	ParentPoz       string
	LongDescription string

	Prices []periodPrices
}

// ExportByBook dumps the reference catalog to one workbook with a sheet per
// book. Books present in the price table get the full wide layout with the
// price-by-period columns; catalog-only books get the plain
// poz/description/unit layout.
func ExportByBook(ctx context.Context, dsn, outputPath string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect refdb: %w", err)
	}
	defer conn.Close(ctx)

	priced, err := fetchPriced(ctx, conn)
	if err != nil {
		return err
	}
	catalog, err := fetchCatalog(ctx, conn)
	if err != nil {
		return err
	}

	books := map[string]struct{}{}
	for book := range priced {
		books[book] = struct{}{}
	}
	for book := range catalog {
		books[book] = struct{}{}
	}
	ordered := make([]string, 0, len(books))
	for book := range books {
		ordered = append(ordered, book)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, _ := strconv.Atoi(ordered[i])
		b, _ := strconv.Atoi(ordered[j])
		return a < b
	})

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	for _, book := range ordered {
		name := bookNames[book]
		if name == "" {
			name = "Kitap " + book
		}
		sheet := sheetName(book + " - " + name)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		if rows := priced[book]; len(rows) > 0 {
			writeSheet(f, sheet, pricedHeaders(), rows, true)
			slog.Info("book exported", "sheet", sheet, "rows", len(rows), "priced", true)
			continue
		}
		rows := dedupeByPoz(catalog[book])
		writeSheet(f, sheet, []string{"poz_no", "description", "unit"}, rows, false)
		slog.Info("book exported", "sheet", sheet, "rows", len(rows), "priced", false)
	}

	_ = f.DeleteSheet(defaultSheet)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func pricedHeaders() []string {
	h := []string{
		"poz_no", "book_id", "description", "unit",
		"has_transport", "type_code", "type_name", "alt_poz_no",
		"region_id", "level", "parent_poz", "long_description",
	}
	for p := firstPricePeriod; p <= lastPricePeriod; p++ {
		h = append(h,
			fmt.Sprintf("unit_price_p%d", p),
			fmt.Sprintf("material_price_p%d", p),
			fmt.Sprintf("labor_price_p%d", p))
	}
	return h
}

func pricedQuery() string {
	cols := []string{
		"trim(poz)", "trim(knt)",
		"trim(coalesce(yapiscins, ''))", "trim(coalesce(olcu, ''))",
		"trim(coalesce(nak::text, ''))", "trim(coalesce(tip::text, ''))",
		"trim(coalesce(tiptan::text, ''))", "trim(coalesce(ypoz::text, ''))",
		"trim(coalesce(anh::text, ''))", "trim(coalesce(derece::text, ''))",
		"trim(coalesce(abpoz::text, ''))", "trim(coalesce(uzuntan::text, ''))",
	}
	for p := firstPricePeriod; p <= lastPricePeriod; p++ {
		cols = append(cols, fmt.Sprintf("bf%d, mf%d, df%d", p, p, p))
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM veri2060 ORDER BY poz"
}

func fetchPriced(ctx context.Context, conn *pgx.Conn) (map[string][]catalogRow, error) {
	rows, err := conn.Query(ctx, pricedQuery())
	if err != nil {
		return nil, fmt.Errorf("query veri2060: %w", err)
	}
	defer rows.Close()

	periods := lastPricePeriod - firstPricePeriod + 1
	out := map[string][]catalogRow{}
	for rows.Next() {
		r := catalogRow{Prices: make([]periodPrices, periods)}
		dest := []any{
			&r.Poz, &r.Book, &r.Description, &r.Unit,
			&r.HasTransport, &r.TypeCode, &r.TypeName, &r.AltPoz,
			&r.RegionID, &r.Level, &r.ParentPoz, &r.LongDescription,
		}
		for i := range r.Prices {
			dest = append(dest, &r.Prices[i].Unit, &r.Prices[i].Material, &r.Prices[i].Labor)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out[r.Book] = append(out[r.Book], r)
	}
	return out, rows.Err()
}

func fetchCatalog(ctx context.Context, conn *pgx.Conn) (map[string][]catalogRow, error) {
	rows, err := conn.Query(ctx, `
SELECT trim(poz), trim(knt), trim(coalesce(yapiscins, '')), trim(coalesce(olcu, ''))
FROM veri2013 ORDER BY knt, poz`)
	if err != nil {
		return nil, fmt.Errorf("query veri2013: %w", err)
	}
	defer rows.Close()

	out := map[string][]catalogRow{}
	for rows.Next() {
		var r catalogRow
		if err := rows.Scan(&r.Poz, &r.Book, &r.Description, &r.Unit); err != nil {
			return nil, err
		}
		out[r.Book] = append(out[r.Book], r)
	}
	return out, rows.Err()
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows []catalogRow, priced bool) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		if priced {
			set(1, row.Poz)
			set(2, row.Book)
			set(3, row.Description)
			set(4, row.Unit)
			set(5, row.HasTransport)
			set(6, row.TypeCode)
			set(7, row.TypeName)
			set(8, row.AltPoz)
			set(9, row.RegionID)
			set(10, row.Level)
			set(11, row.ParentPoz)
			set(12, row.LongDescription)
			col := 13
			for _, pp := range row.Prices {
				set(col, derefFloat(pp.Unit))
				set(col+1, derefFloat(pp.Material))
				set(col+2, derefFloat(pp.Labor))
				col += 3
			}
		} else {
			set(1, row.Poz)
			set(2, row.Description)
			set(3, row.Unit)
		}
	}
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func dedupeByPoz(rows []catalogRow) []catalogRow {
	seen := map[string]struct{}{}
	out := make([]catalogRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.Poz]; ok {
			continue
		}
		seen[r.Poz] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Excel caps sheet names at 31 characters and rejects a few punctuation
// marks.
func sheetName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")", ":", "-")
	name = replacer.Replace(name)
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return strings.TrimSpace(string(runes))
}
