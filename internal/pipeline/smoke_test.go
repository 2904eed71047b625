package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/storage"
)

const csbFixture = `İNŞAAT İŞÇİLİĞİ
10.100.1047 Soğuk demirci usta yardımcısı
-12-
Sa 230,00
10.100.1062 Düz işçi Sa 355,00
10.130.1003 Çimento (torbalı) kg İşbaşında 2,50
Not: nakliye bedeli hariçtir
`

func TestSmokeTextDumpToExport(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	input := filepath.Join(tmp, "csb.txt")
	if err := os.WriteFile(input, []byte(csbFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	run, err := ProcessFile(db, internal.SourceCSB, input, "")
	if err != nil {
		t.Fatal(err)
	}
	if run.Records != 3 {
		t.Fatalf("records = %d, want 3", run.Records)
	}
	if run.Priced != 3 {
		t.Fatalf("priced = %d, want 3", run.Priced)
	}

	records, err := db.ListRecords(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("stored records = %d", len(records))
	}
	first := records[0]
	if first.ItemCode != "10.100.1047" {
		t.Errorf("code = %q", first.ItemCode)
	}
	if first.Category == nil || *first.Category != "İNŞAAT İŞÇİLİĞİ" {
		t.Errorf("category = %v", first.Category)
	}
	if p := first.UnitPrice(); p.Amount == nil || p.Amount.String() != "230" {
		t.Errorf("price round trip broken: %+v", p)
	}
	last := records[2]
	if last.Location == nil || *last.Location != "İşbaşında" {
		t.Errorf("location = %v", last.Location)
	}

	xlsxPath := filepath.Join(tmp, "out", "csb.xlsx")
	if err := ExportRecordsToXLSX(internal.SourceCSB, records, xlsxPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(xlsxPath); err != nil {
		t.Fatal(err)
	}

	csvPath := filepath.Join(tmp, "out", "csb.csv")
	if err := ExportRecordsToCSV(records, csvPath); err != nil {
		t.Fatal(err)
	}
	blob, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), "10.130.1003") {
		t.Fatalf("csv missing record: %s", blob)
	}
	if !strings.Contains(string(blob), "2,50") {
		t.Fatalf("csv missing canonical price: %s", blob)
	}
}

func TestSmokeStoredRunRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	input := filepath.Join(tmp, "dsi.txt")
	dump := "36.075.1102 İşletme tesisleri binası Faturadan\n55.107.1004 m³\n"
	if err := os.WriteFile(input, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}

	run, err := ProcessFile(db, internal.SourceDSI, input, "")
	if err != nil {
		t.Fatal(err)
	}

	latest, err := db.LatestRun(internal.SourceDSI)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != run.ID {
		t.Fatalf("latest run = %+v, want %s", latest, run.ID)
	}

	records, err := db.ListRecords(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].UnitPrice().Sentinel != "Faturadan" {
		t.Errorf("sentinel = %+v", records[0].UnitPrice())
	}
	if records[1].UnitPrice().Sentinel != "Formüllerden" {
		t.Errorf("formula price = %+v", records[1].UnitPrice())
	}
}
