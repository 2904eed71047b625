package vision

import (
	"testing"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/util"
)

func TestCollectRecordsCategoryInheritance(t *testing.T) {
	results := []internal.PageResult{
		{
			PageCategory: util.StringPtr("İNŞAAT İŞÇİLİĞİ"),
			Entries: []internal.PageEntry{
				{ItemCode: "10.100.1047", Description: "Usta", Unit: util.StringPtr("Sa"),
					UnitPrice: util.FloatPtr(355)},
				{ItemCode: "10.100.1062", Description: "Düz işçi", Unit: util.StringPtr("Sa"),
					UnitPrice: util.FloatPtr(230), Category: util.StringPtr("ÖZEL İŞÇİLİK")},
			},
		},
	}
	records := CollectRecords(results)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Category == nil || *records[0].Category != "İNŞAAT İŞÇİLİĞİ" {
		t.Errorf("inherited category = %v", records[0].Category)
	}
	if records[1].Category == nil || *records[1].Category != "ÖZEL İŞÇİLİK" {
		t.Errorf("own category = %v", records[1].Category)
	}
	if p := records[0].UnitPrice(); p.Amount == nil || p.Amount.String() != "355" {
		t.Errorf("price = %+v", p)
	}
}

func TestCollectRecordsInstallPricePadding(t *testing.T) {
	// An install price without a base price still lands in slot 1.
	results := []internal.PageResult{
		{Entries: []internal.PageEntry{
			{ItemCode: "25.105.1010", Description: "Montaj bedeli",
				InstallPrice: util.FloatPtr(120.5)},
		}},
	}
	records := CollectRecords(results)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if !r.UnitPrice().IsEmpty() {
		t.Errorf("base slot should be empty: %+v", r.UnitPrice())
	}
	install := r.InstallPrice()
	if install == nil || install.Amount == nil || install.Amount.String() != "120.5" {
		t.Errorf("install = %+v", install)
	}
}
