package vision

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/storage"
)

const (
	pageDone   = "done"
	pageFailed = "failed"
)

// RunJob extracts every page image in a directory, checkpointing progress
// per page so an interrupted job resumes where it stopped. A page that
// exhausts its retry budget is recorded as an empty result and the job
// moves on; it never aborts the remaining pages.
func RunJob(ctx context.Context, db *storage.DB, client *Client, jobID, imageDir string) ([]internal.PageResult, error) {
	pages, err := listPageImages(imageDir)
	if err != nil {
		return nil, err
	}

	for i, path := range pages {
		pageNum := i + 1

		status, err := db.VisionPageStatus(jobID, pageNum)
		if err != nil {
			return nil, err
		}
		if status == pageDone {
			slog.Info("page already extracted, skipping", "job", jobID, "page", pageNum)
			continue
		}

		image, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		result, err := client.ExtractPage(ctx, image, mime.TypeByExtension(filepath.Ext(path)), pageNum)
		if err != nil {
			slog.Warn("page extraction failed, continuing", "job", jobID, "page", pageNum, "error", err)
			if err := db.UpsertVisionPage(jobID, pageNum, pageFailed, "{}"); err != nil {
				return nil, err
			}
			continue
		}

		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		if err := db.UpsertVisionPage(jobID, pageNum, pageDone, string(payload)); err != nil {
			return nil, err
		}
		slog.Info("page extracted", "job", jobID, "page", pageNum, "entries", len(result.Entries))

		if ctx.Err() != nil {
			break
		}
	}

	return CollectResults(db, jobID)
}

// CollectResults loads a job's stored page payloads in page order.
func CollectResults(db *storage.DB, jobID string) ([]internal.PageResult, error) {
	stored, err := db.ListVisionResults(jobID)
	if err != nil {
		return nil, err
	}

	pages := make([]int, 0, len(stored))
	for p := range stored {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	out := make([]internal.PageResult, 0, len(pages))
	for _, p := range pages {
		var result internal.PageResult
		if err := json.Unmarshal([]byte(stored[p]), &result); err != nil {
			continue
		}
		out = append(out, result)
	}
	return out, nil
}

// CollectRecords flattens page results into catalog records. Entries
// without their own category inherit the page-level one.
func CollectRecords(results []internal.PageResult) []internal.Record {
	var records []internal.Record
	for _, page := range results {
		for _, e := range page.Entries {
			category := e.Category
			if category == nil {
				category = page.PageCategory
			}
			records = append(records, internal.Record{
				ItemCode:    e.ItemCode,
				Description: e.Description,
				Unit:        e.Unit,
				Location:    e.Location,
				Prices:      entryPrices(e),
				Category:    category,
			})
		}
	}
	return records
}

func entryPrices(e internal.PageEntry) []internal.Price {
	var prices []internal.Price
	if e.UnitPrice != nil {
		d := decimal.NewFromFloat(*e.UnitPrice)
		prices = append(prices, internal.Price{Amount: &d})
	}
	if e.InstallPrice != nil {
		if len(prices) == 0 {
			prices = append(prices, internal.Price{})
		}
		d := decimal.NewFromFloat(*e.InstallPrice)
		prices = append(prices, internal.Price{Amount: &d})
	}
	return prices
}

func listPageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
