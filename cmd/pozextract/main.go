package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/config"
	"github.com/erenkarakoc/ekap-editor/internal/pipeline"
	"github.com/erenkarakoc/ekap-editor/internal/refdb"
	"github.com/erenkarakoc/ekap-editor/internal/storage"
	"github.com/erenkarakoc/ekap-editor/internal/vision"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	if cmd == "refdb:export" {
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "poz_by_book.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("REFDB_DSN", cfg.RefDBDSN))
		must(refdb.ExportByBook(context.Background(), cfg.RefDBDSN, *out))
		fmt.Printf("reference export done output=%s\n", *out)
		return
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	switch cmd {
	case "pdf:text":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input pdf path")
		out := fs.String("out", "", "output text path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *out == "" {
			must(fmt.Errorf("--input and --out are required"))
		}
		lines, err := pipeline.ExtractPDFText(*input)
		must(err)
		must(pipeline.WriteTextDump(lines, *out))
		fmt.Printf("extracted %d lines to %s\n", len(lines), *out)
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "csb|dsi|ktb")
		input := fs.String("input", "", "input pdf or text dump")
		_ = fs.Parse(os.Args[2:])
		if *source == "" || *input == "" {
			must(fmt.Errorf("--source and --input are required"))
		}
		run, err := pipeline.ProcessFile(db, internal.Source(strings.ToLower(*source)), *input, cfg.GrammarDir)
		must(err)
		fmt.Printf("parse done run=%s records=%d priced=%d\n", run.ID, run.Records, run.Priced)
	case "export:xlsx", "export:csv":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "csb|dsi|ktb")
		runID := fs.String("run", "", "run id (default: latest for source)")
		out := fs.String("out", "", "output path")
		_ = fs.Parse(os.Args[2:])
		if *source == "" || *out == "" {
			must(fmt.Errorf("--source and --out are required"))
		}
		src := internal.Source(strings.ToLower(*source))
		id := *runID
		if id == "" {
			run, err := db.LatestRun(src)
			must(err)
			if run == nil {
				must(fmt.Errorf("no runs stored for source=%s", src))
			}
			id = run.ID
		}
		records, err := db.ListRecords(id)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no records for run=%s", id))
		}
		if cmd == "export:csv" {
			must(pipeline.ExportRecordsToCSV(records, *out))
		} else {
			must(pipeline.ExportRecordsToXLSX(src, records, *out))
		}
		fmt.Printf("exported %d records run=%s output=%s\n", len(records), id, *out)
	case "vision:extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "csb|dsi|ktb")
		images := fs.String("images", "", "directory of page images")
		job := fs.String("job", "", "job id for checkpoint resume (default: new)")
		_ = fs.Parse(os.Args[2:])
		if *source == "" || *images == "" {
			must(fmt.Errorf("--source and --images are required"))
		}
		must(cfg.Require("GEMINI_API_KEY", cfg.GeminiAPIKey))
		jobID := *job
		if jobID == "" {
			jobID = uuid.NewString()
		}
		client := vision.NewClient(cfg)
		results, err := vision.RunJob(context.Background(), db, client, jobID, *images)
		must(err)
		records := vision.CollectRecords(results)
		runID := uuid.NewString()
		src := internal.Source(strings.ToLower(*source))
		must(db.CreateRun(runID, src, "vision:"+*images))
		must(db.InsertRecords(runID, records))
		fmt.Printf("vision extract done job=%s pages=%d records=%d run=%s\n", jobID, len(results), len(records), runID)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: pozextract <command>")
	fmt.Println("commands:")
	fmt.Println("  pdf:text --input=catalog.pdf --out=./data/catalog.txt")
	fmt.Println("  parse --source=csb|dsi|ktb --input=catalog.txt")
	fmt.Println("  export:xlsx --source=csb|dsi|ktb [--run=ID] --out=./out/catalog.xlsx")
	fmt.Println("  export:csv --source=csb|dsi|ktb [--run=ID] --out=./out/catalog.csv")
	fmt.Println("  vision:extract --source=csb|dsi|ktb --images=./pages [--job=ID]")
	fmt.Println("  refdb:export [--out=./out/poz_by_book.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
