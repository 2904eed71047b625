package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/erenkarakoc/ekap-editor/internal"
	"github.com/erenkarakoc/ekap-editor/internal/grammar"
	"github.com/erenkarakoc/ekap-editor/internal/parser"
	"github.com/erenkarakoc/ekap-editor/internal/storage"
)

// ProcessFile runs the full parse pipeline for one input document: grammar
// lookup, optional override file, line extraction, parsing, and persistence
// as a new run.
func ProcessFile(db *storage.DB, source internal.Source, path, grammarDir string) (internal.RunRow, error) {
	g, ok := grammar.ForSource(source)
	if !ok {
		return internal.RunRow{}, fmt.Errorf("unknown source %q", source)
	}
	if err := grammar.LoadOverride(g, grammarDir); err != nil {
		return internal.RunRow{}, err
	}

	lines, err := ReadInputLines(path)
	if err != nil {
		return internal.RunRow{}, err
	}

	records := parser.New(g).Parse(lines)

	runID := uuid.NewString()
	if err := db.CreateRun(runID, source, path); err != nil {
		return internal.RunRow{}, err
	}
	if err := db.InsertRecords(runID, records); err != nil {
		return internal.RunRow{}, err
	}

	run, err := db.GetRun(runID)
	if err != nil {
		return internal.RunRow{}, err
	}
	if run == nil {
		return internal.RunRow{}, fmt.Errorf("run %s vanished after insert", runID)
	}

	slog.Info("parse run complete",
		"run", runID,
		"source", source,
		"input", path,
		"lines", len(lines),
		"records", run.Records,
		"priced", run.Priced,
	)
	return *run, nil
}
