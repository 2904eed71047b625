package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/erenkarakoc/ekap-editor/internal/util"
)

// ExtractPDFText pulls plain text out of a catalog PDF page by page. Each
// page is preceded by a "-N-" marker line so the parser can tell page
// boundaries apart from running text; the grammars treat the markers as
// garbage but the buffer survives them.
func ExtractPDFText(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("-%d-", i))
		out = append(out, util.SplitLines(text)...)
	}
	return out, nil
}

// ReadInputLines loads either a PDF or an already-extracted text dump.
func ReadInputLines(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ExtractPDFText(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return util.SplitLines(string(data)), nil
}

// WriteTextDump saves extracted lines for later parse runs.
func WriteTextDump(lines []string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}
