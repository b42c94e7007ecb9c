package pdftext

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document holds the uploaded PDF bytes plus the text lines of every page.
// Text is extracted once at load time; every later scan just slices these
// lines. The byte buffer is never mutated.
type Document struct {
	data  []byte
	pages [][]string
}

// Load parses a PDF held in memory. The page count comes from pdfcpu, which
// also validates the file; text comes from ledongthuc/pdf. Pages whose text
// cannot be extracted end up empty, not failed: image-only pages are normal.
func Load(data []byte) (*Document, error) {
	total, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if total <= 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	doc := &Document{data: data, pages: make([][]string, total)}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	n := reader.NumPage()
	if n > total {
		n = total
	}
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		doc.pages[i-1] = pageLines(page)
	}
	return doc, nil
}

// FromPageLines builds a Document from already-extracted page lines.
func FromPageLines(data []byte, pages [][]string) *Document {
	return &Document{data: data, pages: pages}
}

// PageCount returns the number of pages. Page indices are 0-based and
// contiguous in [0, PageCount()).
func (d *Document) PageCount() int { return len(d.pages) }

// Bytes returns the original PDF bytes, shared read-only.
func (d *Document) Bytes() []byte { return d.data }

// PageLines returns up to max lines of page i. max <= 0 means all lines.
func (d *Document) PageLines(i, max int) []string {
	if i < 0 || i >= len(d.pages) {
		return nil
	}
	lines := d.pages[i]
	if max > 0 && len(lines) > max {
		lines = lines[:max]
	}
	return lines
}

// Window returns the bounded scan window of section [start,end): the first
// linesPerPage lines of each of the first scanPages pages. Budgets <= 0 mean
// no limit.
func (d *Document) Window(start, end, scanPages, linesPerPage int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(d.pages) {
		end = len(d.pages)
	}
	stop := end
	if scanPages > 0 && start+scanPages < stop {
		stop = start + scanPages
	}
	var out []string
	for p := start; p < stop; p++ {
		out = append(out, d.PageLines(p, linesPerPage)...)
	}
	return out
}

func pageLines(page pdflib.Page) []string {
	content := page.Content()
	if len(content.Text) > 0 {
		return linesFromTexts(content.Text)
	}
	// No positioned fragments; fall back to the flat text stream.
	text, err := page.GetPlainText(nil)
	if err != nil || strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// rowTolerance is the vertical distance (in PDF units) within which two
// fragments are considered to sit on the same line.
const rowTolerance = 2.0

// linesFromTexts reassembles line-oriented text from positioned fragments.
// PDF Y coordinates grow upward, so rows run top to bottom by descending Y;
// fragments within a row run left to right by X.
func linesFromTexts(texts []pdflib.Text) []string {
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows [][]pdflib.Text
	for _, t := range sorted {
		if n := len(rows); n > 0 && rows[n-1][0].Y-t.Y <= rowTolerance {
			rows[n-1] = append(rows[n-1], t)
			continue
		}
		rows = append(rows, []pdflib.Text{t})
	}

	lines := make([]string, 0, len(rows))
	for _, frags := range rows {
		sort.SliceStable(frags, func(i, j int) bool {
			return frags[i].X < frags[j].X
		})
		var b strings.Builder
		for _, f := range frags {
			b.WriteString(f.S)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}
