package splitter

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dgallion1/plansplit/internal/textutil"
)

// Record describes one exported section. Pages are reported 1-based and
// inclusive on both ends, matching what users see in a PDF viewer.
type Record struct {
	Order     int
	Filename  string
	Name      string
	StartPage int
	EndPage   int
	PageCount int
}

// Rejected describes a section excluded from the archive by a filter. It
// still gets a report row, with the offending raw value and a reason code.
type Rejected struct {
	Record
	RawValue string
	Reason   string
}

// Result bundles the outputs of one export run.
type Result struct {
	Archive  []byte
	Records  []Record
	Rejected []Rejected
}

// CopyPagesFunc writes pages [start,end) of src as a standalone PDF.
type CopyPagesFunc func(src []byte, start, end int, w io.Writer) error

// CopyPages is the pdfcpu-backed page copier used when Exporter.Copy is nil.
func CopyPages(src []byte, start, end int, w io.Writer) error {
	sel := []string{fmt.Sprintf("%d-%d", start+1, end)}
	if err := api.Trim(bytes.NewReader(src), w, sel, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("copy pages %d-%d: %w", start+1, end, err)
	}
	return nil
}

// ReportFunc builds the workbook embedded into the archive.
type ReportFunc func(records []Record, rejected []Rejected) ([]byte, error)

// Exporter copies page ranges into standalone PDFs inside a ZIP archive and
// accumulates the report rows. File names are collision-safe within one run:
// the first occurrence of a base name is unadorned, later ones get _(2),
// _(3) and so on, counted per base name.
type Exporter struct {
	Prefix string
	Names  FieldExtractor  // optional; empty results fall back to the label, then an ordinal
	Filter *NegativeFilter // optional
	MaxLen int

	// ReportName, when non-empty and Report is set, embeds the workbook as
	// an extra archive entry under that name.
	ReportName string
	Report     ReportFunc

	Copy CopyPagesFunc
	Log  *slog.Logger
}

// Export runs the full export over ranges. The source bytes are only read.
func (e *Exporter) Export(src Source, ranges []Range) (*Result, error) {
	log := e.Log
	if log == nil {
		log = slog.Default()
	}
	copyPages := e.Copy
	if copyPages == nil {
		copyPages = CopyPages
	}

	var (
		buf      bytes.Buffer
		records  []Record
		rejected []Rejected
	)
	zw := zip.NewWriter(&buf)
	used := make(map[string]int)

	for idx, r := range ranges {
		order := idx + 1

		name := ""
		if e.Names != nil {
			name = e.Names.Extract(src, r)
		}
		if name == "" && r.Label != "" {
			name = textutil.SanitizeFilename(r.Label, e.MaxLen)
		}
		if name == "" {
			name = fmt.Sprintf("%s_%03d", textutil.FallbackName, order)
		}

		rec := Record{
			Order:     order,
			Name:      name,
			StartPage: r.Start + 1,
			EndPage:   r.End,
			PageCount: r.Pages(),
		}

		if e.Filter != nil {
			if raw, bad := e.Filter.Check(src, r); bad {
				rejected = append(rejected, Rejected{Record: rec, RawValue: raw, Reason: ReasonNegativeValue})
				log.Info("section rejected", "order", order, "name", name, "value", raw)
				continue
			}
		}

		base := textutil.SanitizeFilename(e.Prefix+name, e.MaxLen)
		final := base
		if n := used[base]; n > 0 {
			final = fmt.Sprintf("%s_(%d)", base, n+1)
		}
		used[base]++
		rec.Filename = final + ".pdf"

		w, err := zw.Create(rec.Filename)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", rec.Filename, err)
		}
		if err := copyPages(src.Bytes(), r.Start, r.End, w); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if e.ReportName != "" && e.Report != nil {
		report, err := e.Report(records, rejected)
		if err != nil {
			return nil, fmt.Errorf("build report: %w", err)
		}
		w, err := zw.Create(e.ReportName)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", e.ReportName, err)
		}
		if _, err := w.Write(report); err != nil {
			return nil, fmt.Errorf("write report entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	log.Info("export complete",
		"sections", len(ranges),
		"accepted", len(records),
		"rejected", len(rejected),
		"archive_bytes", buf.Len(),
	)
	return &Result{Archive: buf.Bytes(), Records: records, Rejected: rejected}, nil
}
