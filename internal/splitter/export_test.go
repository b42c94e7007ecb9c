package splitter

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/dgallion1/plansplit/internal/pdftext"
)

// stubCopy stands in for the pdfcpu page copier in tests.
func stubCopy(src []byte, start, end int, w io.Writer) error {
	_, err := fmt.Fprintf(w, "pdf %d-%d", start, end)
	return err
}

func archiveNames(t *testing.T, archive []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestExport_CollisionSuffixes(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{
		{"Docente: Ana Ruiz"},
		{"Docente: Ana Ruiz"},
		{"Docente: Ana Ruiz"},
	})
	e := &Exporter{
		Names: NewLabelSet([]string{"docente"}, ScanWindow{}, 0),
		Copy:  stubCopy,
	}
	ranges := []Range{{0, 1, ""}, {1, 2, ""}, {2, 3, ""}}
	res, err := e.Export(src, ranges)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ana Ruiz.pdf", "Ana Ruiz_(2).pdf", "Ana Ruiz_(3).pdf"}
	got := archiveNames(t, res.Archive)
	if len(got) != len(want) {
		t.Fatalf("archive entries = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExport_NameFallbackChain(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{
		{"Docente: Ana Ruiz"}, // detected by extractor
		{"nada que detectar"}, // falls back to the provisional label
		{"nada que detectar"}, // falls back to the ordinal
	})
	e := &Exporter{
		Names: NewLabelSet([]string{"docente"}, ScanWindow{}, 0),
		Copy:  stubCopy,
	}
	ranges := []Range{
		{0, 1, "Etiqueta"},
		{1, 2, "Etiqueta"},
		{2, 3, ""},
	}
	res, err := e.Export(src, ranges)
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"Ana Ruiz", "Etiqueta", "Plan_003"}
	for i, rec := range res.Records {
		if rec.Name != wantNames[i] {
			t.Errorf("record %d name = %q, want %q", i, rec.Name, wantNames[i])
		}
	}
}

func TestExport_PrefixAndRecordFields(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{
		{"Docente: Ana Ruiz"}, {"x"}, {"y"},
	})
	e := &Exporter{
		Prefix: "2024_",
		Names:  NewLabelSet([]string{"docente"}, ScanWindow{Pages: 1}, 0),
		Copy:   stubCopy,
	}
	res, err := e.Export(src, []Range{{0, 3, ""}})
	if err != nil {
		t.Fatal(err)
	}
	rec := res.Records[0]
	if rec.Filename != "2024_Ana Ruiz.pdf" {
		t.Errorf("filename = %q", rec.Filename)
	}
	if rec.Order != 1 || rec.StartPage != 1 || rec.EndPage != 3 || rec.PageCount != 3 {
		t.Errorf("record fields = %+v", rec)
	}
}

func TestExport_NegativeFilterRejects(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{
		{"Docente: Ana Ruiz", "SALDO: 100"},
		{"Docente: Luis Paz", "SALDO: - 1,234"},
		{"Docente: Rosa Vega", "SALDO: 50"},
	})
	e := &Exporter{
		Names:  NewLabelSet([]string{"docente"}, ScanWindow{}, 0),
		Filter: NewNegativeFilter([]string{"saldo"}, ScanWindow{}),
		Copy:   stubCopy,
	}
	ranges := []Range{{0, 1, ""}, {1, 2, ""}, {2, 3, ""}}
	res, err := e.Export(src, ranges)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 || len(res.Rejected) != 1 {
		t.Fatalf("accepted %d rejected %d, want 2/1", len(res.Records), len(res.Rejected))
	}
	rej := res.Rejected[0]
	if rej.Name != "Luis Paz" || rej.RawValue != "- 1,234" || rej.Reason != ReasonNegativeValue {
		t.Errorf("rejected = %+v", rej)
	}
	if rej.Order != 2 {
		t.Errorf("rejection keeps its run order, got %d", rej.Order)
	}
	names := archiveNames(t, res.Archive)
	for _, n := range names {
		if n == "Luis Paz.pdf" {
			t.Error("rejected section must not reach the archive")
		}
	}
	if len(names) != 2 {
		t.Errorf("archive entries = %q", names)
	}
}

func TestExport_EmbedsReport(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{{"x"}})
	e := &Exporter{
		Copy:       stubCopy,
		ReportName: "reporte.xlsx",
		Report: func(records []Record, rejected []Rejected) ([]byte, error) {
			if len(records) != 1 {
				t.Errorf("report saw %d records", len(records))
			}
			return []byte("workbook"), nil
		},
	}
	res, err := e.Export(src, []Range{{0, 1, ""}})
	if err != nil {
		t.Fatal(err)
	}
	names := archiveNames(t, res.Archive)
	found := false
	for _, n := range names {
		if n == "reporte.xlsx" {
			found = true
		}
	}
	if !found {
		t.Errorf("report entry missing from archive: %q", names)
	}
}

func TestExport_PageCopierReceivesRange(t *testing.T) {
	src := pdftext.FromPageLines([]byte("src"), [][]string{{"a"}, {"b"}, {"c"}})
	var calls []string
	e := &Exporter{
		Copy: func(data []byte, start, end int, w io.Writer) error {
			if !bytes.Equal(data, []byte("src")) {
				t.Error("copier must receive the original bytes")
			}
			calls = append(calls, fmt.Sprintf("%d-%d", start, end))
			_, err := w.Write([]byte("pdf"))
			return err
		},
	}
	if _, err := e.Export(src, []Range{{0, 2, ""}, {2, 3, ""}}); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0] != "0-2" || calls[1] != "2-3" {
		t.Errorf("copier calls = %q", calls)
	}
}
