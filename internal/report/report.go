package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/plansplit/internal/splitter"
)

// Sheet names. Spanish on purpose: they match what the tool's users expect
// to see in the workbook.
const (
	SheetDetails  = "detalles"
	SheetSummary  = "resumen"
	SheetRejected = "errores"
)

var detailHeaders = []string{
	"orden",
	"archivo",
	"nombre_detectado",
	"pagina_inicio_1based",
	"pagina_fin_1based",
	"paginas_en_pdf",
}

var rejectedHeaders = []string{
	"orden",
	"nombre_detectado",
	"valor_rechazado",
	"motivo",
	"pagina_inicio_1based",
	"pagina_fin_1based",
	"paginas_en_pdf",
}

// NameCount is one summary row: a detected name and how many accepted
// sections share it.
type NameCount struct {
	Name  string
	Count int
}

// Summarize groups accepted records by detected name, sorted by descending
// count, ties broken lexicographically by name.
func Summarize(records []splitter.Record) []NameCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Name]++
	}
	out := make([]NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, NameCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Build produces the XLSX workbook: a detail sheet with one row per accepted
// section in run order, a summary sheet of distinct names with counts, and a
// rejection sheet only when there are rejected rows.
func Build(records []splitter.Record, rejected []splitter.Rejected) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDetails); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	writeRow := func(sheet string, row int, values []any) error {
		for i, v := range values {
			if err := write(sheet, i+1, row, v); err != nil {
				return err
			}
		}
		return nil
	}
	headerWidths := func(sheet string, headers []string) error {
		for i, h := range headers {
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			width := float64(len(h) + 2)
			if width < 16 {
				width = 16
			}
			if err := f.SetColWidth(sheet, col, col, width); err != nil {
				return err
			}
		}
		return nil
	}

	// detalles
	for i, h := range detailHeaders {
		if err := write(SheetDetails, i+1, 1, h); err != nil {
			return nil, err
		}
	}
	for i, r := range records {
		row := []any{r.Order, r.Filename, r.Name, r.StartPage, r.EndPage, r.PageCount}
		if err := writeRow(SheetDetails, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := headerWidths(SheetDetails, detailHeaders); err != nil {
		return nil, err
	}

	// resumen
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	if err := writeRow(SheetSummary, 1, []any{"nombre_detectado", "cantidad_pdfs"}); err != nil {
		return nil, err
	}
	for i, nc := range Summarize(records) {
		if err := writeRow(SheetSummary, i+2, []any{nc.Name, nc.Count}); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetSummary, "B", "B", 16); err != nil {
		return nil, err
	}

	// errores, only when something was rejected
	if len(rejected) > 0 {
		if _, err := f.NewSheet(SheetRejected); err != nil {
			return nil, err
		}
		for i, h := range rejectedHeaders {
			if err := write(SheetRejected, i+1, 1, h); err != nil {
				return nil, err
			}
		}
		for i, r := range rejected {
			row := []any{r.Order, r.Name, r.RawValue, r.Reason, r.StartPage, r.EndPage, r.PageCount}
			if err := writeRow(SheetRejected, i+2, row); err != nil {
				return nil, err
			}
		}
		if err := headerWidths(SheetRejected, rejectedHeaders); err != nil {
			return nil, err
		}
	}

	idx, err := f.GetSheetIndex(SheetDetails)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
