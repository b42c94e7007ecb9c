package splitter

import (
	"github.com/dgallion1/plansplit/internal/textutil"
)

// ReasonNegativeValue tags sections rejected because their numeric field is
// negative.
const ReasonNegativeValue = "valor_negativo"

// NegativeFilter classifies a section by a secondary numeric field found via
// label-set matching: a section whose raw value parses as a negative number
// is rejected. Sections with no such field, or with an unparseable value,
// pass.
type NegativeFilter struct {
	labels []string
	Window ScanWindow
}

// NewNegativeFilter normalizes the numeric-field labels once.
func NewNegativeFilter(labels []string, w ScanWindow) *NegativeFilter {
	return &NegativeFilter{labels: normalizeLabels(labels), Window: w}
}

// Check returns the raw extracted value and whether the section is rejected.
func (f *NegativeFilter) Check(src Source, r Range) (raw string, rejected bool) {
	lines := src.Window(r.Start, r.End, f.Window.Pages, f.Window.LinesPerPage)
	value, ok := findLabeledValue(lines, f.labels, 1)
	if !ok {
		return "", false
	}
	return value, textutil.IsNegativeNumber(value)
}
