package splitter

import (
	"regexp"
	"strings"

	"github.com/dgallion1/plansplit/internal/textutil"
)

// FieldExtractor pulls a labeled value out of a section's scan window.
// An empty result means "no value": the caller supplies a fallback name.
type FieldExtractor interface {
	Extract(src Source, r Range) string
}

// DefaultNameLabel matches the instructor-name line found on lesson plans:
// NOMBRE DEL PROFESOR(A) followed by a separator and the value.
var DefaultNameLabel = regexp.MustCompile(`(?i)^\s*NOMBRE\s+DEL\s+PROFESOR\(A\)\s*[:=\-\x{2014}\x{2013}]\s*(.+)$`)

// DefaultCutoff truncates extracted names before the gender column that
// shares the line on some layouts.
const DefaultCutoff = "GÉNERO"

// LabelPattern extracts the value of the first line in the scan window
// matching a fixed anchored label expression. The value is cut before the
// cutoff keyword, stripped of honorifics and sanitized for file-name use.
type LabelPattern struct {
	Label  *regexp.Regexp
	Cutoff string
	Window ScanWindow
	MaxLen int
}

func (e LabelPattern) Extract(src Source, r Range) string {
	if e.Label == nil {
		return ""
	}
	for _, line := range src.Window(r.Start, r.End, e.Window.Pages, e.Window.LinesPerPage) {
		m := e.Label.FindStringSubmatch(line)
		if m == nil || strings.TrimSpace(m[1]) == "" {
			continue
		}
		name := textutil.CutBefore(strings.TrimSpace(m[1]), e.Cutoff)
		name = textutil.CleanTitlePrefixes(name)
		if name == "" {
			return ""
		}
		return textutil.SanitizeFilename(name, e.MaxLen)
	}
	return ""
}

// LabelSet extracts the value of the first line whose left portion contains
// any of the configured labels after normalization. Containment rather than
// equality is intentional: decorated labels like "docente titular" still
// match a configured "docente". Values shorter than two characters are
// skipped and scanning continues.
type LabelSet struct {
	labels []string
	Window ScanWindow
	MaxLen int
}

// NewLabelSet normalizes the configured labels once. Blank labels are
// dropped.
func NewLabelSet(labels []string, w ScanWindow, maxLen int) LabelSet {
	return LabelSet{labels: normalizeLabels(labels), Window: w, MaxLen: maxLen}
}

func (e LabelSet) Extract(src Source, r Range) string {
	lines := src.Window(r.Start, r.End, e.Window.Pages, e.Window.LinesPerPage)
	value, ok := findLabeledValue(lines, e.labels, 2)
	if !ok {
		return ""
	}
	return textutil.SanitizeFilename(value, e.MaxLen)
}

func normalizeLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		if n := textutil.Normalize(l); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// findLabeledValue scans lines top to bottom for the first one that splits
// into label/value where the normalized label side contains any of the
// (already normalized) wanted labels and the trimmed value has at least
// minLen runes. The value keeps its original casing.
func findLabeledValue(lines, wanted []string, minLen int) (string, bool) {
	if len(wanted) == 0 {
		return "", false
	}
	for _, line := range lines {
		left, value, ok := textutil.SplitLabelValue(line)
		if !ok {
			continue
		}
		leftNorm := textutil.Normalize(left)
		for _, label := range wanted {
			if !strings.Contains(leftNorm, label) {
				continue
			}
			if len([]rune(strings.TrimSpace(value))) < minLen {
				break // too short; keep scanning further lines
			}
			return value, true
		}
	}
	return "", false
}
