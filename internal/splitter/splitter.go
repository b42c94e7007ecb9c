package splitter

// Source is the view of a loaded document the splitter works against: page
// count, line-bounded page text, and the original bytes for page copying.
// *pdftext.Document satisfies it.
type Source interface {
	PageCount() int
	PageLines(page, max int) []string
	Window(start, end, scanPages, linesPerPage int) []string
	Bytes() []byte
}

// Start marks the page where a new section begins. Label is the sanitized
// text captured by the start pattern, or empty when the pattern captured
// nothing.
type Start struct {
	Page  int
	Label string
}

// Range is a half-open run of pages [Start,End) forming one section.
type Range struct {
	Start int
	End   int
	Label string
}

// Pages returns the number of pages in the range.
func (r Range) Pages() int { return r.End - r.Start }

// ScanWindow bounds how much of a section is inspected for a labeled field:
// at most Pages pages from the section start, at most LinesPerPage lines
// each. Zero or negative values mean no limit.
type ScanWindow struct {
	Pages        int
	LinesPerPage int
}
