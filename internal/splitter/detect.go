package splitter

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dgallion1/plansplit/internal/textutil"
)

// ErrNoSections is returned when no start pattern matched any page. It is a
// user-correctable condition: the caller should ask for adjusted patterns or
// a switch to fixed-stride mode.
var ErrNoSections = errors.New("no section starts detected")

// Matcher matches one user-supplied start pattern against a line of text.
// Patterns come straight from the form, so a pattern that fails to compile
// as a regular expression degrades to case- and accent-insensitive literal
// substring matching instead of failing the request.
type Matcher struct {
	rx      *regexp.Regexp
	literal string
}

// CompilePatterns builds matchers from user-supplied patterns, one per line.
// Blank entries are skipped.
func CompilePatterns(patterns []string) []Matcher {
	var out []Matcher
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		if rx, err := regexp.Compile("(?i)" + pat); err == nil {
			out = append(out, Matcher{rx: rx})
		} else {
			out = append(out, Matcher{literal: textutil.Normalize(pat)})
		}
	}
	return out
}

// Match reports whether line matches and, for patterns with a capturing
// group, the captured text.
func (m Matcher) Match(line string) (bool, string) {
	if m.rx != nil {
		groups := m.rx.FindStringSubmatch(line)
		if groups == nil {
			return false, ""
		}
		if len(groups) > 1 {
			return true, groups[1]
		}
		return true, ""
	}
	return strings.Contains(textutil.Normalize(line), m.literal), ""
}

// DetectStarts scans the first headerLines lines of every page (0 meaning
// all lines) and records a section start for the first matcher that hits any
// line. Matcher list order wins; a page contributes at most one start.
// Captured text, when present, becomes the section's provisional label.
func DetectStarts(src Source, matchers []Matcher, headerLines int) ([]Start, error) {
	if len(matchers) == 0 {
		return nil, ErrNoSections
	}
	var starts []Start
	for page := 0; page < src.PageCount(); page++ {
		lines := src.PageLines(page, headerLines)
	matchers:
		for _, m := range matchers {
			for _, line := range lines {
				ok, captured := m.Match(line)
				if !ok {
					continue
				}
				label := ""
				if strings.TrimSpace(captured) != "" {
					label = textutil.SanitizeFilename(captured, 0)
				}
				starts = append(starts, Start{Page: page, Label: label})
				break matchers
			}
		}
	}
	if len(starts) == 0 {
		return nil, ErrNoSections
	}
	return starts, nil
}
