package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FallbackName substitutes a file name when sanitization leaves nothing.
const FallbackName = "Plan"

// DefaultMaxNameLen caps sanitized file names.
const DefaultMaxNameLen = 100

var wsRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims s and squeezes internal whitespace runs to one space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Normalize returns a lower-cased, accent-stripped, whitespace-collapsed copy
// of s for tolerant comparison. A non-breaking space counts as a space.
// Never use the result as an output value.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(CollapseWhitespace(b.String()))
}

// separatorRe matches the glyphs accepted between a label and its value:
// colon, equals, hyphen, em-dash, en-dash, with optional surrounding spaces.
var separatorRe = regexp.MustCompile(`\s*[:=\-\x{2014}\x{2013}]\s*`)

// SplitLabelValue splits a line at the first label/value separator. The value
// keeps its original casing and accents, whitespace-collapsed. ok is false
// when the line has no separator or the trailing portion is empty.
func SplitLabelValue(line string) (label, value string, ok bool) {
	loc := separatorRe.FindStringIndex(line)
	if loc == nil {
		return "", "", false
	}
	value = CollapseWhitespace(line[loc[1]:])
	if value == "" {
		return "", "", false
	}
	return line[:loc[0]], value, true
}

// disallowedRe matches everything SanitizeFilename removes: anything that is
// not a letter, digit, underscore, whitespace, hyphen, period or parenthesis.
var disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.()]`)

// SanitizeFilename makes name safe for use as a file name: drops disallowed
// characters, collapses whitespace and caps the result at maxLen runes
// (DefaultMaxNameLen when maxLen <= 0). An empty result becomes FallbackName.
// Idempotent.
func SanitizeFilename(name string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxNameLen
	}
	name = CollapseWhitespace(disallowedRe.ReplaceAllString(name, ""))
	if r := []rune(name); len(r) > maxLen {
		name = strings.TrimSpace(string(r[:maxLen]))
	}
	if name == "" {
		return FallbackName
	}
	return name
}

// titlePrefixRe matches honorifics at the start of a name, with or without
// trailing dots: DR., DRA., LIC., ING., MSC., M.SC., MAG., MAESTRO/A, MASTER,
// MTR., PH.D., PROF.
var titlePrefixRe = regexp.MustCompile(`(?i)^\s*(?:dr\.?|dra\.?|lic\.?|ing\.?|msc\.?|m\.?sc\.?|mag\.?|maestr[eo]|master|mtr\.?|ph\.?d\.?|prof\.?)\s+`)

// CleanTitlePrefixes strips a leading honorific from a person's name.
func CleanTitlePrefixes(name string) string {
	return CollapseWhitespace(titlePrefixRe.ReplaceAllString(name, ""))
}

// accentClasses widens normalized runes back into accent-tolerant classes
// when building a keyword expression.
var accentClasses = map[rune]string{
	'a': "[aá]",
	'e': "[eé]",
	'i': "[ií]",
	'o': "[oó]",
	'u': "[uúü]",
	'n': "[nñ]",
}

// CutBefore discards everything from the first occurrence of keyword onward.
// The keyword is matched as a whole word, ignoring case and accents, so a
// cutoff of "GÉNERO" also cuts at "GENERO". An empty or uncompilable keyword
// leaves s untouched apart from trimming.
func CutBefore(s, keyword string) string {
	rx := compileKeyword(keyword)
	if rx == nil {
		return strings.TrimSpace(s)
	}
	parts := rx.Split(s, 2)
	return strings.TrimSpace(parts[0])
}

func compileKeyword(keyword string) *regexp.Regexp {
	keyword = Normalize(keyword)
	if keyword == "" {
		return nil
	}
	var b strings.Builder
	b.WriteString(`(?i)(?:^|[^\p{L}\p{N}_])`)
	for _, r := range keyword {
		if cls, ok := accentClasses[r]; ok {
			b.WriteString(cls)
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`(?:[^\p{L}\p{N}_]|$)`)
	rx, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return rx
}

var (
	thousandsRe = regexp.MustCompile(`[\s,\x{00a0}]`)
	numberRe    = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// IsNegativeNumber reports whether raw represents a negative number once
// thousands separators (spaces, commas, non-breaking spaces) are stripped.
// Values that do not parse as numbers at all return false: unparseable
// fields pass through as valid.
func IsNegativeNumber(raw string) bool {
	v := thousandsRe.ReplaceAllString(raw, "")
	return numberRe.MatchString(v) && strings.HasPrefix(v, "-")
}
