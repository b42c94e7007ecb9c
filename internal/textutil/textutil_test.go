package textutil

import (
	"strings"
	"testing"
)

func TestNormalize_StripsAccentsAndCase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Juan Pérez", "juan perez"},
		{"GÉNERO", "genero"},
		{"  Muchos   espacios  ", "muchos espacios"},
		{"A\u00a0B", "a b"}, // non-breaking space counts as a space
		{"Ñandú", "nandu"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitLabelValue_Separators(t *testing.T) {
	cases := []struct {
		line      string
		wantLabel string
		wantValue string
	}{
		{"Docente: Ana Ruiz", "Docente", "Ana Ruiz"},
		{"Docente = Ana Ruiz", "Docente", "Ana Ruiz"},
		{"Docente - Ana Ruiz", "Docente", "Ana Ruiz"},
		{"Docente — Ana Ruiz", "Docente", "Ana Ruiz"},
		{"Docente – Ana Ruiz", "Docente", "Ana Ruiz"},
		{"Docente:   Ana   Ruiz  ", "Docente", "Ana Ruiz"},
	}
	for _, tc := range cases {
		label, value, ok := SplitLabelValue(tc.line)
		if !ok {
			t.Errorf("SplitLabelValue(%q): expected ok", tc.line)
			continue
		}
		if label != tc.wantLabel || value != tc.wantValue {
			t.Errorf("SplitLabelValue(%q) = (%q, %q), want (%q, %q)",
				tc.line, label, value, tc.wantLabel, tc.wantValue)
		}
	}
}

func TestSplitLabelValue_NoValue(t *testing.T) {
	for _, line := range []string{"", "sin separador", "Docente:", "Docente:   "} {
		if _, _, ok := SplitLabelValue(line); ok {
			t.Errorf("SplitLabelValue(%q): expected no value", line)
		}
	}
}

func TestSplitLabelValue_FirstSeparatorWins(t *testing.T) {
	_, value, ok := SplitLabelValue("Docente: Ana Ruiz - Titular")
	if !ok || value != "Ana Ruiz - Titular" {
		t.Errorf("expected split at first separator, got %q (ok=%v)", value, ok)
	}
}

func TestSanitizeFilename_RemovesDisallowed(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ana Ruiz", "Ana Ruiz"},
		{"Ana/Ruiz*?", "AnaRuiz"},
		{"Plan (2) - final.v2_x", "Plan (2) - final.v2_x"},
		{"José María", "José María"}, // accents survive in output values
		{"", FallbackName},
		{"***", FallbackName},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in, 0); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := SanitizeFilename(long, 0)
	if len([]rune(got)) != DefaultMaxNameLen {
		t.Errorf("expected %d runes, got %d", DefaultMaxNameLen, len([]rune(got)))
	}
	if got := SanitizeFilename("abcdef", 3); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	inputs := []string{
		"Ana/Ruiz*?",
		strings.Repeat("x y ", 60),
		"  Juan   Pérez  ",
		"",
	}
	for _, in := range inputs {
		once := SanitizeFilename(in, 0)
		twice := SanitizeFilename(once, 0)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCleanTitlePrefixes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Dr. Juan Pérez", "Juan Pérez"},
		{"DRA. Ana Ruiz", "Ana Ruiz"},
		{"Lic Maria Lopez", "Maria Lopez"},
		{"ING. Carlos Soto", "Carlos Soto"},
		{"MSc. Elena Diaz", "Elena Diaz"},
		{"M.Sc. Elena Diaz", "Elena Diaz"},
		{"Prof. Pedro Gil", "Pedro Gil"},
		{"Ph.D. Rosa Vega", "Rosa Vega"},
		{"Maestro Luis Paz", "Luis Paz"},
		{"Juan Pérez", "Juan Pérez"}, // no prefix
		{"Drake Ramirez", "Drake Ramirez"}, // prefix needs trailing space
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanTitlePrefixes(tc.in); got != tc.want {
			t.Errorf("CleanTitlePrefixes(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCutBefore(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Juan Pérez GÉNERO: M", "Juan Pérez"},
		{"Juan Pérez GENERO: M", "Juan Pérez"},
		{"Juan Pérez género femenino", "Juan Pérez"},
		{"Juan Pérez", "Juan Pérez"},
		{"GÉNERO: M", ""},
		{"Generoso Ríos", "Generoso Ríos"}, // whole word only
		{"", ""},
	}
	for _, tc := range cases {
		if got := CutBefore(tc.in, "GÉNERO"); got != tc.want {
			t.Errorf("CutBefore(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCutBefore_EmptyKeyword(t *testing.T) {
	if got := CutBefore("  Juan Pérez  ", ""); got != "Juan Pérez" {
		t.Errorf("expected trim only, got %q", got)
	}
}

func TestIsNegativeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"- 1,234", true},
		{"-1234", true},
		{"-1234.56", true},
		{"-1 234", true},
		{"1234", false},
		{"1,234.00", false},
		{"abc", false},
		{"-abc", false},
		{"", false},
		{"--5", false},
		{"-", false},
	}
	for _, tc := range cases {
		if got := IsNegativeNumber(tc.in); got != tc.want {
			t.Errorf("IsNegativeNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
