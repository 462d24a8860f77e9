package utils

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"already clean", "gold", "gold"},
		{"internal runs", "gold   mini\t\tfutures", "gold mini futures"},
		{"newlines and tabs", "\n\t 312.2 \n 307.3\t", "312.2 307.3"},
		{"only whitespace", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanTextNoWhitespaceRuns(t *testing.T) {
	inputs := []string{
		"a  b   c",
		"\t\tx\n\ny\t",
		"  leading and trailing  ",
	}
	for _, in := range inputs {
		got := CleanText(in)
		if strings.Contains(got, "  ") || strings.Contains(got, "\t") || strings.Contains(got, "\n") {
			t.Errorf("CleanText(%q) = %q still contains a whitespace run", in, got)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("CleanText(%q) = %q has leading/trailing whitespace", in, got)
		}
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"312.2 307.3 310.5", "312.2"},
		{"", ""},
		{"   ", ""},
		{"55000", "55000"},
	}

	for _, tt := range tests {
		if got := FirstToken(tt.input); got != tt.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStripExpirySuffix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gold exp: apr-26", "gold"},
		{"GOLD Exp: Feb-26", "gold"},
		{"silver", "silver"},
		{"Crude Oil exp: may-26", "crude oil"},
		{"COPPER", "copper"},
	}

	for _, tt := range tests {
		if got := StripExpirySuffix(tt.input); got != tt.want {
			t.Errorf("StripExpirySuffix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractExpiry(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gold exp: apr-26", "apr-26"},
		{"GOLD Exp: Feb-26", "Feb-26"},
		{"silver", ""},
		{"exp:dec-25", "dec-25"},
	}

	for _, tt := range tests {
		if got := ExtractExpiry(tt.input); got != tt.want {
			t.Errorf("ExtractExpiry(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
