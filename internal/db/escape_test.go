package db

import "testing"

func TestEscapeTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"c++", `c\+\+`},
		{"a-b", `a\-b`},
		{"@field{x}", `\@field\{x\}`},
		{"50% off", `50\% off`},
	}
	for _, tt := range tests {
		if got := EscapeTerm(tt.in); got != tt.want {
			t.Errorf("EscapeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"books", "books"},
		{"sci-fi", `sci\-fi`},
		{"home & garden", `home\ \&\ garden`},
	}
	for _, tt := range tests {
		if got := EscapeTag(tt.in); got != tt.want {
			t.Errorf("EscapeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
