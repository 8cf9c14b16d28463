package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "chapter-1", "chapter-1"},
		{"separator", "part/one", "partone"},
		{"hidden", "..book", "book"},
		{"trailing", "book. ", "book"},
		{"control", "bo\x00o\tk", "book"},
		{"nothing left", "/..", badFileName},
		{"unicode", "Café Noir", "Café Noir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
