package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.log"})
		// default pattern + *.log
		if len(m.patterns) != 2 {
			t.Fatalf("expected 2 patterns, got %d", len(m.patterns))
		}
		if m.patterns[1] != "*.log" {
			t.Errorf("expected *.log, got %s", m.patterns[1])
		}
	})

	t.Run("always ignores the ignore file", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher(nil)
		if !m.Match(IgnoreFileName) {
			t.Errorf("Match(%q) = false, want true", IgnoreFileName)
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		fileName string
		want     bool
	}{
		{name: "glob matches", patterns: []string{"*.log"}, fileName: "app.log", want: true},
		{name: "glob does not match different extension", patterns: []string{"*.log"}, fileName: "app.txt", want: false},
		{name: "exact name", patterns: []string{".DS_Store"}, fileName: ".DS_Store", want: true},
		{name: "question mark wildcard", patterns: []string{"?.txt"}, fileName: "a.txt", want: true},
		{name: "question mark does not match multiple chars", patterns: []string{"?.txt"}, fileName: "ab.txt", want: false},
		{name: "character class", patterns: []string{"*.[oa]"}, fileName: "main.o", want: true},
		{name: "no patterns matches only defaults", patterns: nil, fileName: "anything.txt", want: false},
		{name: "empty name", patterns: []string{"*"}, fileName: "", want: false},
		{name: "second pattern matches", patterns: []string{"*.log", "*.tmp"}, fileName: "data.tmp", want: true},
		{name: "bad pattern is skipped", patterns: []string{"[", "*.tmp"}, fileName: "data.tmp", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			if got := m.Match(tt.fileName); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestIgnoreMatcher_Validate(t *testing.T) {
	if err := NewIgnoreMatcher([]string{"*.log"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := NewIgnoreMatcher([]string{"["}).Validate(); err == nil {
		t.Error("Validate() expected error for malformed pattern")
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, IgnoreFileName)
		content := "*.log\n# comment\n\n*.tmp\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(patterns) != 4 {
			t.Fatalf("expected 4 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if len(m.patterns) != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile("/nonexistent/" + IgnoreFileName)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
