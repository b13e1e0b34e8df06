package textproc

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "pipe runs become l",
			input:    "he||o world",
			expected: "helo world",
		},
		{
			name:     "zero runs become o",
			input:    "100k books",
			expected: "1ok books",
		},
		{
			name:     "isolated letters removed",
			input:    "the q quick fox",
			expected: "the quick fox",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  multiple   spaces\there  ",
			expected: "multiple spaces here",
		},
		{
			name:     "clean text unchanged",
			input:    "already clean text",
			expected: "already clean text",
		},
		{
			name:     "only noise collapses to empty",
			input:    " a b c ",
			expected: "",
		},
		{
			name:     "letter between single pipes",
			input:    "|a|",
			expected: "",
		},
		{
			name:     "pipe run born from dropped letters",
			input:    "x |i| y",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"he||o  wor|d 00",
		"  a b isolated  tokens  ",
		"plain sentence with no artifacts",
		"|| 00 || 00",
		"|a|",
		"x |i| y",
		"|a| |b|",
	}

	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
