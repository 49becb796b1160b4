package util

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxLen        int
		preserveWords bool
		want          string
	}{
		{
			name:   "short string untouched",
			input:  "Raft is simple",
			maxLen: 200,
			want:   "Raft is simple",
		},
		{
			name:          "cut at word boundary",
			input:         "Raft is a consensus algorithm designed for understandability",
			maxLen:        20,
			preserveWords: true,
			want:          "Raft is a...",
		},
		{
			name:   "cut mid word without preserve",
			input:  "abcdefghijklmnop",
			maxLen: 10,
			want:   "abcdefg...",
		},
		{
			name:   "zero max",
			input:  "anything",
			maxLen: 0,
			want:   "",
		},
		{
			name:   "tiny max",
			input:  "anything",
			maxLen: 2,
			want:   "..",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxLen, tt.preserveWords)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d, %v) = %q, want %q",
					tt.input, tt.maxLen, tt.preserveWords, got, tt.want)
			}
		})
	}
}

func TestTruncateUTF8Safe(t *testing.T) {
	in := strings.Repeat("数", 50)
	got := Truncate(in, 10, false)
	if len([]rune(got)) > 10 {
		t.Errorf("truncated string has %d runes, want <= 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
