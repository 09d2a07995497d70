package utils

import (
	"strings"
	"testing"
)

// TestTruncateString covers strings shorter than, equal to and longer than
// maxLen, plus the fallback to DefaultMaxStringLength.
func TestTruncateString(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		maxLen        int
		wantTruncated bool
	}{
		{"shorter than maxLen returns unchanged", "hello", 10, false},
		{"exactly at maxLen returns unchanged", "hello", 5, false},
		{"longer than maxLen gets truncated", "hello world", 5, true},
		{"zero maxLen uses default", strings.Repeat("a", DefaultMaxStringLength+1), 0, true},
		{"negative maxLen uses default", strings.Repeat("b", DefaultMaxStringLength), -1, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := TruncateString(testCase.input, testCase.maxLen)

			hasSuffix := strings.Contains(got, "... (truncated, total:")
			if hasSuffix != testCase.wantTruncated {
				t.Errorf("TruncateString(%q, %d) truncated=%v, want %v; got %q",
					testCase.input, testCase.maxLen, hasSuffix, testCase.wantTruncated, got)
			}
		})
	}
}

// TestTruncateString_ContentPreserved verifies the kept prefix is exact.
func TestTruncateString_ContentPreserved(t *testing.T) {
	got := TruncateString("abcdefghij", 4)
	if !strings.HasPrefix(got, "abcd...") {
		t.Errorf("expected prefix %q, got %q", "abcd...", got)
	}
}
