package dupescan

import "testing"

func TestParseHumanSize(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"1024", 1024, false},
		{"64k", 64 << 10, false},
		{"64KB", 64 << 10, false},
		{"1M", 1 << 20, false},
		{"1.5M", 3 << 19, false},
		{" 2g ", 2 << 30, false},
		{"512B", 512, false},
		{"", 0, true},
		{"M", 0, true},
		{"12X", 0, true},
		{"0", 0, true},
		{"1.2.3K", 0, true},
	}

	for _, tc := range testCases {
		got, err := ParseHumanSize(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseHumanSize(%q): expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanSize(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseHumanSize(%q) = %d, expected %d", tc.input, got, tc.expected)
		}
	}
}

func TestFormatHumanSize(t *testing.T) {
	testCases := []struct {
		size     int64
		expected string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.0K"},
		{1536, "1.5K"},
		{1 << 20, "1.0M"},
		{5 << 30, "5.0G"},
		{3 << 40, "3072.0G"},
	}

	for _, tc := range testCases {
		if got := FormatHumanSize(tc.size); got != tc.expected {
			t.Errorf("FormatHumanSize(%d) = %s, expected %s", tc.size, got, tc.expected)
		}
	}
}
