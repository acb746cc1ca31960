package dupescan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreManager_Patterns(t *testing.T) {
	im := NewIgnoreManager()
	for _, pattern := range []string{"*.tmp", "**/node_modules", "cache/*", `re:\.bak$`} {
		if err := im.AddPattern(pattern); err != nil {
			t.Fatalf("AddPattern(%s) failed: %v", pattern, err)
		}
	}

	testCases := []struct {
		path   string
		ignore bool
	}{
		{"a.tmp", true},
		{"deep/dir/b.tmp", true},
		{"node_modules", true},
		{"web/node_modules", true},
		{"cache/entry", true},
		{"cache", false},
		{"sub/cache/entry", false},
		{"notes.bak", true},
		{"dir/notes.bak", true},
		{"notes.bak.txt", false},
		{"src/main.go", false},
	}

	for _, tc := range testCases {
		if got := im.ShouldIgnore(tc.path); got != tc.ignore {
			t.Errorf("ShouldIgnore(%s) = %v, expected %v", tc.path, got, tc.ignore)
		}
	}

	patterns := im.Patterns()
	if len(patterns) != 4 || patterns[3] != `re:\.bak$` {
		t.Errorf("Unexpected patterns %v", patterns)
	}
}

func TestIgnoreManager_Empty(t *testing.T) {
	var nilManager *IgnoreManager
	if nilManager.ShouldIgnore("anything") {
		t.Error("nil manager should ignore nothing")
	}

	im := NewIgnoreManager()
	if im.HasPatterns() || im.ShouldIgnore("anything") {
		t.Error("empty manager should ignore nothing")
	}
}

func TestIgnoreManager_InvalidPatterns(t *testing.T) {
	im := NewIgnoreManager()
	if err := im.AddPattern("re:(unclosed"); err == nil {
		t.Error("Expected error for invalid regex")
	}
	if err := im.AddPattern("[unclosed"); err == nil {
		t.Error("Expected error for invalid glob")
	}
	if im.HasPatterns() {
		t.Error("Invalid patterns must not be added")
	}
}

func TestIgnoreManager_LoadIgnoreFile(t *testing.T) {
	ignorePath := filepath.Join(t.TempDir(), "ignore")
	content := "# build output\n\n*.o\n  .git  \nre:^vendor/\n"
	if err := os.WriteFile(ignorePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}

	im := NewIgnoreManager()
	if err := im.LoadIgnoreFile(ignorePath); err != nil {
		t.Fatalf("LoadIgnoreFile failed: %v", err)
	}
	if got := len(im.Patterns()); got != 3 {
		t.Errorf("Expected 3 patterns, got %d", got)
	}
	for _, path := range []string{"x.o", ".git", "vendor/lib"} {
		if !im.ShouldIgnore(path) {
			t.Errorf("Expected %s to be ignored", path)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad")
	if err := os.WriteFile(bad, []byte("ok\nre:[\n"), 0644); err != nil {
		t.Fatalf("Failed to write ignore file: %v", err)
	}
	if err := NewIgnoreManager().LoadIgnoreFile(bad); err == nil {
		t.Error("Expected error for invalid pattern in file")
	}
	if err := NewIgnoreManager().LoadIgnoreFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing ignore file")
	}
}
