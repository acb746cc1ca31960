package dupescan

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// captureLog redirects log output for the duration of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetLogOutput(&buf)
	level := GetVerboseLevel()
	t.Cleanup(func() {
		SetLogOutput(prev)
		SetVerboseLevel(level)
		SetDebugFlags("")
	})
	return &buf
}

func TestSetDebugFlags(t *testing.T) {
	captureLog(t)

	SetDebugFlags("scan, HASH:true,report:off,walk:0")
	expected := map[string]bool{
		"scan":   true,
		"hash":   true,
		"Hash":   true,
		"report": false,
		"walk":   false,
		"other":  false,
	}
	for flag, enabled := range expected {
		if got := IsDebugEnabled(flag); got != enabled {
			t.Errorf("IsDebugEnabled(%s) = %v, expected %v", flag, got, enabled)
		}
	}

	SetDebugFlags("")
	if IsDebugEnabled("scan") {
		t.Error("Expected flags to be cleared")
	}
}

func TestVerboseLog_Levels(t *testing.T) {
	buf := captureLog(t)

	SetVerboseLevel(VerboseBasic)
	VerboseLog(VerboseBasic, "shown %d", 1)
	VerboseLog(VerboseDetail, "hidden")
	Warningf("always")

	out := buf.String()
	if !strings.Contains(out, "[VERBOSE-1] shown 1\n") {
		t.Errorf("Expected level 1 message, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("Level 2 message should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "Warning: always\n") {
		t.Errorf("Expected warning, got %q", out)
	}
}

func TestDebugLog(t *testing.T) {
	buf := captureLog(t)

	DebugLog("scan", "before")
	SetDebugFlags("scan")
	DebugLog("scan", "after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("Debug output before enabling flag: %q", out)
	}
	if !strings.Contains(out, "[SCAN] after") {
		t.Errorf("Expected debug output, got %q", out)
	}
}

func TestLogSkip(t *testing.T) {
	buf := captureLog(t)
	SetVerboseLevel(VerboseQuiet)

	LogSkip(SkipRecord{Path: "/r/pipe", Kind: SkipUnsupported, Err: ErrUnsupportedType})
	LogSkip(SkipRecord{Path: "/r/x.tmp", Kind: SkipIgnored, Err: ErrIgnored})

	out := buf.String()
	if !strings.Contains(out, "Warning: skipped /r/pipe (unsupported type)") {
		t.Errorf("Expected skip warning, got %q", out)
	}
	if strings.Contains(out, "x.tmp") {
		t.Errorf("Ignored entries should be quiet at level 0, got %q", out)
	}

	buf.Reset()
	SetVerboseLevel(VerboseDetail)
	LogSkip(SkipRecord{Path: "/r/x.tmp", Kind: SkipIgnored, Err: errors.New("matched")})
	if !strings.Contains(buf.String(), "ignored /r/x.tmp") {
		t.Errorf("Expected ignored entry at level 2, got %q", buf.String())
	}
}

func TestVerboseEnter(t *testing.T) {
	buf := captureLog(t)

	SetVerboseLevel(VerboseTrace)
	func() {
		defer VerboseEnter()()
	}()

	out := buf.String()
	if !strings.Contains(out, "[TRACE] Entering function:") || !strings.Contains(out, "[TRACE] Exiting function:") {
		t.Errorf("Expected trace output, got %q", out)
	}
}
