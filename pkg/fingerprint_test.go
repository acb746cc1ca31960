package dupescan

import (
	"crypto/sha256"
	"strings"
	"testing"
)

func TestFingerprint_DigestAndParse(t *testing.T) {
	fp := Fingerprint(sha256.Sum256([]byte("hello")))

	d := fp.Digest(nil)
	if !strings.HasPrefix(d.String(), "sha256:") {
		t.Fatalf("Expected sha256 prefix, got %s", d)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Digest does not validate: %v", err)
	}

	for _, input := range []string{d.String(), fp.Hex()} {
		parsed, err := ParseFingerprint(input)
		if err != nil {
			t.Fatalf("ParseFingerprint(%q) failed: %v", input, err)
		}
		if parsed != fp {
			t.Errorf("ParseFingerprint(%q) = %s, want %s", input, parsed, fp)
		}
	}

	blake, err := GetHashAlgorithm(HashNameBLAKE2b256)
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}
	prefixed := fp.Digest(blake).String()
	if !strings.HasPrefix(prefixed, "blake2b-256:") {
		t.Errorf("Expected blake2b-256 prefix, got %s", prefixed)
	}
	if parsed, err := ParseFingerprint(prefixed); err != nil || parsed != fp {
		t.Errorf("ParseFingerprint(%q) = %s, %v", prefixed, parsed, err)
	}
}

func TestParseFingerprint_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "zz" + strings.Repeat("0", 62), "sha256:1234", strings.Repeat("0", 66)} {
		if _, err := ParseFingerprint(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestFingerprint_Compare(t *testing.T) {
	var low, high Fingerprint
	high[0] = 1

	if low.Compare(high) != -1 || high.Compare(low) != 1 || low.Compare(low) != 0 {
		t.Error("Compare does not order bytewise")
	}
	if !low.IsZero() || high.IsZero() {
		t.Error("IsZero mismatch")
	}
}
