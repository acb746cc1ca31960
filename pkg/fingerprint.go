package dupescan

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Fingerprint is the fixed-size content digest of a file. Equal fingerprints
// are treated as equal content.
type Fingerprint [FingerprintSize]byte

// Compare orders fingerprints bytewise, returning -1, 0 or +1.
func (fp Fingerprint) Compare(other Fingerprint) int {
	return bytes.Compare(fp[:], other[:])
}

// Hex returns the lowercase hex encoding of the fingerprint.
func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}

// String implements fmt.Stringer.
func (fp Fingerprint) String() string {
	return fp.Hex()
}

// IsZero reports whether the fingerprint is all zero bytes.
func (fp Fingerprint) IsZero() bool {
	return fp == Fingerprint{}
}

// Digest returns the fingerprint as an algorithm-prefixed digest, e.g. "sha256:ab12...".
func (fp Fingerprint) Digest(algorithm *HashAlgorithm) digest.Digest {
	if algorithm == nil || algorithm.TypeID == HashTypeSHA256 {
		return digest.NewDigestFromEncoded(digest.SHA256, fp.Hex())
	}
	return digest.NewDigestFromEncoded(digest.Algorithm(algorithm.Name), fp.Hex())
}

// ParseFingerprint accepts either a bare 64 character hex string or an
// algorithm-prefixed digest string.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint

	encoded := s
	if strings.IndexByte(s, ':') >= 0 {
		d := digest.Digest(s)
		if d.Algorithm().Available() {
			if err := d.Validate(); err != nil {
				return fp, fmt.Errorf("invalid digest %q: %w", s, err)
			}
		}
		encoded = d.Encoded()
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return fp, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	if len(raw) != FingerprintSize {
		return fp, fmt.Errorf("invalid fingerprint %q: expected %d bytes, got %d", s, FingerprintSize, len(raw))
	}
	copy(fp[:], raw)
	return fp, nil
}
