package dupescan

import (
	"strings"
)

// Buffer and batch defaults
const (
	DefaultHashBufferSize = 1024 * 1024 // 1 MiB read chunk for content hashing
	DefaultReadDirBatch   = 256         // directory entries fetched per ReadDir call
	DefaultSkiplistLevels = 16
)

// FingerprintSize is the size of every supported digest in bytes.
const FingerprintSize = 32

// Hash type constants
const (
	HashTypeSHA256     uint16 = 1 // SHA-256
	HashTypeSHA512_256 uint16 = 2 // SHA-512/256
	HashTypeSHA3_256   uint16 = 3 // SHA3-256
	HashTypeBLAKE2b256 uint16 = 4 // BLAKE2b-256
)

// Hash algorithm names as accepted in config files and on the command line
const (
	HashNameSHA256     = "sha256"
	HashNameSHA512_256 = "sha512/256"
	HashNameSHA3_256   = "sha3-256"
	HashNameBLAKE2b256 = "blake2b-256"
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeSHA256:
		return HashNameSHA256
	case HashTypeSHA512_256:
		return HashNameSHA512_256
	case HashTypeSHA3_256:
		return HashNameSHA3_256
	case HashTypeBLAKE2b256:
		return HashNameBLAKE2b256
	default:
		return "unknown"
	}
}

// HashTypeFromName returns the hash type constant from a name (case-insensitive)
func HashTypeFromName(name string) (uint16, bool) {
	switch strings.ToLower(name) {
	case HashNameSHA256:
		return HashTypeSHA256, true
	case HashNameSHA512_256, "sha512_256":
		return HashTypeSHA512_256, true
	case HashNameSHA3_256:
		return HashTypeSHA3_256, true
	case HashNameBLAKE2b256, "blake2b":
		return HashTypeBLAKE2b256, true
	default:
		return 0, false
	}
}

// Symlink handling modes
const (
	SymlinkModeNone      = "none"      // report symlinks and skip them
	SymlinkModeContained = "contained" // hash file symlinks whose target is inside the scan root
	SymlinkModeAll       = "all"       // hash every file symlink
)

// Output formats understood by the command line tool
const (
	OutputFormatHuman  = "human"
	OutputFormatJSON   = "json"
	OutputFormatFdupes = "fdupes"
)
