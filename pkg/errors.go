package dupescan

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrUnsupportedType is returned for entries that are neither regular
	// files nor directories (devices, sockets, FIFOs, unknown types).
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSymlinkNotFollowed is returned for symlinks the configured mode does not follow.
	ErrSymlinkNotFollowed = errors.New("symlink not followed")

	// ErrNotDirectory is returned when a scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInterrupted is returned when a shutdown signal stops a scan.
	ErrInterrupted = errors.New("scan interrupted by shutdown")

	// ErrIgnored marks entries matched by an ignore pattern.
	ErrIgnored = errors.New("ignored by pattern")
)

// RootError reports a scan root that could not be opened or enumerated.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("failed to scan root %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// SkipKind classifies why an entry was left out of a scan.
type SkipKind int

const (
	SkipIOError     SkipKind = iota // metadata, open or read failure
	SkipUnsupported                 // not a regular file or directory
	SkipSymlink                     // symlink not followed
	SkipIgnored                     // matched an ignore pattern
	SkipReadDir                     // directory enumeration stopped early
)

func (k SkipKind) String() string {
	switch k {
	case SkipIOError:
		return "io error"
	case SkipUnsupported:
		return "unsupported type"
	case SkipSymlink:
		return "symlink"
	case SkipIgnored:
		return "ignored"
	case SkipReadDir:
		return "partial directory"
	default:
		return "unknown"
	}
}

// SkipRecord is one entry of the skip log.
type SkipRecord struct {
	Path string
	Kind SkipKind
	Err  error
}

func (r SkipRecord) String() string {
	return fmt.Sprintf("%s (%s): %v", r.Path, r.Kind, r.Err)
}

// classifySkip maps an entry failure to its skip kind.
func classifySkip(err error) SkipKind {
	switch {
	case errors.Is(err, ErrIgnored):
		return SkipIgnored
	case errors.Is(err, ErrSymlinkNotFollowed):
		return SkipSymlink
	case errors.Is(err, ErrUnsupportedType):
		return SkipUnsupported
	default:
		return SkipIOError
	}
}

// describeMode names the file type bits of mode for log messages.
func describeMode(mode fs.FileMode) string {
	switch {
	case mode.IsRegular():
		return "regular file"
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode&fs.ModeNamedPipe != 0:
		return "named pipe"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&fs.ModeCharDevice != 0:
		return "character device"
	case mode&fs.ModeDevice != 0:
		return "block device"
	case mode&fs.ModeIrregular != 0:
		return "irregular file"
	default:
		return "unknown type"
	}
}
