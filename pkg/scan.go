package dupescan

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScanOptions configures a ScanSession. Zero values select the defaults.
type ScanOptions struct {
	Algorithm    *HashAlgorithm   // default sha256
	BufferSize   int              // hash read chunk, default 1 MiB
	ReadDirBatch int              // entries per directory read, default 256
	SymlinkMode  string           // none (default), contained or all
	Ignore       *IgnoreManager   // optional
	OnSkip       func(SkipRecord) // default LogSkip
}

// ScanStats summarises a session.
type ScanStats struct {
	Roots       int
	Directories int
	Files       int
	Groups      int
	BytesHashed int64
	Skipped     int
	PartialDirs int
}

// ScanSession owns the directory table and duplicate index for one run.
// It is not safe for concurrent use.
type ScanSession struct {
	opts        ScanOptions
	dirs        *DirectoryTable
	index       *DuplicateIndex
	skipped     []SkipRecord
	partial     map[int]struct{}
	bytesHashed int64
}

// dirFrame is one open directory on the walk stack.
type dirFrame struct {
	id       int
	path     string // full path as reached from the root
	relPath  string // path relative to the root, "" for the root
	root     *rootInfo
	dir      *os.File
	pending  []os.DirEntry
	finished bool // no more entries will be read
}

// rootInfo carries per-root data shared by every frame below it.
type rootInfo struct {
	path     string
	realPath string // symlink-resolved, computed on first use
}

// NewScanSession creates an empty session.
func NewScanSession(opts ScanOptions) *ScanSession {
	if opts.Algorithm == nil {
		opts.Algorithm = DefaultHashAlgorithm()
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultHashBufferSize
	}
	if opts.ReadDirBatch <= 0 {
		opts.ReadDirBatch = DefaultReadDirBatch
	}
	if opts.SymlinkMode == "" {
		opts.SymlinkMode = SymlinkModeNone
	}
	opts.SymlinkMode = strings.ToLower(opts.SymlinkMode)
	if opts.OnSkip == nil {
		opts.OnSkip = LogSkip
	}

	return &ScanSession{
		opts:    opts,
		dirs:    NewDirectoryTable(),
		index:   NewDuplicateIndex(opts.Algorithm.Name),
		partial: make(map[int]struct{}),
	}
}

// ScanRoots walks each root in order. By default the first root failure stops
// the run; with keepGoing every root is attempted and all failures are joined.
// An interrupt always stops the run.
func (s *ScanSession) ScanRoots(roots []string, keepGoing bool, shutdownChan <-chan struct{}) error {
	var errs []error
	for _, root := range roots {
		err := s.ScanRoot(root, shutdownChan)
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if !keepGoing || errors.Is(err, ErrInterrupted) {
			break
		}
		Warningf("%v", err)
	}
	return errors.Join(errs...)
}

// ScanRoot walks one root depth-first. Failing to open the root is returned as
// a *RootError; failures on anything beneath the root are recorded in the skip
// log and the walk continues with the next sibling.
func (s *ScanSession) ScanRoot(rootPath string, shutdownChan <-chan struct{}) error {
	defer VerboseEnter()()

	dir, err := openDirectory(rootPath)
	if err != nil {
		return &RootError{Root: rootPath, Err: err}
	}

	rootID := s.dirs.RegisterRoot(rootPath)
	VerboseLog(VerboseBasic, "Start scanning %s", rootPath)

	stack := []*dirFrame{{
		id:   rootID,
		path: rootPath,
		root: &rootInfo{path: rootPath},
		dir:  dir,
	}}
	defer func() {
		for _, frame := range stack {
			frame.dir.Close()
		}
	}()

	for len(stack) > 0 {
		select {
		case <-shutdownChan:
			return fmt.Errorf("failed to scan root %s: %w", rootPath, ErrInterrupted)
		default:
		}

		top := stack[len(stack)-1]
		if len(top.pending) == 0 && !s.fill(top) {
			top.dir.Close()
			stack = stack[:len(stack)-1]
			continue
		}

		entry := top.pending[0]
		top.pending = top.pending[1:]

		child, err := s.scanEntry(top, entry, shutdownChan)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				return fmt.Errorf("failed to scan root %s: %w", rootPath, err)
			}
			s.skip(filepath.Join(top.path, entry.Name()), err)
			continue
		}
		if child != nil {
			stack = append(stack, child)
		}
	}

	VerboseLog(VerboseBasic, "Done %s", rootPath)
	return nil
}

// fill reads the next batch of entries into frame. It returns false once the
// directory is exhausted. A failed read stops the directory and marks it partial.
func (s *ScanSession) fill(frame *dirFrame) bool {
	if frame.finished {
		return false
	}

	entries, err := frame.dir.ReadDir(s.opts.ReadDirBatch)
	if err != nil {
		frame.finished = true
		if !errors.Is(err, io.EOF) {
			s.partial[frame.id] = struct{}{}
			s.record(SkipRecord{
				Path: frame.path,
				Kind: SkipReadDir,
				Err:  fmt.Errorf("failed to read directory entries: %w", err),
			})
		}
	}

	frame.pending = entries
	return len(entries) > 0
}

// scanEntry classifies one directory entry. It returns a frame when the entry
// is a directory to descend into, and an error when the entry must be skipped.
func (s *ScanSession) scanEntry(frame *dirFrame, entry os.DirEntry, shutdownChan <-chan struct{}) (*dirFrame, error) {
	name := entry.Name()
	entryPath := filepath.Join(frame.path, name)
	relPath := name
	if frame.relPath != "" {
		relPath = filepath.Join(frame.relPath, name)
	}

	if s.opts.Ignore.ShouldIgnore(relPath) {
		return nil, ErrIgnored
	}

	info, err := entry.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", entryPath, err)
	}
	mode := info.Mode()
	DebugLog("scan", "%s: %s", entryPath, describeMode(mode))

	switch {
	case mode.IsRegular():
		return nil, s.hashEntry(entryPath, name, frame.id, shutdownChan)

	case mode.IsDir():
		dir, err := openDirectory(entryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open directory %s: %w", entryPath, err)
		}
		id := s.dirs.Register(name, frame.id)
		VerboseLog(VerboseDetail, "dir %s (id %d, parent %d)", entryPath, id, frame.id)
		return &dirFrame{
			id:      id,
			path:    entryPath,
			relPath: relPath,
			root:    frame.root,
			dir:     dir,
		}, nil

	case mode&fs.ModeSymlink != 0:
		return nil, s.scanSymlink(frame, entryPath, name, shutdownChan)

	default:
		return nil, fmt.Errorf("%s is a %s: %w", entryPath, describeMode(mode), ErrUnsupportedType)
	}
}

// scanSymlink applies the symlink mode. Only links to regular files are ever
// hashed; directory links are never followed.
func (s *ScanSession) scanSymlink(frame *dirFrame, linkPath, name string, shutdownChan <-chan struct{}) error {
	if s.opts.SymlinkMode == SymlinkModeNone {
		target, _ := os.Readlink(linkPath)
		return fmt.Errorf("%s -> %s: %w", linkPath, target, ErrSymlinkNotFollowed)
	}

	targetInfo, err := os.Stat(linkPath)
	if err != nil {
		return fmt.Errorf("failed to resolve symlink %s: %w", linkPath, err)
	}
	if targetInfo.IsDir() {
		return fmt.Errorf("%s points to a directory: %w", linkPath, ErrSymlinkNotFollowed)
	}
	if !targetInfo.Mode().IsRegular() {
		return fmt.Errorf("%s points to a %s: %w", linkPath, describeMode(targetInfo.Mode()), ErrUnsupportedType)
	}

	if s.opts.SymlinkMode == SymlinkModeContained {
		target, err := filepath.EvalSymlinks(linkPath)
		if err != nil {
			return fmt.Errorf("failed to resolve symlink %s: %w", linkPath, err)
		}
		rootReal, err := frame.root.resolved()
		if err != nil {
			return fmt.Errorf("failed to resolve root %s: %w", frame.root.path, err)
		}
		if !isPathContained(target, rootReal) {
			return fmt.Errorf("%s points outside %s: %w", linkPath, frame.root.path, ErrSymlinkNotFollowed)
		}
	}

	return s.hashEntry(linkPath, name, frame.id, shutdownChan)
}

// hashEntry fingerprints a file and records it in the index.
func (s *ScanSession) hashEntry(filePath, name string, parentID int, shutdownChan <-chan struct{}) error {
	fp, size, err := HashFile(filePath, s.opts.Algorithm, s.opts.BufferSize, shutdownChan)
	if err != nil {
		return err
	}
	s.index.Record(fp, FileEntry{Name: name, ParentID: parentID, Size: size})
	s.bytesHashed += size
	VerboseLog(VerboseDetail, "file %s %s", fp.Digest(s.opts.Algorithm), filePath)
	return nil
}

// skip records a per-entry failure; the kind is derived from err.
func (s *ScanSession) skip(entryPath string, err error) {
	s.record(SkipRecord{Path: entryPath, Kind: classifySkip(err), Err: err})
}

func (s *ScanSession) record(rec SkipRecord) {
	s.skipped = append(s.skipped, rec)
	s.opts.OnSkip(rec)
}

// Directories returns the directory table.
func (s *ScanSession) Directories() *DirectoryTable {
	return s.dirs
}

// Index returns the duplicate index.
func (s *ScanSession) Index() *DuplicateIndex {
	return s.index
}

// Algorithm returns the hash algorithm fingerprints were computed with.
func (s *ScanSession) Algorithm() *HashAlgorithm {
	return s.opts.Algorithm
}

// Skipped returns the skip log in the order failures occurred.
func (s *ScanSession) Skipped() []SkipRecord {
	return slices.Clone(s.skipped)
}

// PartialDirs returns, in id order, the directories whose enumeration stopped
// early. Entries after the failure point were not visited.
func (s *ScanSession) PartialDirs() []int {
	ids := make([]int, 0, len(s.partial))
	for id := range s.partial {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// IsPartial reports whether the directory's enumeration stopped early.
func (s *ScanSession) IsPartial(id int) bool {
	_, ok := s.partial[id]
	return ok
}

// FilePath reconstructs the full path of a file entry.
func (s *ScanSession) FilePath(entry FileEntry) string {
	return filepath.Join(s.dirs.Path(entry.ParentID), entry.Name)
}

// RelativeFilePath returns the path of a file entry relative to its scan root.
func (s *ScanSession) RelativeFilePath(entry FileEntry) string {
	return filepath.Join(s.dirs.RelativePath(entry.ParentID), entry.Name)
}

// Stats summarises the session so far.
func (s *ScanSession) Stats() ScanStats {
	return ScanStats{
		Roots:       len(s.dirs.Roots()),
		Directories: s.dirs.Len(),
		Files:       s.index.FileCount(),
		Groups:      s.index.Len(),
		BytesHashed: s.bytesHashed,
		Skipped:     len(s.skipped),
		PartialDirs: len(s.partial),
	}
}

// openDirectory opens path and checks it is a directory.
func openDirectory(path string) (*os.File, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return nil, err
	}
	if !info.IsDir() {
		dir.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return dir, nil
}

func (r *rootInfo) resolved() (string, error) {
	if r.realPath != "" {
		return r.realPath, nil
	}
	resolvedPath, err := filepath.EvalSymlinks(r.path)
	if err != nil {
		return "", err
	}
	resolvedPath, err = filepath.Abs(resolvedPath)
	if err != nil {
		return "", err
	}
	r.realPath = resolvedPath
	return resolvedPath, nil
}

// isPathContained checks if targetPath is contained within containerPath
func isPathContained(targetPath, containerPath string) bool {
	targetPath = filepath.Clean(targetPath)
	containerPath = filepath.Clean(containerPath)

	if !filepath.IsAbs(targetPath) {
		abs, err := filepath.Abs(targetPath)
		if err != nil {
			return false
		}
		targetPath = abs
	}

	if targetPath == containerPath {
		return true
	}

	containerWithSep := containerPath
	if !strings.HasSuffix(containerWithSep, string(filepath.Separator)) {
		containerWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(targetPath, containerWithSep)
}
