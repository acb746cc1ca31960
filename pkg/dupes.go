package dupescan

import (
	"iter"
	"slices"
)

// FileEntry is one discovered regular file, linked to its directory by id.
type FileEntry struct {
	Name     string
	ParentID int
	Size     int64
}

// DuplicateGroup is the set of files sharing one fingerprint, in discovery order.
type DuplicateGroup struct {
	Fingerprint Fingerprint
	Entries     []FileEntry
}

// IsDuplicate reports whether the group holds more than one file.
func (g DuplicateGroup) IsDuplicate() bool {
	return len(g.Entries) >= 2
}

// DuplicateIndex maps fingerprints to the files that produced them.
// It only grows; entries are never removed or modified.
type DuplicateIndex struct {
	groups    *groupSkiplist
	algorithm string
	files     int
}

// NewDuplicateIndex creates an empty index. The algorithm name tags each group.
func NewDuplicateIndex(algorithm string) *DuplicateIndex {
	return &DuplicateIndex{
		groups:    newGroupSkiplist(DefaultSkiplistLevels),
		algorithm: algorithm,
	}
}

// Record appends entry to the group for fp, creating the group if absent.
func (di *DuplicateIndex) Record(fp Fingerprint, entry FileEntry) {
	di.files++
	if group := di.groups.find(fp); group != nil {
		group.entries = append(group.entries, entry)
		return
	}
	group := &fileGroup{
		fingerprint: fp,
		entries:     make([]FileEntry, 1, 2),
	}
	group.entries[0] = entry
	di.groups.insert(group, di.algorithm)
}

// Find returns the group recorded for fp.
func (di *DuplicateIndex) Find(fp Fingerprint) (DuplicateGroup, bool) {
	group := di.groups.find(fp)
	if group == nil {
		return DuplicateGroup{}, false
	}
	return group.export(), true
}

// Len returns the number of distinct fingerprints.
func (di *DuplicateIndex) Len() int {
	return di.groups.length()
}

// FileCount returns the total number of recorded files.
func (di *DuplicateIndex) FileCount() int {
	return di.files
}

// Groups iterates every group, singletons included, in fingerprint order.
func (di *DuplicateIndex) Groups() iter.Seq[DuplicateGroup] {
	return func(yield func(DuplicateGroup) bool) {
		di.groups.forEach(func(group *fileGroup) bool {
			return yield(group.export())
		})
	}
}

// GroupsWithDuplicates iterates the groups holding two or more files.
// The sequence is lazy and may be ranged over any number of times.
func (di *DuplicateIndex) GroupsWithDuplicates() iter.Seq[DuplicateGroup] {
	return func(yield func(DuplicateGroup) bool) {
		di.groups.forEach(func(group *fileGroup) bool {
			if len(group.entries) < 2 {
				return true
			}
			return yield(group.export())
		})
	}
}

// export copies the group so callers cannot alter the index.
func (g *fileGroup) export() DuplicateGroup {
	return DuplicateGroup{
		Fingerprint: g.fingerprint,
		Entries:     slices.Clone(g.entries),
	}
}
