package dupescan

import (
	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// fileGroup holds every entry recorded under one fingerprint.
type fileGroup struct {
	fingerprint Fingerprint
	entries     []FileEntry
}

// groupRef is the skiplist item. It points at the group so appends made
// through a found item are visible to every later lookup.
type groupRef struct {
	group *fileGroup
}

// groupSkiplist wraps zerocopyskiplist, keyed by fingerprint. The context
// records the hash algorithm name the group was created under.
type groupSkiplist struct {
	skiplist *zcsl.ZeroCopySkiplist[groupRef, Fingerprint, string]
}

func newGroupSkiplist(maxLevels int) *groupSkiplist {
	if maxLevels < 8 {
		maxLevels = DefaultSkiplistLevels
	}

	getKeyFromItem := func(ref *groupRef) Fingerprint {
		if ref.group == nil {
			return Fingerprint{}
		}
		return ref.group.fingerprint
	}

	getItemSize := func(ref *groupRef) int {
		if ref.group == nil {
			return 0
		}
		return FingerprintSize + len(ref.group.entries)
	}

	cmpKey := func(a, b Fingerprint) int {
		return a.Compare(b)
	}

	return &groupSkiplist{
		skiplist: zcsl.MakeZeroCopySkiplist[groupRef, Fingerprint, string](
			maxLevels,
			getKeyFromItem,
			getItemSize,
			cmpKey,
		),
	}
}

// insert adds a new group; it returns false if the fingerprint is already present.
func (gs *groupSkiplist) insert(group *fileGroup, context string) bool {
	return gs.skiplist.Insert(&groupRef{group: group}, context)
}

// find returns the group for fp, or nil.
func (gs *groupSkiplist) find(fp Fingerprint) *fileGroup {
	itemPtr, _ := gs.skiplist.Find(fp)
	if itemPtr == nil {
		return nil
	}
	return itemPtr.Item().group
}

// forEach visits groups in fingerprint order until callback returns false.
func (gs *groupSkiplist) forEach(callback func(*fileGroup) bool) {
	for current := gs.skiplist.First(); current != nil; current = current.Next() {
		group := current.Item().group
		if group == nil {
			continue
		}
		if !callback(group) {
			return
		}
	}
}

func (gs *groupSkiplist) length() int {
	return gs.skiplist.Length()
}
