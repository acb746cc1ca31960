// Package dupescan finds duplicate files across one or more directory roots by
// fingerprinting the content of every regular file and grouping equal
// fingerprints. Nothing on disk is modified.
//
// # Core API
//
// A ScanSession owns the results of one run:
//
//	session := dupescan.NewScanSession(dupescan.ScanOptions{})
//	if err := session.ScanRoots([]string{"/data", "/backup"}, false, nil); err != nil {
//		// a root could not be opened
//	}
//
// Only a failure to open a root is returned. Anything that goes wrong beneath a
// root (permission denied, vanished files, sockets, FIFOs, symlinks) is recorded
// in the skip log and the walk carries on:
//
//	for _, rec := range session.Skipped() {
//		fmt.Println(rec.Path, rec.Kind, rec.Err)
//	}
//
// # Results
//
// Directories live in a flat table where each node refers to its parent by id;
// a root refers to itself. Files are grouped in a DuplicateIndex keyed by
// Fingerprint:
//
//	for group := range session.Index().GroupsWithDuplicates() {
//		for _, entry := range group.Entries {
//			fmt.Println(group.Fingerprint, session.FilePath(entry))
//		}
//	}
//
// BuildReport resolves the same data to paths for printing.
//
// # Configuration
//
// Enable debug output:
//
//	dupescan.SetDebugFlags("scan")
//	dupescan.SetVerboseLevel(2)
package dupescan
