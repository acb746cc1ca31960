package dupescan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReportGroup is a duplicate group with its paths resolved.
type ReportGroup struct {
	Digest string   `json:"digest"`
	Size   int64    `json:"size"`
	Count  int      `json:"count"`
	Files  []string `json:"files"`
}

// ReportSkip is a skip log entry in report form.
type ReportSkip struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Report is everything a caller prints after a scan.
type Report struct {
	Algorithm   string        `json:"algorithm"`
	Roots       []string      `json:"roots"`
	Groups      []ReportGroup `json:"groups"`
	Skipped     []ReportSkip  `json:"skipped,omitempty"`
	PartialDirs []string      `json:"partial_dirs,omitempty"`
	Stats       ScanStats     `json:"stats"`
}

// WastedBytes returns the bytes that would be freed by keeping one file per group.
func (r *Report) WastedBytes() int64 {
	var wasted int64
	for _, group := range r.Groups {
		wasted += group.Size * int64(group.Count-1)
	}
	return wasted
}

// BuildReport resolves every duplicate group of the session to full paths.
// Groups keep index order; files keep discovery order.
func BuildReport(session *ScanSession) *Report {
	dirs := session.Directories()
	report := &Report{
		Algorithm: session.Algorithm().Name,
		Stats:     session.Stats(),
	}

	for _, id := range dirs.Roots() {
		report.Roots = append(report.Roots, dirs.Path(id))
	}

	for group := range session.Index().GroupsWithDuplicates() {
		files := make([]string, 0, len(group.Entries))
		for _, entry := range group.Entries {
			files = append(files, session.FilePath(entry))
		}
		report.Groups = append(report.Groups, ReportGroup{
			Digest: group.Fingerprint.Digest(session.Algorithm()).String(),
			Size:   group.Entries[0].Size,
			Count:  len(files),
			Files:  files,
		})
	}

	for _, rec := range session.Skipped() {
		report.Skipped = append(report.Skipped, ReportSkip{
			Path:   rec.Path,
			Kind:   rec.Kind.String(),
			Reason: fmt.Sprint(rec.Err),
		})
	}

	for _, id := range session.PartialDirs() {
		report.PartialDirs = append(report.PartialDirs, dirs.Path(id))
	}

	return report
}

// Lines renders the report in the given format as a list of output chunks,
// each ending in a newline. JSON is a single chunk.
func (r *Report) Lines(format string) ([][]byte, error) {
	switch strings.ToLower(format) {
	case OutputFormatHuman:
		return r.humanLines(), nil
	case OutputFormatFdupes:
		return r.fdupesLines(), nil
	case OutputFormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return [][]byte{append(data, '\n')}, nil
	default:
		return nil, ValidateOutputFormat(format)
	}
}

func (r *Report) humanLines() [][]byte {
	var lines [][]byte
	for _, group := range r.Groups {
		lines = append(lines, fmt.Appendf(nil, "%s (%d files, %s each)\n", group.Digest, group.Count, FormatHumanSize(group.Size)))
		for _, file := range group.Files {
			lines = append(lines, fmt.Appendf(nil, "  %s\n", file))
		}
	}
	lines = append(lines, fmt.Appendf(nil,
		"%d duplicate groups, %s reclaimable; %d files in %d directories, %d skipped\n",
		len(r.Groups), FormatHumanSize(r.WastedBytes()), r.Stats.Files, r.Stats.Directories, r.Stats.Skipped))
	if len(r.PartialDirs) > 0 {
		lines = append(lines, fmt.Appendf(nil, "%d directories were only partially scanned\n", len(r.PartialDirs)))
	}
	return lines
}

// fdupesLines prints one path per line with a blank line between groups.
func (r *Report) fdupesLines() [][]byte {
	var lines [][]byte
	for i, group := range r.Groups {
		if i > 0 {
			lines = append(lines, []byte("\n"))
		}
		for _, file := range group.Files {
			lines = append(lines, []byte(file+"\n"))
		}
	}
	return lines
}
