package domain

// DefaultMaxResults is used when a scan request carries no positive budget.
const DefaultMaxResults = 200

// ScanRequest selects which missing derivatives to list.
type ScanRequest struct {
	// Types restricts the scan to these identifiers. Empty means all known.
	Types      []string
	ImageIDs   []int64
	Filters    RangeFilters
	MaxResults int
	// Cursor resumes a previous scan; zero starts a fresh one.
	Cursor int64
}

// ScanResult lists derivative URLs that are not yet on disk.
type ScanResult struct {
	URLs       []string
	NextCursor int64
}

// HasMore reports whether another page can be requested with NextCursor.
func (r ScanResult) HasMore() bool {
	return r.NextCursor != 0
}
