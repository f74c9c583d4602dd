package models

// FetchResult holds the outcome of a successful website fetch. Failures are
// reported through fetch.Error, never through this type.
type FetchResult struct {
	URL        string
	StatusCode int
	RawHTML    string
	// Excerpt is the visible-text extraction, hard-truncated to the
	// configured character budget.
	Excerpt string
}
