package model

// ItemKey is the canonical numeric video identifier extracted from a URL.
// Multiple RowRefs may share one key; fetch and transcribe work per key.
type ItemKey string

// WorkItem is one deduplicated unit of fetch/transcribe work. URL is the
// canonical URL of the key's first occurrence in the worklist.
type WorkItem struct {
	Key ItemKey
	URL string
}
