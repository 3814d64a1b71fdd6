package model

// LinkKind distinguishes the two video link slots of a worklist row.
type LinkKind string

const (
	LinkShort LinkKind = "short"
	LinkLong  LinkKind = "long"
)

// RowRef is one video link occurrence from the worklist. A row with both
// link slots filled yields two RowRefs sharing the row metadata. Immutable
// once parsed.
type RowRef struct {
	Row      int    // 1-based worksheet row ordinal
	Order    string // pass-through metadata columns
	Module   string
	Area     string
	Category string
	Exercise string

	Kind     LinkKind
	RawURL   string  // cell text as found, trimmed
	CleanURL string  // query string stripped
	Key      ItemKey // empty when the URL carries no numeric video id
}

// HasKey reports whether a numeric video id could be extracted from the URL.
func (r RowRef) HasKey() bool {
	return r.Key != ""
}
