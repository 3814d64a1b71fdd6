package worklist

import (
	"regexp"
	"strings"

	"github.com/kurswerk/transkriptor/internal/model"
)

// Worksheet columns, 0-based. The worklist layout is fixed: five metadata
// columns, two unused columns, then the short and long video link slots.
const (
	colOrder = iota
	colModule
	colArea
	colCategory
	colExercise
	_ // exercise type, unused
	_ // KPI, unused
	colShortLink
	colLongLink
)

// hostMarker gates which cells count as video links at all; matching is a
// case-insensitive substring check.
const hostMarker = "vimeo"

var keyPattern = regexp.MustCompile(`vimeo\.com/(\d+)`)

// Parse turns raw worksheet rows into RowRefs, one per non-empty link slot
// whose text contains the host marker. firstRow is the worksheet ordinal of
// rows[0] (typically 2, after one header row). Pure: no side effects,
// deterministic for a given input.
func Parse(rows [][]string, firstRow int) []model.RowRef {
	var refs []model.RowRef
	for i, cells := range rows {
		base := model.RowRef{
			Row:      firstRow + i,
			Order:    cell(cells, colOrder),
			Module:   cell(cells, colModule),
			Area:     cell(cells, colArea),
			Category: cell(cells, colCategory),
			Exercise: cell(cells, colExercise),
		}

		if ref, ok := parseSlot(base, model.LinkShort, cell(cells, colShortLink)); ok {
			refs = append(refs, ref)
		}
		if ref, ok := parseSlot(base, model.LinkLong, cell(cells, colLongLink)); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// parseSlot builds the RowRef for one link slot. A cell containing the host
// marker but no numeric id still yields a RowRef with an empty key, so it
// surfaces in the report as unprocessable instead of silently vanishing.
func parseSlot(base model.RowRef, kind model.LinkKind, raw string) (model.RowRef, bool) {
	if raw == "" || !strings.Contains(strings.ToLower(raw), hostMarker) {
		return model.RowRef{}, false
	}
	ref := base
	ref.Kind = kind
	ref.RawURL = strings.TrimSpace(raw)
	ref.CleanURL = CleanURL(raw)
	ref.Key = ExtractKey(ref.CleanURL)
	return ref, true
}

// CleanURL strips the query string and surrounding whitespace. Share links
// carry a ?share=copy suffix that changes nothing about the video.
func CleanURL(raw string) string {
	url, _, _ := strings.Cut(raw, "?")
	return strings.TrimSpace(url)
}

// ExtractKey pulls the numeric video id out of a URL. Returns the empty key
// when the URL does not match the expected pattern.
func ExtractKey(url string) model.ItemKey {
	m := keyPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return model.ItemKey(m[1])
}

// Items deduplicates the refs into work items, keyed by video id, in order
// of first appearance. Each item carries the canonical URL of its first
// occurrence. Refs without a key are excluded; they never enter a phase.
func Items(refs []model.RowRef) []model.WorkItem {
	seen := make(map[model.ItemKey]struct{}, len(refs))
	var items []model.WorkItem
	for _, ref := range refs {
		if !ref.HasKey() {
			continue
		}
		if _, dup := seen[ref.Key]; dup {
			continue
		}
		seen[ref.Key] = struct{}{}
		items = append(items, model.WorkItem{Key: ref.Key, URL: ref.CleanURL})
	}
	return items
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
