// Package noteset holds the pure, store-independent operations over a
// collection of notes: tag aggregation and note filtering.
package noteset

import (
	"sort"
	"strings"

	"github.com/notesvault/notesvault/internal/models"
)

// TagCount is one row of a tag aggregation.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Predicate reports whether a note belongs to a filtered result.
type Predicate func(models.Note) bool

// AggregateTags counts, for every distinct tag, the number of notes that carry
// it. A tag repeated on one note counts once. The result is ordered by count
// descending, then by tag ascending.
func AggregateTags(notes []models.Note) []TagCount {
	counts := make(map[string]int)
	for _, n := range notes {
		seen := make(map[string]struct{}, len(n.Tags))
		for _, tag := range n.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, c := range counts {
		out = append(out, TagCount{Tag: tag, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// FilterNotes returns a new slice with the notes that satisfy pred, keeping
// their relative order. The input is not modified.
func FilterNotes(notes []models.Note, pred Predicate) []models.Note {
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// All matches every note.
func All() Predicate {
	return func(models.Note) bool { return true }
}

// ByTag matches notes carrying tag exactly (case-sensitive).
func ByTag(tag string) Predicate {
	return func(n models.Note) bool {
		for _, t := range n.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}
}

// Matching matches notes whose title or content contains q, ignoring case.
func Matching(q string) Predicate {
	q = strings.ToLower(q)
	return func(n models.Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q)
	}
}

// And matches notes satisfying every predicate.
func And(preds ...Predicate) Predicate {
	return func(n models.Note) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// Filter is the query of a note listing. Empty fields do not filter.
type Filter struct {
	Tag    string
	Search string
}

// Predicate builds the combined predicate for f.
func (f Filter) Predicate() Predicate {
	var preds []Predicate
	if f.Tag != "" {
		preds = append(preds, ByTag(f.Tag))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		preds = append(preds, Matching(q))
	}
	if len(preds) == 0 {
		return All()
	}
	return And(preds...)
}

// NormalizeTags trims every tag and drops the empty ones. A nil input yields
// an empty, non-nil slice.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
