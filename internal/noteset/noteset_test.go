package noteset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/notesvault/notesvault/internal/models"
)

func note(id string, title, content string, tags ...string) models.Note {
	return models.Note{ID: id, UserID: "u1", Title: title, Content: content, Tags: tags}
}

func ids(notes []models.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestAggregateTags(t *testing.T) {
	tests := []struct {
		name  string
		notes []models.Note
		want  []TagCount
	}{
		{
			name:  "empty collection",
			notes: nil,
			want:  []TagCount{},
		},
		{
			name: "counts notes per tag",
			notes: []models.Note{
				note("1", "a", "a", "work", "urgent"),
				note("2", "b", "b", "work"),
				note("3", "c", "c"),
			},
			want: []TagCount{{Tag: "work", Count: 2}, {Tag: "urgent", Count: 1}},
		},
		{
			name: "duplicate tag on one note counts once",
			notes: []models.Note{
				note("1", "a", "a", "x", "x", "x"),
			},
			want: []TagCount{{Tag: "x", Count: 1}},
		},
		{
			name: "ties sorted by tag",
			notes: []models.Note{
				note("1", "a", "a", "beta", "alpha"),
				note("2", "b", "b", "gamma"),
			},
			want: []TagCount{{Tag: "alpha", Count: 1}, {Tag: "beta", Count: 1}, {Tag: "gamma", Count: 1}},
		},
		{
			name: "case matters",
			notes: []models.Note{
				note("1", "a", "a", "Go"),
				note("2", "b", "b", "go"),
			},
			want: []TagCount{{Tag: "Go", Count: 1}, {Tag: "go", Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateTags(tt.notes)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("AggregateTags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregateTags_CountNeverExceedsNotes(t *testing.T) {
	notes := []models.Note{
		note("1", "a", "a", "x", "y", "x"),
		note("2", "b", "b", "x"),
	}
	for _, tc := range AggregateTags(notes) {
		assert.LessOrEqual(t, tc.Count, len(notes))
		assert.Positive(t, tc.Count)
	}
}

func TestFilterNotes(t *testing.T) {
	notes := []models.Note{
		note("1", "Shopping", "milk, eggs", "home"),
		note("2", "Standup", "Discuss MILK budget", "work"),
		note("3", "Ideas", "nothing here", "work", "home"),
	}

	tests := []struct {
		name string
		pred Predicate
		want []string
	}{
		{name: "all", pred: All(), want: []string{"1", "2", "3"}},
		{name: "by tag", pred: ByTag("work"), want: []string{"2", "3"}},
		{name: "by tag is case sensitive", pred: ByTag("Work"), want: []string{}},
		{name: "search content ignoring case", pred: Matching("milk"), want: []string{"1", "2"}},
		{name: "search title", pred: Matching("IDEA"), want: []string{"3"}},
		{name: "combined", pred: And(ByTag("home"), Matching("milk")), want: []string{"1"}},
		{name: "no match", pred: ByTag("missing"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterNotes(notes, tt.pred)))
		})
	}
}

func TestFilterNotes_DoesNotModifyInput(t *testing.T) {
	notes := []models.Note{note("1", "a", "a", "x"), note("2", "b", "b")}
	before := append([]models.Note(nil), notes...)

	got := FilterNotes(notes, ByTag("x"))
	got[0].Title = "changed"

	assert.Equal(t, before, notes)
}

func TestFilter_Predicate(t *testing.T) {
	notes := []models.Note{
		note("1", "Go tips", "generics", "go"),
		note("2", "Rust tips", "lifetimes", "rust"),
	}

	assert.Equal(t, []string{"1", "2"}, ids(FilterNotes(notes, Filter{}.Predicate())))
	assert.Equal(t, []string{"1", "2"}, ids(FilterNotes(notes, Filter{Search: "   "}.Predicate())))
	assert.Equal(t, []string{"2"}, ids(FilterNotes(notes, Filter{Tag: "rust"}.Predicate())))
	assert.Equal(t, []string{"1"}, ids(FilterNotes(notes, Filter{Search: "tips", Tag: "go"}.Predicate())))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{}, NormalizeTags(nil))
	assert.Equal(t, []string{"a", "b c"}, NormalizeTags([]string{" a ", "", "   ", "b c"}))
}
