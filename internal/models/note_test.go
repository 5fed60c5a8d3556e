package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotePatch_Empty(t *testing.T) {
	title := "t"
	assert.True(t, NotePatch{}.Empty())
	assert.False(t, NotePatch{Title: &title}.Empty())
	assert.False(t, NotePatch{Tags: &[]string{}}.Empty())
}

func TestNotePatch_ApplyOnlyPresentFields(t *testing.T) {
	orig := Note{ID: "n1", UserID: "u1", Title: "A", Content: "B", Tags: []string{"x"}}

	content := "C"
	got := NotePatch{Content: &content}.Apply(orig)
	assert.Equal(t, Note{ID: "n1", UserID: "u1", Title: "A", Content: "C", Tags: []string{"x"}}, got)

	tags := []string{"y", "z"}
	got = NotePatch{Tags: &tags}.Apply(orig)
	assert.Equal(t, []string{"y", "z"}, got.Tags)
	assert.Equal(t, "A", got.Title)

	tags[0] = "mutated"
	assert.Equal(t, "y", got.Tags[0], "apply must copy the tag slice")
}
