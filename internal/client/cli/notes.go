package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/notesvault/notesvault/internal/client/api"
	"github.com/notesvault/notesvault/internal/common"
	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/netx"
	"github.com/notesvault/notesvault/internal/noteset"
)

var getMultiline = GetMultiline

// List prints the caller's notes, only those carrying tag when it is set.
func (a *App) List(ctx context.Context, tag string) error {
	notes, err := a.allNotes(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	if tag != "" {
		notes = noteset.FilterNotes(notes, noteset.ByTag(tag))
	}
	a.printNotes(notes)
	return nil
}

// Search prints notes whose title or content contains term.
func (a *App) Search(ctx context.Context, term string) error {
	if term == "" {
		a.printf("Usage: search <term>\n")
		return common.ErrorBadRequest
	}
	notes, err := a.allNotes(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	a.printNotes(noteset.FilterNotes(notes, noteset.Matching(term)))
	return nil
}

// Tags prints the tag cloud of the caller's notes.
func (a *App) Tags(ctx context.Context) error {
	notes, err := a.allNotes(ctx)
	if err != nil {
		return a.check(ctx, err)
	}
	a.printTags(noteset.AggregateTags(notes))
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		a.printf("Usage: show <id>\n")
		return common.ErrorBadRequest
	}
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return a.check(ctx, err)
	}
	printNote(a.out, n)
	return nil
}

// Add prompts for a new note and creates it.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}

	n, err := a.api.CreateNote(ctx, models.NoteInput{Title: title, Content: content, Tags: tags})
	if err != nil {
		return a.check(ctx, err)
	}
	a.printf("Created %s.\n", n.ID)
	return nil
}

// Edit prompts for new values of an existing note. Empty answers keep the
// current value; a single "-" clears the tags.
func (a *App) Edit(ctx context.Context, id string) error {
	if id == "" {
		a.printf("Usage: edit <id>\n")
		return common.ErrorBadRequest
	}
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return a.check(ctx, err)
	}

	var patch models.NotePatch

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", n.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" && title != n.Title {
		patch.Title = &title
	}

	content, err := getMultiline(a.reader, "Content (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	if content != "" && content != n.Content {
		patch.Content = &content
	}

	line, err := getSimpleText(a.reader, fmt.Sprintf("Tags [%s] (- clears)", strings.Join(n.Tags, ",")), a.out)
	if err != nil {
		return err
	}
	switch line {
	case "":
	case "-":
		if len(n.Tags) > 0 {
			empty := []string{}
			patch.Tags = &empty
		}
	default:
		if tags := splitTags(line); !slices.Equal(tags, n.Tags) {
			patch.Tags = &tags
		}
	}

	if patch.Empty() {
		a.printf("Nothing to change.\n")
		return nil
	}

	if _, err := a.api.PatchNote(ctx, id, patch); err != nil {
		return a.check(ctx, err)
	}
	a.printf("Updated %s.\n", id)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if id == "" {
		a.printf("Usage: delete <id>\n")
		return common.ErrorBadRequest
	}
	if err := a.api.DeleteNote(ctx, id); err != nil {
		return a.check(ctx, err)
	}
	a.printf("Deleted %s.\n", id)
	return nil
}

// Export asks the server for an export link. With a file name the export
// is downloaded there, otherwise the link is printed.
func (a *App) Export(ctx context.Context, file string) error {
	link, err := a.api.Export(ctx)
	if err != nil {
		if exportDisabled(err) {
			a.printf("Export is not enabled on this server.\n")
			return err
		}
		return a.check(ctx, err)
	}

	if file == "" {
		a.printf("%s\n(valid until %s)\n", link.URL, formatTime(link.ExpiresAt))
		return nil
	}

	body, err := netx.Download(ctx, a.api.HTTPClient(), link.URL)
	if err != nil {
		return a.check(ctx, err)
	}
	if err := os.WriteFile(file, body, 0o600); err != nil {
		return a.check(ctx, err)
	}
	a.printf("Exported to %s.\n", file)
	return nil
}

// exportDisabled recognises a server without the export route: POST on
// /api/notes/export then lands on the note-by-id routes.
func exportDisabled(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusMethodNotAllowed
}
