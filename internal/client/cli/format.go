package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/notesvault/notesvault/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func printNoteTable(w io.Writer, notes []models.Note) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tUPDATED")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Title, strings.Join(n.Tags, ","), n.UpdatedAt.Local().Format(timeLayout))
	}
	_ = tw.Flush()
}

func printNote(w io.Writer, n *models.Note) {
	fmt.Fprintf(w, "ID:      %s\n", n.ID)
	fmt.Fprintf(w, "Title:   %s\n", n.Title)
	fmt.Fprintf(w, "Tags:    %s\n", strings.Join(n.Tags, ", "))
	fmt.Fprintf(w, "Created: %s\n", formatTime(n.CreatedAt))
	fmt.Fprintf(w, "Updated: %s\n", formatTime(n.UpdatedAt))
	fmt.Fprintf(w, "\n%s\n", n.Content)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
