// Package terminal renders the article list and its empty-state messages to
// a text stream.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samvad-hq/samvad-news-feed/internal/domain"
)

var messages = map[domain.FailureReason]string{
	domain.ReasonNoInternet:      "No internet connection.",
	domain.ReasonBadResponseCode: "The news service returned a bad response code.",
	domain.ReasonNoNewsFound:     "No news found.",
}

// MessageText returns the user-facing text for reason; empty for ReasonNone.
func MessageText(reason domain.FailureReason) string {
	if reason == domain.ReasonNone {
		return ""
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return string(reason)
}

// View writes presenter output to out. It keeps the last rendered state so
// callers can inspect what the user saw.
type View struct {
	out       io.Writer
	useColors bool

	loading  bool
	articles []domain.Article
	reason   domain.FailureReason
}

// New returns a view writing to out, or stdout when out is nil.
func New(out io.Writer, useColors bool) *View {
	if out == nil {
		out = os.Stdout
	}
	return &View{out: out, useColors: useColors}
}

// SetLoading toggles the progress indicator.
func (v *View) SetLoading(visible bool) {
	if visible && !v.loading {
		v.printf(color.New(color.FgCyan), "Loading news...\n")
	}
	v.loading = visible
}

// SetArticles replaces the list and renders it as a table.
func (v *View) SetArticles(articles []domain.Article) {
	v.articles = articles
	if len(articles) == 0 {
		return
	}

	table := tablewriter.NewTable(v.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(articles))
	for i, a := range articles {
		rows = append(rows, []string{strconv.Itoa(i), a.Title, a.DetailURL})
	}
	table.Header([]string{"#", "Title", "Link"})
	_ = table.Bulk(rows)
	_ = table.Render()
}

// ShowMessage prints the empty-state message for reason.
func (v *View) ShowMessage(reason domain.FailureReason) {
	v.reason = reason
	if reason == domain.ReasonNone {
		return
	}
	v.printf(color.New(color.FgYellow), "%s\n", MessageText(reason))
}

// Loading reports whether the progress indicator is visible.
func (v *View) Loading() bool { return v.loading }

// Articles returns the list currently shown.
func (v *View) Articles() []domain.Article { return v.articles }

// Message returns the reason currently shown, ReasonNone if hidden.
func (v *View) Message() domain.FailureReason { return v.reason }

func (v *View) printf(c *color.Color, format string, args ...any) {
	if v.useColors {
		c.Fprintf(v.out, format, args...)
		return
	}
	fmt.Fprintf(v.out, format, args...)
}
