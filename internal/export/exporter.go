package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cj3636/gitt/internal/config"
	"github.com/cj3636/gitt/internal/git"
	"github.com/cj3636/gitt/internal/graph"
	"github.com/muesli/termenv"
)

// Format represents the desired export format.
type Format string

const (
	// FormatText emits plain text.
	FormatText Format = "text"
	// FormatANSI emits text colored per lane.
	FormatANSI Format = "ansi"
	// FormatMarkdown wraps the plain text in a fenced code block.
	FormatMarkdown Format = "markdown"
)

// ParseFormat normalizes a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", string(FormatText), "plain":
		return FormatText, nil
	case string(FormatANSI), "color":
		return FormatANSI, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Options control how the history is printed.
type Options struct {
	Format Format
	// Title is printed before the rows when provided.
	Title      string
	DateFormat string
	Theme      config.Theme
}

// Printer streams laid-out rows to a writer, one line per commit.
type Printer struct {
	w        io.Writer
	opts     Options
	renderer *lipgloss.Renderer
	started  bool
	rows     int
}

// NewPrinter returns a printer for w.
func NewPrinter(w io.Writer, opts Options) (*Printer, error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.DateFormat == "" {
		opts.DateFormat = "2006-01-02"
	}
	p := &Printer{w: w, opts: opts}
	if opts.Format == FormatANSI {
		// Colors are wanted even when w is not a terminal.
		p.renderer = lipgloss.NewRenderer(w)
		p.renderer.SetColorProfile(termenv.TrueColor)
	}
	return p, nil
}

// Rows returns how many rows were written.
func (p *Printer) Rows() int { return p.rows }

// WriteRows prints a batch of rows.
func (p *Printer) WriteRows(rows []graph.Row) error {
	if err := p.start(); err != nil {
		return err
	}
	var b strings.Builder
	for _, r := range rows {
		if p.opts.Format == FormatANSI {
			b.WriteString(p.renderANSI(r))
		} else {
			b.WriteString(p.renderText(r))
		}
		b.WriteByte('\n')
	}
	p.rows += len(rows)
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Close writes any trailer the format needs.
func (p *Printer) Close() error {
	if err := p.start(); err != nil {
		return err
	}
	if p.opts.Format == FormatMarkdown {
		_, err := io.WriteString(p.w, "```\n")
		return err
	}
	return nil
}

func (p *Printer) start() error {
	if p.started {
		return nil
	}
	p.started = true

	var b strings.Builder
	if p.opts.Title != "" {
		if p.opts.Format == FormatMarkdown {
			b.WriteString("# ")
		}
		b.WriteString(Sanitize(p.opts.Title, 1))
		b.WriteString("\n\n")
	}
	if p.opts.Format == FormatMarkdown {
		b.WriteString("```text\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func rowWidth(r graph.Row) int {
	return max(r.Width, r.Lane+1)
}

func (p *Printer) renderText(r graph.Row) string {
	c := r.Commit
	var b strings.Builder
	b.WriteString(strings.TrimRight(graph.Text(r, rowWidth(r)), " "))
	b.WriteString(" ")
	b.WriteString(c.ShortID())
	if refs := refNames(c.Refs); refs != "" {
		fmt.Fprintf(&b, " (%s)", refs)
	}
	fmt.Fprintf(&b, " %s", Sanitize(c.Subject, 1))
	if trailer := p.trailer(c); trailer != "" {
		b.WriteString(" - " + trailer)
	}
	return b.String()
}

func (p *Printer) renderANSI(r graph.Row) string {
	theme := p.opts.Theme
	style := func(fg lipgloss.Color) lipgloss.Style {
		return p.renderer.NewStyle().Foreground(fg)
	}

	var b strings.Builder
	cells := graph.Cells(r, rowWidth(r))
	// Drop the trailing blank connector cell like the plain renderer does.
	for len(cells) > 0 && cells[len(cells)-1].Text == " " {
		cells = cells[:len(cells)-1]
	}
	for _, cell := range cells {
		b.WriteString(style(theme.LaneColor(cell.Lane)).Render(cell.Text))
	}

	c := r.Commit
	b.WriteString(" ")
	b.WriteString(style(theme.HashFg).Render(c.ShortID()))
	if refs := refNames(c.Refs); refs != "" {
		b.WriteString(" ")
		b.WriteString(style(theme.BranchFg).Bold(true).Render("(" + refs + ")"))
	}
	b.WriteString(" ")
	b.WriteString(style(theme.UnchangedFg).Render(Sanitize(c.Subject, 1)))
	if trailer := p.trailer(c); trailer != "" {
		b.WriteString(" ")
		b.WriteString(style(theme.DateFg).Render("- " + trailer))
	}
	return b.String()
}

func (p *Printer) trailer(c git.Commit) string {
	var parts []string
	if c.Author.Name != "" {
		parts = append(parts, Sanitize(c.Author.Name, 1))
	}
	if !c.Author.When.IsZero() {
		parts = append(parts, c.Author.When.Local().Format(p.opts.DateFormat))
	}
	return strings.Join(parts, ", ")
}

func refNames(refs []git.Ref) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Kind == git.RefTag {
			names = append(names, "tag: "+ref.Name)
			continue
		}
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
