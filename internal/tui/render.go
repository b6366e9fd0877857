package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/cj3636/gitt/internal/config"
	"github.com/cj3636/gitt/internal/export"
	"github.com/cj3636/gitt/internal/git"
	"github.com/cj3636/gitt/internal/graph"
)

// Styles holds all the lipgloss styles
type Styles struct {
	theme       config.Theme
	added       lipgloss.Style
	removed     lipgloss.Style
	hunk        lipgloss.Style
	meta        lipgloss.Style
	unchanged   lipgloss.Style
	hash        lipgloss.Style
	author      lipgloss.Style
	date        lipgloss.Style
	branch      lipgloss.Style
	tag         lipgloss.Style
	head        lipgloss.Style
	title       lipgloss.Style
	separator   lipgloss.Style
	focused     lipgloss.Style
	statusBar   lipgloss.Style
	notice      lipgloss.Style
	scrollbar   lipgloss.Style
	scrollThumb lipgloss.Style
}

// createStyles initializes all lipgloss styles based on theme
func createStyles(theme config.Theme) *Styles {
	return &Styles{
		theme:     theme,
		added:     lipgloss.NewStyle().Foreground(theme.AddedFg),
		removed:   lipgloss.NewStyle().Foreground(theme.RemovedFg),
		hunk:      lipgloss.NewStyle().Foreground(theme.HunkFg),
		meta:      lipgloss.NewStyle().Foreground(theme.MetaFg).Bold(true),
		unchanged: lipgloss.NewStyle().Foreground(theme.UnchangedFg),
		hash:      lipgloss.NewStyle().Foreground(theme.HashFg),
		author:    lipgloss.NewStyle().Foreground(theme.AuthorFg),
		date:      lipgloss.NewStyle().Foreground(theme.DateFg),
		branch:    lipgloss.NewStyle().Foreground(theme.BranchFg).Bold(true),
		tag:       lipgloss.NewStyle().Foreground(theme.TagFg).Bold(true),
		head:      lipgloss.NewStyle().Foreground(theme.HeadFg).Bold(true),
		title: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Bold(true).
			Padding(0, 1),
		separator: lipgloss.NewStyle().Foreground(theme.BorderFg),
		focused:   lipgloss.NewStyle().Foreground(theme.FocusFg).Bold(true),
		statusBar: lipgloss.NewStyle().
			Foreground(theme.TitleFg).
			Background(theme.TitleBg).
			Padding(0, 1),
		notice:      lipgloss.NewStyle().Foreground(theme.NoticeFg).Italic(true),
		scrollbar:   lipgloss.NewStyle().Foreground(theme.BorderFg),
		scrollThumb: lipgloss.NewStyle().Foreground(theme.ScrollbarFg),
	}
}

// View renders the UI
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	start := time.Now()
	defer func() { m.renderTiming.RecordMax(start, m.renderTiming.Count) }()

	sections := []string{m.renderTitle()}
	if rows := m.renderList(); rows != "" {
		sections = append(sections, rows)
	}
	sections = append(sections, m.renderSeparator())
	if rows := m.renderDiff(); rows != "" {
		sections = append(sections, rows)
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	sections = append(sections, m.renderStatusBar())

	// Terminals shorter than the chrome get whatever fits from the top.
	lines := strings.Split(strings.Join(sections, "\n"), "\n")
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}

// renderTitle renders the title bar
func (m Model) renderTitle() string {
	return m.styles.title.Width(m.width).MaxHeight(1).Render(fit(m.repo.Title(), m.width-2))
}

// renderList renders the visible commit rows, padded to the pane height.
func (m Model) renderList() string {
	listHeight, _ := m.paneHeights()
	if listHeight <= 0 {
		return ""
	}
	rows, start := m.list.Visible()
	laneWidth := m.list.LaneWidth()
	contentWidth := max(0, m.width-1)
	bar := scrollbar(m.list.Len(), m.list.Offset(), m.list.Height())

	lines := make([]string, 0, listHeight)
	for i, row := range rows {
		line := m.renderCommitRow(row, laneWidth, contentWidth, start+i == m.list.SelectedIndex())
		lines = append(lines, line+m.scrollbarCell(bar, i))
	}
	for len(lines) < m.list.Height() {
		lines = append(lines, strings.Repeat(" ", contentWidth)+m.scrollbarCell(bar, len(lines)))
	}

	switch {
	case m.loadErr != nil:
		lines = append(lines, m.styles.notice.Render(fit("error loading history: "+m.loadErr.Error(), m.width)))
	case m.list.Len() == 0 && m.exhausted && len(lines) > 0:
		lines[0] = m.styles.notice.Render(fit("no commits", m.width))
	case m.list.Len() == 0 && len(lines) > 0:
		lines[0] = m.styles.notice.Render(fit("loading history…", m.width))
	}
	return strings.Join(lines[:min(len(lines), listHeight)], "\n")
}

// renderCommitRow draws one list row: graph gutter, hash, refs and subject,
// then author and date columns when the terminal is wide enough.
func (m Model) renderCommitRow(row graph.Row, laneWidth, width int, selected bool) string {
	style := func(s lipgloss.Style) lipgloss.Style {
		if selected {
			return s.Background(m.styles.theme.SelectedBg)
		}
		return s
	}

	var b strings.Builder
	used := 0
	for _, cell := range graph.Cells(row, laneWidth) {
		if used >= width {
			break
		}
		b.WriteString(style(lipgloss.NewStyle().Foreground(m.styles.theme.LaneColor(cell.Lane))).Render(cell.Text))
		used++
	}

	rest := width - used
	if rest <= 0 {
		return b.String()
	}
	c := row.Commit
	hash := fit(c.ShortID()+" ", rest)
	b.WriteString(style(m.styles.hash).Render(hash))
	rest -= ansi.StringWidth(hash)

	subjectWidth, authorWidth, dateWidth := columnWidths(rest, len(m.config.DateFormat))
	subject := m.renderRefs(c.Refs, style) + style(m.styles.unchanged).Render(export.Sanitize(c.Subject, m.config.TabSize))
	b.WriteString(padTo(fit(subject, subjectWidth), subjectWidth, style(m.styles.unchanged)))
	if authorWidth > 0 {
		b.WriteString(style(m.styles.author).Render(" " + pad(fit(export.Sanitize(c.Author.Name, 1), authorWidth), authorWidth)))
	}
	if dateWidth > 0 {
		b.WriteString(style(m.styles.date).Render(" " + pad(fit(formatDate(c.Author.When, m.config.DateFormat), dateWidth), dateWidth)))
	}
	return b.String()
}

func (m Model) renderRefs(refs []git.Ref, style func(lipgloss.Style) lipgloss.Style) string {
	if len(refs) == 0 {
		return ""
	}
	var parts []string
	for _, ref := range refs {
		switch ref.Kind {
		case git.RefHead:
			parts = append(parts, style(m.styles.head).Render(ref.Name))
		case git.RefTag:
			parts = append(parts, style(m.styles.tag).Render("tag: "+ref.Name))
		default:
			parts = append(parts, style(m.styles.branch).Render(ref.Name))
		}
	}
	sep := style(m.styles.unchanged).Render(", ")
	return style(m.styles.unchanged).Render("(") + strings.Join(parts, sep) + style(m.styles.unchanged).Render(") ")
}

// renderSeparator draws the divider between the panes; it names the focused
// pane and the commit the diff belongs to.
func (m Model) renderSeparator() string {
	label := " diff "
	if m.diffID != "" {
		label = " " + shortID(m.diffID) + " "
	}
	if m.diffWant != "" && m.diffWant != m.diffID {
		label += "loading " + shortID(m.diffWant) + " "
	} else if m.diffPulling {
		label += "loading "
	}
	focus := "[" + m.focus.Focused().String() + "]"

	line := m.styles.separator.Render("──") + m.styles.focused.Render(focus) + m.styles.separator.Render(label)
	fill := m.width - ansi.StringWidth(line)
	if fill > 0 {
		line += m.styles.separator.Render(strings.Repeat("─", fill))
	}
	return ansi.Truncate(line, m.width, "")
}

// renderDiff renders the visible diff lines, padded to the pane height.
func (m Model) renderDiff() string {
	_, diffHeight := m.paneHeights()
	if diffHeight <= 0 {
		return ""
	}
	contentWidth := max(0, m.width-1)
	bar := scrollbar(m.diff.Len(), m.diff.Offset(), m.diff.Height())

	lines := make([]string, 0, diffHeight)
	for i, line := range m.diff.Visible() {
		text := fit(export.Sanitize(line, m.config.TabSize), contentWidth)
		lines = append(lines, pad(m.diffStyle(line).Render(text), contentWidth)+m.scrollbarCell(bar, i))
	}
	for len(lines) < m.diff.Height() {
		lines = append(lines, strings.Repeat(" ", contentWidth)+m.scrollbarCell(bar, len(lines)))
	}
	if m.diffErr != nil {
		lines = append(lines, m.styles.notice.Render(fit("error loading diff: "+m.diffErr.Error(), m.width)))
	}
	if m.diff.Len() == 0 && len(lines) > 0 && m.diffID == "" && m.diffWant != "" {
		lines[0] = m.styles.notice.Render(fit("loading diff…", m.width))
	}
	return strings.Join(lines[:min(len(lines), diffHeight)], "\n")
}

// diffStyle classifies a line of git show output.
func (m Model) diffStyle(line string) lipgloss.Style {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"),
		strings.HasPrefix(line, "diff --git"), strings.HasPrefix(line, "commit "):
		return m.styles.meta
	case strings.HasPrefix(line, "@@"):
		return m.styles.hunk
	case strings.HasPrefix(line, "+"):
		return m.styles.added
	case strings.HasPrefix(line, "-"):
		return m.styles.removed
	}
	return m.styles.unchanged
}

// renderStatusBar renders the status bar
func (m Model) renderStatusBar() string {
	loaded := fmt.Sprintf("%d", m.list.Len())
	if !m.exhausted {
		loaded += "+"
	}
	status := fmt.Sprintf("%d/%s", min(m.list.SelectedIndex()+1, m.list.Len()), loaded)
	if m.diff.Len() > 0 {
		status += fmt.Sprintf(" | diff %d/%d", m.diff.Offset()+1, m.diff.Len())
	}
	if m.flash != "" {
		status += " | " + m.flash
	} else if !m.showHelp {
		status += " | " + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return m.styles.statusBar.Width(m.width).MaxHeight(1).Render(fit(status, m.width-2))
}

func (m Model) scrollbarCell(bar []bool, i int) string {
	if bar == nil {
		return " "
	}
	if i < len(bar) && bar[i] {
		return m.styles.scrollThumb.Render("┃")
	}
	return m.styles.scrollbar.Render("│")
}

// scrollbar maps a window of height lines at offset over total lines onto
// height cells. It returns nil when everything fits.
func scrollbar(total, offset, height int) []bool {
	if height <= 0 || total <= height {
		return nil
	}
	bar := make([]bool, height)
	thumb := max(1, height*height/total)
	top := offset * height / total
	if offset+height >= total {
		top = height - thumb
	}
	for i := top; i < min(top+thumb, height); i++ {
		bar[i] = true
	}
	return bar
}

// columnWidths splits the text area into subject, author and date columns.
// Narrow terminals drop author and date.
func columnWidths(total, dateLen int) (subject, author, date int) {
	if total < 40 {
		return max(0, total), 0, 0
	}
	author = min(max(total*18/100, 8), 24)
	date = min(max(total*9/100, min(10, dateLen)), dateLen)
	subject = total - author - date - 2
	return subject, author, date
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(layout)
}

// fit truncates s, which may contain styling, to width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// pad right-pads s to width cells.
func pad(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padTo(s string, width int, style lipgloss.Style) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + style.Render(strings.Repeat(" ", gap))
	}
	return s
}

func shortID(id string) string {
	return git.Commit{ID: id}.ShortID()
}
