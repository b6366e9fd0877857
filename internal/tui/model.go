package tui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/cj3636/gitt/internal/config"
	"github.com/cj3636/gitt/internal/git"
	"github.com/cj3636/gitt/internal/graph"
	"github.com/cj3636/gitt/internal/logging"
)

// Options configures a Model.
type Options struct {
	Config    *config.Config
	Logger    *log.Logger
	Repo      RepoContext
	Log       git.LogOptions
	Clipboard io.Writer // OSC52 target, stdout when nil
}

// Model represents the application state
type Model struct {
	ctx       context.Context
	source    git.RevisionSource
	config    *config.Config
	logger    *log.Logger
	repo      RepoContext
	logOpts   git.LogOptions
	clipboard io.Writer

	builder *graph.Builder
	list    ListModel
	diff    DiffModel
	focus   FocusController
	keys    KeyMap
	help    help.Model
	styles  *Styles

	width    int
	height   int
	showHelp bool
	flash    string

	// History walk. commits is only touched by the one outstanding fetch.
	commits       git.CommitStream
	fetching      bool
	exhausted     bool
	loadErr       error
	pendingBottom bool

	// Diff loading. diffGen identifies the newest request; results from any
	// other generation, or for a commit that is no longer selected, are dropped.
	diffGen       uint64
	diffCancel    context.CancelFunc
	diffStream    git.LineStream // idle stream of the current generation
	diffPulling   bool
	diffDone      bool
	diffID        string // commit whose diff is in the buffer
	diffWant      string // commit whose diff was requested last
	diffErr       error
	diffToBottom  bool
	restoreOffset int
	scrollCache   map[string]int

	layoutTiming *logging.Timing
	renderTiming *logging.Timing
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, source git.RevisionSource, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(cfg.Theme.FocusFg)
	h.Styles.FullKey = h.Styles.FullKey.Foreground(cfg.Theme.FocusFg)
	h.Styles.ShortDesc = h.Styles.ShortDesc.Foreground(cfg.Theme.HelpFg)
	h.Styles.FullDesc = h.Styles.FullDesc.Foreground(cfg.Theme.HelpFg)
	h.Styles.ShortSeparator = h.Styles.ShortSeparator.Foreground(cfg.Theme.HelpFg)
	h.Styles.FullSeparator = h.Styles.FullSeparator.Foreground(cfg.Theme.HelpFg)

	return Model{
		ctx:           ctx,
		source:        source,
		config:        cfg,
		logger:        logger,
		repo:          opts.Repo,
		logOpts:       opts.Log,
		clipboard:     opts.Clipboard,
		builder:       graph.New(),
		list:          NewListModel(0),
		diff:          NewDiffModel(0),
		keys:          NewKeyMap(cfg.Keybindings),
		help:          h,
		styles:        createStyles(cfg.Theme),
		restoreOffset: -1,
		scrollCache:   make(map[string]int),
		layoutTiming:  logging.NewTiming("layout"),
		renderTiming:  logging.NewTiming("render"),
	}
}

// Init opens the history walk and reads the first batch.
func (m Model) Init() tea.Cmd {
	return openLog(m.ctx, m.source, m.logOpts, m.config.BatchSize)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, tea.Batch(m.maybeFetch(), m.maybePullDiff())

	case commitsMsg:
		return m.handleCommits(msg)

	case diffMsg:
		return m.handleDiff(msg)

	case flashMsg:
		m.flash = msg.text
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, m.maybePullDiff()
	case key.Matches(msg, m.keys.SwitchFocus):
		m.focus.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.CopyID):
		id := m.list.SelectedID()
		if id == "" {
			return m, nil
		}
		return m, copyID(id, m.clipboard)
	}

	if m.focus.Is(PaneDiff) {
		return m, m.handleDiffKey(msg)
	}
	return m, m.handleListKey(msg)
}

// handleListKey applies a motion to the commit list. Only this path and
// arriving commit batches can change the selection.
func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	page := m.list.view.page()
	half := m.list.view.halfPage()
	bottom := false

	switch {
	case key.Matches(msg, m.keys.Down):
		m.list.MoveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.list.MoveSelection(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.list.MoveSelection(page)
	case key.Matches(msg, m.keys.PageUp):
		m.list.MoveSelection(-page)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.list.MoveSelection(half)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.list.MoveSelection(-half)
	case key.Matches(msg, m.keys.Top):
		m.list.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.list.ScrollToBottom()
		bottom = true
	default:
		return nil
	}

	// G on a partially loaded history keeps following the end until the walk
	// is exhausted; any other motion stops that.
	m.pendingBottom = bottom && !m.exhausted
	return tea.Batch(m.syncDiff(), m.maybeFetch())
}

func (m *Model) handleDiffKey(msg tea.KeyMsg) tea.Cmd {
	page := m.diff.view.page()
	half := m.diff.view.halfPage()
	bottom := false

	switch {
	case key.Matches(msg, m.keys.Down):
		m.diff.Scroll(1)
	case key.Matches(msg, m.keys.Up):
		m.diff.Scroll(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.diff.Scroll(page)
	case key.Matches(msg, m.keys.PageUp):
		m.diff.Scroll(-page)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.diff.Scroll(half)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.diff.Scroll(-half)
	case key.Matches(msg, m.keys.Top):
		m.diff.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.diff.ScrollToBottom()
		bottom = true
	default:
		return nil
	}

	m.diffToBottom = bottom && !m.diffDone
	m.restoreOffset = -1
	return m.maybePullDiff()
}

func (m Model) handleCommits(msg commitsMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	m.fetching = false
	if msg.stream != nil {
		m.commits = msg.stream
	}

	if len(msg.commits) > 0 {
		start := time.Now()
		rows := m.builder.Append(msg.commits)
		m.layoutTiming.RecordMax(start, m.builder.Rows()-1)
		m.list.Append(rows)
		m.logger.Debug("commits loaded", "batch", len(rows), "total", m.list.Len(), "lanes", m.builder.Lanes())
	}

	switch {
	case msg.err == nil:
	case errors.Is(msg.err, io.EOF):
		m.exhausted = true
		cmds = append(cmds, closeStream(m.commits))
		m.commits = nil
	default:
		m.exhausted = true
		m.loadErr = msg.err
		m.logger.Error("history load failed", "err", msg.err)
		cmds = append(cmds, closeStream(m.commits))
		m.commits = nil
		m.layout()
	}

	if m.pendingBottom {
		m.list.ScrollToBottom()
		if m.exhausted {
			m.pendingBottom = false
		}
	}

	cmds = append(cmds, m.syncDiff(), m.maybeFetch())
	return m, tea.Batch(cmds...)
}

func (m Model) handleDiff(msg diffMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.diffGen || msg.id != m.list.SelectedID() {
		m.logger.Debug("dropping superseded diff", "commit", msg.id, "gen", msg.gen, "current", m.diffGen)
		return m, closeStream(msg.stream)
	}
	m.diffPulling = false

	if msg.first {
		if m.diffID != "" {
			m.scrollCache[m.diffID] = m.diff.Offset()
		}
		m.diff.Load(msg.lines)
		m.diffID = msg.id
		m.diffErr = nil
		m.restoreOffset = -1
		if off := m.scrollCache[msg.id]; off > 0 {
			m.restoreOffset = off
		}
		m.layout()
	} else {
		m.diff.Append(msg.lines)
	}

	done := msg.err != nil
	if msg.err != nil && !errors.Is(msg.err, io.EOF) {
		m.diffErr = msg.err
		m.logger.Error("diff load failed", "commit", msg.id, "err", msg.err)
		m.layout()
	}

	if m.restoreOffset >= 0 {
		m.diff.SetOffset(m.restoreOffset)
		if m.diff.Offset() == m.restoreOffset || done {
			m.restoreOffset = -1
		}
	}
	if m.diffToBottom {
		m.diff.ScrollToBottom()
		m.diffToBottom = !done
	}

	if done {
		m.diffDone = true
		m.diffStream = nil
		return m, closeStream(msg.stream)
	}
	m.diffStream = msg.stream
	return m, m.maybePullDiff()
}

// syncDiff requests the diff of the selected commit unless it was already
// requested. The previous request is cancelled and its stream released; its
// content stays on screen until the new diff arrives.
func (m *Model) syncDiff() tea.Cmd {
	id := m.list.SelectedID()
	if id == "" || id == m.diffWant {
		return nil
	}

	var cmds []tea.Cmd
	if m.diffCancel != nil {
		m.diffCancel()
	}
	if m.diffStream != nil {
		cmds = append(cmds, closeStream(m.diffStream))
		m.diffStream = nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.diffGen++
	m.diffCancel = cancel
	m.diffWant = id
	m.diffPulling = true
	m.diffDone = false
	m.diffToBottom = false
	m.restoreOffset = -1

	cmds = append(cmds, openDiff(ctx, m.source, id, m.logOpts.Paths, m.diffGen, m.config.DiffBatchSize))
	return tea.Batch(cmds...)
}

// maybeFetch asks for the next batch of history when the list is within a
// page of the loaded end and nothing is in flight.
func (m *Model) maybeFetch() tea.Cmd {
	if m.commits == nil || m.fetching || m.exhausted {
		return nil
	}
	if !m.pendingBottom && !m.list.NearEnd(m.list.Height()) {
		return nil
	}
	m.fetching = true
	return fetchCommits(m.commits, m.config.BatchSize)
}

// maybePullDiff reads further diff lines when the window nears the loaded end
// or a pending jump still needs them.
func (m *Model) maybePullDiff() tea.Cmd {
	if m.diffStream == nil || m.diffPulling || m.diffDone {
		return nil
	}
	if !m.diffToBottom && m.restoreOffset < 0 && !m.diff.NearEnd(m.diff.Height()) {
		return nil
	}
	stream := m.diffStream
	m.diffStream = nil
	m.diffPulling = true
	return pullDiff(stream, m.diffID, m.diffGen, m.config.DiffBatchSize)
}

// layout splits the screen between the panes and resizes their viewports.
func (m *Model) layout() {
	listHeight, diffHeight := m.paneHeights()
	if m.loadErr != nil {
		listHeight--
	}
	if m.diffErr != nil {
		diffHeight--
	}
	m.list.SetViewportHeight(listHeight)
	m.diff.SetViewportHeight(diffHeight)
}

// paneHeights returns the rows available to the list and diff panes, not
// counting the title bar, the separator, the help panel and the status bar.
func (m Model) paneHeights() (list, diff int) {
	avail := m.height - 3
	if m.showHelp {
		avail -= m.helpHeight()
	}
	if avail <= 0 {
		return 0, 0
	}
	list = int(float64(avail) * m.config.ListRatio)
	list = min(max(list, 1), avail)
	return list, avail - list
}

// shutdown cancels in-flight work and logs the slow-path summary.
func (m *Model) shutdown() {
	if m.diffCancel != nil {
		m.diffCancel()
	}
	m.layoutTiming.Report(m.logger)
	m.renderTiming.Report(m.logger)
}

// Close releases the streams the model holds while idle. Streams owned by
// in-flight commands are stopped through the context passed to NewModel.
func (m Model) Close() error {
	var errs []error
	if m.commits != nil && !m.fetching {
		errs = append(errs, m.commits.Close())
	}
	if m.diffStream != nil {
		errs = append(errs, m.diffStream.Close())
	}
	return errors.Join(errs...)
}
