package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/insight"
	"github.com/five82/tideline/internal/prefs"
	"github.com/five82/tideline/internal/state"
	"github.com/five82/tideline/internal/timeline"
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Source     archive.Source
	Store      *state.Store
	Engine     *timeline.Engine
	Summarizer insight.Summarizer
	Logger     *slog.Logger
	LogPath    string
	PollTick   time.Duration
	ThemeName  string
	Zoom       float64
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	source     archive.Source
	store      *state.Store
	engine     *timeline.Engine
	summarizer insight.Summarizer
	logger     *slog.Logger
	logPath    string
	prefsPath  string
	pollTick   time.Duration

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	notice string
	prompt promptState
	modal  Modal

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	byID        map[string]archive.Entry
	query       archive.Query
	matches     map[string]bool
	seenEntries bool
	startZoom   float64

	// Timeline state
	rng       timeline.DateRange
	viewport  timeline.Viewport
	presenter timeline.Presenter
	frame     timeline.Frame
	scene     scene
	anchor    timeline.TooltipAnchor
	hasAnchor bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := opts.Engine
	if engine == nil {
		engine, _ = timeline.NewEngine(timeline.Config{})
	}

	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = prefs.Defaults().Zoom
	}

	rng := engine.Range(nil)
	return Model{
		ctx:        ctx,
		source:     opts.Source,
		store:      opts.Store,
		engine:     engine,
		summarizer: opts.Summarizer,
		logger:     logger,
		logPath:    opts.LogPath,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		byID:       make(map[string]archive.Entry),
		matches:    make(map[string]bool),
		startZoom:  zoom,
		rng:        rng,
		viewport:   timeline.NewViewport(0, zoom, rng),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport.SetClientWidth(float64(m.width) * CellWidthPx)
		m.relayout()
		return m.updateModal(msg)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case summaryMsg:
		if msg.err != nil && !errors.Is(msg.err, insight.ErrNothingToSummarize) {
			m.logger.Warn("summary failed", "error", msg.err)
		}
		if tm, ok := m.modal.(*textModal); ok && tm.title == summaryTitle {
			tm.SetBody(formatSummary(msg, m.engine.Location()))
		}
		return m, nil

	case statsMsg:
		if tm, ok := m.modal.(*textModal); ok && tm.title == statsTitle {
			tm.SetBody(formatStats(msg.stats, m.theme))
		}
		return m, nil

	case problemsMsg:
		if msg.err != nil {
			m.logger.Warn("read problems failed", "path", m.logPath, "error", msg.err)
		}
		if tm, ok := m.modal.(*textModal); ok && tm.title == problemsTitle {
			tm.SetBody(formatProblems(msg, m.logPath, m.theme))
		}
		return m, nil
	}

	return m.updateModal(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderRangeBar())
	b.WriteString("\n")
	b.WriteString(m.scene.Render(m.theme))
	b.WriteString("\n")
	b.WriteString(m.renderTooltip())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.modal == nil {
		return m, nil
	}
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
		return m, cmd
	}
	m.modal = next
	return m, cmd
}

// applySnapshot takes in a refreshed archive. The first non-empty archive
// restores the saved zoom and scrolls to the present.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = snap.LastUpdated
	m.byID = make(map[string]archive.Entry, len(snap.Entries))
	for _, e := range snap.Entries {
		m.byID[e.ID] = e
	}
	if hovered := m.presenter.HoveredNode(); hovered != "" {
		if _, ok := m.byID[hovered]; !ok {
			m.presenter.Leave()
		}
	}
	if selected := m.presenter.Selected(); selected != "" {
		if _, ok := m.byID[selected]; !ok {
			m.presenter.ClearSelection()
		}
	}

	m.relayout()
	if !m.seenEntries && len(snap.Entries) > 0 {
		m.seenEntries = true
		m.viewport.SetZoom(m.startZoom)
		m.viewport.ScrollBy(m.viewport.MaxScroll())
		m.relayout()
	}
}

// relayout rebuilds the frame and the canvas from current state.
func (m *Model) relayout() {
	entries := m.snapshot.Entries
	m.rng = m.engine.Range(entries)
	m.viewport.SetRange(m.rng)
	m.frame = m.engine.Compose(entries, m.rng, m.viewport, m.presenter.HoveredCluster())
	if m.syncHoveredCluster() {
		m.frame = m.engine.Compose(entries, m.rng, m.viewport, m.presenter.HoveredCluster())
	}
	m.viewport = m.frame.Viewport
	m.matches = m.query.MatchIDs(entries)

	if !m.ready {
		return
	}
	m.scene = buildScene(sceneInput{
		frame:    m.frame,
		width:    m.width,
		height:   m.canvasRows(),
		hovered:  m.presenter.HoveredNode(),
		selected: m.presenter.Selected(),
		query:    m.query,
		matches:  m.matches,
		entries:  m.byID,
	})
	m.anchor, m.hasAnchor = m.presenter.Tooltip(m.scene, m.scene.HeightPx(), 0)
	if m.hasAnchor {
		m.scene.drawConnector(m.anchor)
	}
}

// syncHoveredCluster follows the hovered node into its cluster in the
// current frame. Cluster IDs change with the zoom regime, and a node that
// left the archive drops the hover. It reports whether the hover changed.
func (m *Model) syncHoveredCluster() bool {
	node := m.presenter.HoveredNode()
	if node == "" {
		return false
	}
	p, ok := m.frame.Placement(node)
	switch {
	case !ok:
		m.presenter.Leave()
	case p.ClusterID != m.presenter.HoveredCluster():
		m.presenter.Enter(node, p.ClusterID)
	default:
		return false
	}
	return true
}

func (m Model) canvasRows() int {
	return max(m.height-chromeTopRows-chromeBottomRows, minCanvasRows)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		return m.updateModal(msg)
	}
	if m.prompt.kind != promptNone {
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		return m.handlePromptKey(msg)
	}

	vp := &m.viewport
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.modal = newHelpModal(m.keys)

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()

	case key.Matches(msg, m.keys.Clear):
		m.notice = ""
		m.query = archive.Query{}
		m.presenter.Leave()
		m.presenter.ClearSelection()

	case key.Matches(msg, m.keys.ZoomIn):
		vp.ZoomAt(vp.Zoom*keyZoomFactor, vp.ClientWidth/2)

	case key.Matches(msg, m.keys.ZoomOut):
		vp.ZoomAt(vp.Zoom/keyZoomFactor, vp.ClientWidth/2)

	case key.Matches(msg, m.keys.Left):
		vp.ScrollBy(-vp.ClientWidth * scrollStepRatio)

	case key.Matches(msg, m.keys.Right):
		vp.ScrollBy(vp.ClientWidth * scrollStepRatio)

	case key.Matches(msg, m.keys.PageLeft):
		vp.ScrollBy(-vp.ClientWidth * pageStepRatio)

	case key.Matches(msg, m.keys.PageRight):
		vp.ScrollBy(vp.ClientWidth * pageStepRatio)

	case key.Matches(msg, m.keys.Start):
		vp.ScrollBy(-vp.ScrollLeft)

	case key.Matches(msg, m.keys.Now):
		vp.ScrollBy(vp.MaxScroll())

	case key.Matches(msg, m.keys.NextEntry):
		m.stepHover(1)

	case key.Matches(msg, m.keys.PrevEntry):
		m.stepHover(-1)

	case key.Matches(msg, m.keys.Select):
		if id := m.presenter.HoveredNode(); id != "" {
			m.presenter.Select(id)
		}

	case key.Matches(msg, m.keys.Search):
		m.prompt = newPrompt(promptSearch, m.query.Text)
		return m, nil

	case key.Matches(msg, m.keys.JumpDate):
		m.prompt = newPrompt(promptDate, "")
		return m, nil

	case key.Matches(msg, m.keys.Summary):
		return m.openSummary()

	case key.Matches(msg, m.keys.Stats):
		m.modal = newTextModal(statsTitle, "Computing statistics...", m.width, m.height)
		return m, statsCmd(m.ctx, m.source, m.snapshot.Entries, m.engine.Now(), m.engine.Location(), m.logger)

	case key.Matches(msg, m.keys.Problems):
		m.modal = newTextModal(problemsTitle, "Reading "+m.logPath+"...", m.width, m.height)
		return m, problemsCmd(m.logPath)

	default:
		return m, nil
	}

	m.relayout()
	return m, nil
}

const (
	summaryTitle  = "Summary"
	statsTitle    = "Statistics"
	problemsTitle = "Problems"
)

// openSummary asks the summarizer about the entries in the visible range,
// narrowed by the active search.
func (m Model) openSummary() (tea.Model, tea.Cmd) {
	if m.summarizer == nil {
		m.modal = newTextModal(summaryTitle, "Summaries need ANTHROPIC_API_KEY in the environment or a .env file.", m.width, m.height)
		return m, nil
	}
	from, to := m.viewport.VisibleRange(m.rng)
	req := insight.Request{
		From:     from,
		To:       timeline.EndOfDay(to),
		Entries:  archive.Filter(m.snapshot.Entries, m.query),
		Location: m.engine.Location(),
	}
	m.modal = newTextModal(summaryTitle,
		"Summarizing "+from.Format(archive.DateLayout)+" to "+to.Format(archive.DateLayout)+"...",
		m.width, m.height)
	return m, summarizeCmd(m.ctx, m.summarizer, req)
}

// stepHover moves the hover to the next or previous entry in axis order,
// skipping search misses, and scrolls it into view.
func (m *Model) stepHover(dir int) {
	var candidates []timeline.Placement
	for _, p := range m.frame.Placements {
		if m.query.Active() && !m.matches[p.ID] {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return
	}

	current := -1
	for i, p := range candidates {
		if p.ID == m.presenter.HoveredNode() {
			current = i
			break
		}
	}
	next := 0
	switch {
	case current >= 0:
		next = (current + dir + len(candidates)) % len(candidates)
	case dir < 0:
		next = len(candidates) - 1
	}
	p := candidates[next]

	if x := m.viewport.XOf(p.DisplayPosition); x < 0 || x >= m.viewport.ClientWidth {
		m.viewport.ScrollBy(x - m.viewport.ClientWidth/2)
	}
	m.presenter.Enter(p.ID, p.ClusterID)
}

// handleMouse maps terminal mouse events onto the viewport and presenter.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || m.prompt.kind != promptNone {
		return m, nil
	}
	row := msg.Y - chromeTopRows
	pointerX := (float64(msg.X) + 0.5) * CellWidthPx

	if msg.Action == tea.MouseActionMotion {
		m.hoverAt(msg.X, row)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	ev := timeline.WheelEvent{MouseX: pointerX, ZoomModifier: msg.Ctrl}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.DeltaY = -wheelNotchPx
	case tea.MouseButtonWheelDown:
		ev.DeltaY = wheelNotchPx
	case tea.MouseButtonWheelLeft:
		ev.DeltaX = -wheelNotchPx
	case tea.MouseButtonWheelRight:
		ev.DeltaX = wheelNotchPx
	case tea.MouseButtonLeft:
		if h, ok := m.scene.hitAt(msg.X, row); ok {
			m.presenter.Enter(h.id, h.cluster)
			m.presenter.Select(h.id)
		} else {
			m.presenter.ClearSelection()
		}
		m.relayout()
		return m, nil
	default:
		return m, nil
	}

	if out := m.viewport.HandleWheel(ev); out.Zoomed || out.Scrolled {
		m.relayout()
	}
	return m, nil
}

// hoverAt updates the hover from the canvas cell under the pointer.
func (m *Model) hoverAt(col, row int) {
	h, ok := m.scene.hitAt(col, row)
	switch {
	case ok && h.id == m.presenter.HoveredNode():
		return
	case ok:
		m.presenter.Enter(h.id, h.cluster)
	case m.presenter.HoveredNode() == "":
		return
	default:
		m.presenter.Leave()
	}
	m.relayout()
}

// quit stores the theme and zoom for the next session.
func (m Model) quit() tea.Cmd {
	m.savePrefs()
	return tea.Quit
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Zoom: m.viewport.Zoom}); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// ends.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
