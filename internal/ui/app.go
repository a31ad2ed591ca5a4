package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/secondbrain/internal/logtail"
	"github.com/five82/secondbrain/internal/prefs"
	"github.com/five82/secondbrain/internal/state"
)

// Lifecycle is the request state machine the UI drives.
type Lifecycle interface {
	State() state.State
	Submit(ctx context.Context, text string) bool
	Reset() bool
	Subscribe(fn func(state.State)) (cancel func())
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Lifecycle Lifecycle
	Endpoint  string
	LogPath   string
	Prefs     prefs.Prefs
	PrefsPath string

	// MarkdownStyle overrides the theme's glamour style.
	MarkdownStyle string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx           context.Context
	lifecycle     Lifecycle
	endpoint      string
	logPath       string
	prefsPath     string
	markdownStyle string
	keys          keyMap

	theme  Theme
	prefs  prefs.Prefs
	width  int
	height int
	ready  bool

	current    state.State
	input      textinput.Model
	spinner    spinner.Model
	answerView viewport.Model
	markdown   *markdownRenderer

	showHelp     bool
	showActivity bool
	activityView viewport.Model
	activityErr  error

	notice string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := opts.Prefs
	if strings.TrimSpace(p.Theme) == "" {
		p = prefs.Default()
	}
	theme := GetTheme(p.Theme)
	p.Theme = theme.Name

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	current := state.Idle()
	if opts.Lifecycle != nil {
		current = opts.Lifecycle.State()
	}

	m := Model{
		ctx:           ctx,
		lifecycle:     opts.Lifecycle,
		endpoint:      opts.Endpoint,
		logPath:       opts.LogPath,
		prefsPath:     prefsPath,
		markdownStyle: opts.MarkdownStyle,
		keys:          DefaultKeyMap(),
		theme:         theme,
		prefs:         p,
		current:       current,
		input:         newQueryInput(),
		answerView:    viewport.New(0, 0),
		activityView:  viewport.New(0, 0),
		markdown:      &markdownRenderer{},
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	m.applyTheme()
	if current.IsLoading() {
		m.input.Blur()
	}
	return m
}

func newQueryInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "Ask a question about your knowledge base..."
	input.Prompt = "› "
	input.CharLimit = queryCharLimit
	input.Focus()
	return input
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.current.IsLoading() {
		return m.spinner.Tick
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		if m.showActivity {
			m.activityView, cmd = m.activityView.Update(msg)
		} else if m.current.Succeeded() {
			m.answerView, cmd = m.answerView.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case stateMsg:
		return m.applyState(msg.state)

	case submitDoneMsg:
		if !msg.accepted {
			return m, nil
		}
		return m.applyState(msg.state)

	case resetDoneMsg:
		if !msg.accepted {
			return m, nil
		}
		return m.applyState(msg.state)

	case spinner.TickMsg:
		if !m.current.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case activityMsg:
		m.activityErr = msg.err
		m.setActivityContent(msg.entries)
		return m, nil

	case prefsSavedMsg:
		m.notice = ""
		if msg.err != nil {
			m.notice = "prefs not saved"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showActivity {
		return m.renderActivity()
	}
	return m.renderMain()
}

// State returns the request state the model last rendered.
func (m Model) State() state.State {
	return m.current
}

// Query returns the text currently in the query field.
func (m Model) Query() string {
	return m.input.Value()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.showActivity {
		return m.handleActivityKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Submit, m.keys.SubmitChord):
		return m, m.submitCmd()

	case key.Matches(msg, m.keys.Clear):
		return m, m.resetCmd()

	case key.Matches(msg, m.keys.Activity):
		m.showActivity = true
		m.resize()
		return m, loadActivityCmd(m.logPath, ActivityLines)

	case key.Matches(msg, m.keys.CycleTheme):
		m.prefs.Theme = NextTheme(m.theme.Name)
		m.theme = GetTheme(m.prefs.Theme)
		m.applyTheme()
		m.renderAnswer()
		return m, savePrefsCmd(m.prefsPath, m.prefs)

	case key.Matches(msg, m.keys.ToggleMarkdown):
		m.prefs.Markdown = !m.prefs.Markdown
		m.renderAnswer()
		return m, savePrefsCmd(m.prefsPath, m.prefs)

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.answerView, cmd = m.answerView.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Close):
		return m, nil
	}

	// The field is read-only while a request is in flight.
	if m.current.IsLoading() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitCmd hands the field's text to the lifecycle, which applies the blank
// and in-flight guards. Submit blocks, so it runs off the event loop.
func (m Model) submitCmd() tea.Cmd {
	if m.lifecycle == nil {
		return nil
	}
	lc, ctx, text := m.lifecycle, m.ctx, m.input.Value()
	return func() tea.Msg {
		accepted := lc.Submit(ctx, text)
		return submitDoneMsg{accepted: accepted, state: lc.State()}
	}
}

func (m Model) resetCmd() tea.Cmd {
	if m.lifecycle == nil || !m.current.Settled() {
		return nil
	}
	lc := m.lifecycle
	return func() tea.Msg {
		accepted := lc.Reset()
		return resetDoneMsg{accepted: accepted, state: lc.State()}
	}
}

// applyState renders s unless a newer state has already been shown.
func (m Model) applyState(s state.State) (tea.Model, tea.Cmd) {
	if s.Version() <= m.current.Version() {
		return m, nil
	}
	m.current = s

	var cmds []tea.Cmd
	if s.IsLoading() {
		m.input.Blur()
		cmds = append(cmds, m.spinner.Tick)
	} else {
		cmds = append(cmds, m.input.Focus())
	}
	if s.Succeeded() {
		m.renderAnswer()
		m.answerView.GotoTop()
	}
	if m.showActivity && s.Settled() {
		cmds = append(cmds, loadActivityCmd(m.logPath, ActivityLines))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.input.Cursor.Style = styles.AccentText
	m.spinner.Style = styles.InfoText
}

// resize recomputes widget sizes from the terminal size.
func (m *Model) resize() {
	inner := maxInt(m.width-4, 10)
	m.input.Width = maxInt(inner-12, 10)

	bodyHeight := maxInt(m.height-chromeHeight-inputPanelHeight, LayoutMinBodyHeight+2)
	m.answerView.Width = inner
	// Border plus the question line above the answer.
	m.answerView.Height = maxInt(bodyHeight-3, LayoutMinBodyHeight)

	m.activityView.Width = maxInt(m.width-6, 10)
	m.activityView.Height = maxInt(m.height-6, LayoutMinBodyHeight)

	m.renderAnswer()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderInput(),
		m.renderBody(),
	)
}

// Messages

type stateMsg struct{ state state.State }

type submitDoneMsg struct {
	accepted bool
	state    state.State
}

type resetDoneMsg struct {
	accepted bool
	state    state.State
}

type activityMsg struct {
	entries []logtail.Entry
	err     error
}

type prefsSavedMsg struct{ err error }

// Commands

func loadActivityCmd(path string, limit int) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return activityMsg{}
		}
		lines, err := logtail.Read(path, limit)
		return activityMsg{entries: logtail.ParseLines(lines), err: err}
	}
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled. State changes reach the program through Lifecycle.Subscribe;
// lifecycle calls that notify are therefore made from commands, never from
// Update.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}

	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if opts.Lifecycle != nil {
		cancel := opts.Lifecycle.Subscribe(func(s state.State) {
			p.Send(stateMsg{state: s})
		})
		defer cancel()
	}

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
