package ui

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/compose"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/prefs"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/session"
)

// Session is the authentication state the UI reads and mutates.
// *session.Session implements it.
type Session interface {
	Snapshot() session.State
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	Reload(ctx context.Context) (session.State, error)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       api.PostService
	Session   Session
	Submitter *compose.Submitter
	ThemeName string
	PrefsPath string
	StartPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	api       api.PostService
	session   Session
	submitter *compose.Submitter
	prefsPath string

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Routing
	path  route.Route
	url   string
	mount int

	// Carried into the next mounted screen
	pendingFlash string
	pendingEdit  *api.Post

	// Navbar indicator; follows the jar, not the route guards
	loggedIn bool

	// Overlays
	showHelp  bool
	modal     Modal
	gotoOpen  bool
	gotoInput textinput.Model

	// Screens
	feed     feedView
	login    loginView
	register registerView
	editor   editorView

	initCmd tea.Cmd
}

// New creates the root model and mounts the start path.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = DefaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	gotoInput := textinput.New()
	gotoInput.Prompt = ":"
	gotoInput.Placeholder = "/posts"
	gotoInput.CharLimit = 256

	m := Model{
		ctx:       ctx,
		api:       opts.API,
		session:   opts.Session,
		submitter: opts.Submitter,
		prefsPath: prefsPath,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		gotoInput: gotoInput,
		loggedIn:  opts.Session.Snapshot().Authenticated,
	}

	start := opts.StartPath
	if start == "" {
		start = route.PathRoot
	}
	m.initCmd = m.navigate(start)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.initCmd)
}

// Route returns the mounted screen.
func (m Model) Route() route.Route { return m.path }

// Path returns the resolved path of the mounted screen.
func (m Model) Path() string { return m.url }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.path != route.Posts || !m.feed.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.feed.spinner, cmd = m.feed.spinner.Update(msg)
		return m, cmd

	case SessionChangedMsg:
		m.loggedIn = msg.Present
		return m, nil

	case logoutDoneMsg:
		m.loggedIn = false
		return m, m.navigate(route.PathLogin)

	case loginResultMsg:
		if msg.err == nil {
			m.loggedIn = true
		}
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handleLoginResult(msg)

	case postsPageMsg:
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handlePostsPage(msg)

	case deleteConfirmedMsg:
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handleDeleteConfirmed(msg)

	case deleteResultMsg:
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handleDeleteResult(msg)

	case registerResultMsg:
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handleRegisterResult(msg)

	case submitResultMsg:
		if msg.seq != m.mount {
			return m, nil
		}
		return m.handleSubmitResult(msg)
	}

	return m.updateFocusedInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// navigate resolves path against the guards and mounts the resulting
// screen. Every mount bumps the sequence so late results for the previous
// screen are ignored.
func (m *Model) navigate(path string) tea.Cmd {
	st := m.session.Snapshot()
	res := route.Resolve(path, st.Authenticated)
	if res.Redirected {
		log.Printf("ui: %s redirected to %s", route.Normalize(path), res.Path)
	}

	m.mount++
	m.path = res.Route
	m.url = res.Path
	m.modal = nil
	m.gotoOpen = false

	flash := m.pendingFlash
	edit := m.pendingEdit
	m.pendingFlash = ""
	m.pendingEdit = nil

	var cmd tea.Cmd
	switch res.Route {
	case route.Posts:
		m.feed = newFeedView(st.UserID)
		cmd = m.startFeedLoad()
	case route.Login:
		m.login = newLoginView(flash)
		cmd = m.login.panel.focusCmd()
	case route.Register:
		m.register = newRegisterView()
		cmd = m.register.panel.focusCmd()
	case route.AddPost:
		m.editor = newEditorView(edit)
		cmd = m.editor.focusCmd()
	}
	m.resize()
	return cmd
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	width := formWidth(m.width)
	switch m.path {
	case route.Login:
		m.login.panel.setWidth(width)
	case route.Register:
		m.register.panel.setWidth(width)
	case route.AddPost:
		m.editor.setSize(width, m.height-chromeHeight)
	}
	m.gotoInput.Width = max(m.width-4, 10)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.gotoOpen {
		return m.handleGoToKey(msg)
	}

	if key.Matches(msg, m.keys.GoToAny) {
		return m.openGoTo()
	}

	// Screens with text inputs get every other key.
	switch m.path {
	case route.Login:
		return m.handleLoginKey(msg)
	case route.Register:
		return m.handleRegisterKey(msg)
	case route.AddPost:
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Printf("ui: save prefs: %v", err)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.GoTo):
		return m.openGoTo()

	case key.Matches(msg, m.keys.NavPosts):
		return m, m.navigate(route.PathPosts)

	case key.Matches(msg, m.keys.NavLogin):
		if m.loggedIn {
			return m, nil
		}
		return m, m.navigate(route.PathLogin)

	case key.Matches(msg, m.keys.NavLogout):
		if !m.loggedIn {
			return m, nil
		}
		return m, m.logoutCmd()
	}

	if m.path == route.Posts {
		return m.handleFeedKey(msg)
	}
	return m, nil
}

func (m Model) openGoTo() (tea.Model, tea.Cmd) {
	m.gotoOpen = true
	m.gotoInput.SetValue(m.url)
	m.gotoInput.CursorEnd()
	return m, m.gotoInput.Focus()
}

func (m Model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		target := strings.TrimSpace(m.gotoInput.Value())
		m.gotoOpen = false
		m.gotoInput.Blur()
		if target == "" {
			return m, nil
		}
		return m, m.navigate(target)
	case tea.KeyEsc:
		m.gotoOpen = false
		m.gotoInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

// updateFocusedInput forwards non-key messages (cursor blinks) to whichever
// input currently has focus.
func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.gotoOpen:
		m.gotoInput, cmd = m.gotoInput.Update(msg)
	case m.path == route.Login:
		cmd = m.login.panel.update(msg)
	case m.path == route.Register:
		cmd = m.register.panel.update(msg)
	case m.path == route.AddPost:
		cmd = m.editor.update(msg)
	}
	return m, cmd
}

// renderMain renders navbar, screen and command bar.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 1)
}

// renderContent renders the mounted screen.
func (m Model) renderContent() string {
	switch m.path {
	case route.Posts:
		return m.renderFeed()
	case route.Login:
		return m.renderLogin()
	case route.Register:
		return m.renderRegister()
	case route.AddPost:
		return m.renderEditor()
	default:
		return m.renderNotFound()
	}
}

// NewProgram builds the Bubble Tea program without starting it, so callers
// can hand p.Send to background watchers first.
func NewProgram(opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	_, err := NewProgram(opts).Run()
	return err
}
