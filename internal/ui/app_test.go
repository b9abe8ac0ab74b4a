package ui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/compose"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/feed"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/forms"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/prefs"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/session"
)

type fakeAPI struct {
	mu sync.Mutex

	loginResp   api.LoginResponse
	loginErr    error
	registerErr error
	deleteErr   error
	writeErr    error

	logins     []api.Credentials
	registered []api.Registration
	deleted    []int64
	created    []api.PostInput
	updated    map[int64]api.PostInput
}

var _ api.PostService = (*fakeAPI)(nil)

func (f *fakeAPI) Login(_ context.Context, creds api.Credentials) (api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, creds)
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, reg api.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, reg)
	return f.registerErr
}

func (f *fakeAPI) ListPosts(context.Context, string, int, int) ([]api.Post, error) {
	return nil, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, _ string, in api.PostInput) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return api.Post{}, f.writeErr
	}
	f.created = append(f.created, in)
	return api.Post{ID: 100, Title: in.Title}, nil
}

func (f *fakeAPI) UpdatePost(_ context.Context, _ string, id int64, in api.PostInput) (api.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return api.Post{}, f.writeErr
	}
	if f.updated == nil {
		f.updated = map[int64]api.PostInput{}
	}
	f.updated[id] = in
	return api.Post{ID: id, Title: in.Title}, nil
}

func (f *fakeAPI) DeletePost(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSession struct {
	mu      sync.Mutex
	state   session.State
	reloads int
}

func (f *fakeSession) Snapshot() session.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) Login(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = session.State{Token: token, UserID: "7", Authenticated: true}
	return nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = session.State{}
	return nil
}

func (f *fakeSession) Reload(context.Context) (session.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.state, nil
}

var (
	guest  = session.State{}
	member = session.State{Token: "tok", UserID: "7", Authenticated: true}
)

type harness struct {
	svc       *fakeAPI
	sess      *fakeSession
	prefsPath string
}

func newTestModel(t *testing.T, st session.State, start string) (Model, *harness) {
	t.Helper()
	h := &harness{
		svc:       &fakeAPI{loginResp: api.LoginResponse{Access: "issued"}},
		sess:      &fakeSession{state: st},
		prefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	}
	m := New(Options{
		Context: context.Background(),
		API:     h.svc,
		Session: h.sess,
		Submitter: &compose.Submitter{
			API: h.svc,
			Now: func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local) },
		},
		ThemeName: "Slate",
		PrefsPath: h.prefsPath,
		StartPath: start,
	})
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, h
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// firstPage feeds the initial page the mounted feed is waiting for.
func firstPage(t *testing.T, m Model, posts ...api.Post) Model {
	t.Helper()
	m, _ = step(t, m, postsPageMsg{
		seq:   m.mount,
		req:   feed.Request{Page: 0, Limit: feed.PageSize, Offset: 0},
		posts: posts,
	})
	return m
}

func TestNavigationGuards(t *testing.T) {
	cases := []struct {
		name  string
		state session.State
		path  string
		want  route.Route
	}{
		{"root goes to posts", guest, "/", route.Posts},
		{"guest add-post goes to login", guest, "/add-post", route.Login},
		{"guest sees register", guest, "/register", route.Register},
		{"member login goes to posts", member, "/login", route.Posts},
		{"member register goes to posts", member, "/register", route.Posts},
		{"member add-post", member, "/add-post", route.AddPost},
		{"unknown path", member, "/nowhere", route.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t, tc.state, tc.path)
			if got := m.Route(); got != tc.want {
				t.Fatalf("Route = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStartupSizesOnlyTheMountedScreen(t *testing.T) {
	cases := []struct {
		name  string
		state session.State
		path  string
		want  route.Route
	}{
		{"guest root", guest, "/", route.Posts},
		{"guest posts", guest, "/posts", route.Posts},
		{"guest login", guest, "/login", route.Login},
		{"guest register", guest, "/register", route.Register},
		{"guest add-post", guest, "/add-post", route.Login},
		{"guest unknown", guest, "/nowhere", route.NotFound},
		{"member root", member, "/", route.Posts},
		{"member posts", member, "/posts", route.Posts},
		{"member login", member, "/login", route.Posts},
		{"member register", member, "/register", route.Posts},
		{"member add-post", member, "/add-post", route.AddPost},
		{"member unknown", member, "/nowhere", route.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestModel(t, tc.state, tc.path)
			if got := m.Route(); got != tc.want {
				t.Fatalf("Route = %v, want %v", got, tc.want)
			}
			if view := m.View(); view == "" || view == "Loading..." {
				t.Fatalf("first sized render is empty: %q", view)
			}

			m, _ = step(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
			if m.View() == "" {
				t.Fatalf("render after a second resize is empty")
			}
			if tc.want != route.AddPost && m.editor.width != 0 {
				t.Fatalf("editor sized to %d while %v is mounted", m.editor.width, tc.want)
			}
		})
	}
}

func TestEditorSizedWhenOpenedAfterStartup(t *testing.T) {
	m, _ := newTestModel(t, member, "/posts")
	m = firstPage(t, m)

	m, _ = step(t, m, runes("a"))
	if m.Route() != route.AddPost {
		t.Fatalf("Route = %v, want add-post", m.Route())
	}
	if want := formWidth(100); m.editor.width != want {
		t.Fatalf("editor width = %d, want %d", m.editor.width, want)
	}
	if !strings.Contains(m.View(), "Content") {
		t.Fatalf("editor view missing content field:\n%s", m.View())
	}
}

func TestNotFoundView(t *testing.T) {
	m, _ := newTestModel(t, guest, "/missing")
	if !strings.Contains(m.View(), "Page not found") {
		t.Fatalf("view missing not-found text:\n%s", m.View())
	}
	m, _ = step(t, m, runes("p"))
	if m.Route() != route.Posts {
		t.Fatalf("Route = %v, want posts", m.Route())
	}
}

func TestGoToPrompt(t *testing.T) {
	m, _ := newTestModel(t, guest, "/posts")

	m, _ = step(t, m, runes(":"))
	if !m.gotoOpen {
		t.Fatalf("go-to prompt not open")
	}
	m.gotoInput.SetValue("/register")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Route() != route.Register || m.gotoOpen {
		t.Fatalf("Route = %v open=%v, want register and closed", m.Route(), m.gotoOpen)
	}

	// ctrl+g works from inside a form.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if !m.gotoOpen {
		t.Fatalf("ctrl+g did not open the prompt")
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.gotoOpen || m.Route() != route.Register {
		t.Fatalf("esc should close the prompt and stay on register")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	m, _ := newTestModel(t, guest, "/posts")
	seq := m.mount

	m, _ = step(t, m, runes("l"))
	if m.Route() != route.Login {
		t.Fatalf("Route = %v, want login", m.Route())
	}

	m, _ = step(t, m, postsPageMsg{
		seq:   seq,
		req:   feed.Request{Page: 0, Limit: feed.PageSize},
		posts: []api.Post{{ID: 1, Title: "late"}},
	})
	if m.Route() != route.Login {
		t.Fatalf("stale page moved the route to %v", m.Route())
	}
	if n := m.feed.feed.Len(); n != 0 {
		t.Fatalf("stale page applied %d posts", n)
	}
}

func TestSessionIndicator(t *testing.T) {
	m, _ := newTestModel(t, guest, "/posts")
	if !strings.Contains(m.View(), "guest") {
		t.Fatalf("header should show guest")
	}

	m, _ = step(t, m, SessionChangedMsg{Present: true})
	if !m.loggedIn || !strings.Contains(m.View(), "signed in") {
		t.Fatalf("indicator did not follow SessionChangedMsg")
	}
	// Guards still use the in-memory session.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m.gotoInput.SetValue("/add-post")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Route() != route.Login {
		t.Fatalf("Route = %v, want login", m.Route())
	}
}

func TestLogout(t *testing.T) {
	m, h := newTestModel(t, member, "/posts")

	m, cmd := step(t, m, runes("L"))
	if cmd == nil {
		t.Fatalf("logout returned no command")
	}
	m, _ = step(t, m, cmd())

	if h.sess.Snapshot().Authenticated {
		t.Fatalf("session still authenticated")
	}
	if m.loggedIn || m.Route() != route.Login {
		t.Fatalf("loggedIn=%v route=%v, want false and login", m.loggedIn, m.Route())
	}
}

func TestCycleThemeSavesPrefs(t *testing.T) {
	m, h := newTestModel(t, guest, "/posts")

	m, _ = step(t, m, runes("T"))
	want := NextTheme("Slate")
	if m.theme.Name != want {
		t.Fatalf("theme = %q, want %q", m.theme.Name, want)
	}

	p, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != want {
		t.Fatalf("saved theme = %q, want %q", p.Theme, want)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, guest, "/posts")

	m, _ = step(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown")
	}
	m, _ = step(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, guest, "/login")

	// q is text on a form.
	m, _ = step(t, m, runes("q"))
	if got := m.login.panel.value(forms.FieldUsername); got != "q" || m.Route() != route.Login {
		t.Fatalf("username = %q route = %v, want q on login", got, m.Route())
	}

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, quit := cmd().(tea.QuitMsg); !quit {
		t.Fatalf("ctrl+c did not quit")
	}
}
