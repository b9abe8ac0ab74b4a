package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/feed"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
)

const (
	msgDeleteConfirm = "Are you sure you want to delete this post?"
	msgAllSeen       = "You've seen all posts!"
	msgNoPosts       = "No posts available"
)

// feedView is the /posts screen. viewer is decoded from the token once, at
// mount. deleting holds the id of the post whose delete is in flight.
type feedView struct {
	feed     *feed.Feed
	viewer   api.UserID
	cursor   int
	offset   int
	deleting int64
	spinner  spinner.Model
}

func newFeedView(viewer api.UserID) feedView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return feedView{feed: feed.New(), viewer: viewer, spinner: sp}
}

func (v feedView) busy() bool {
	return v.feed != nil && v.feed.Loading()
}

func (v feedView) selected() (api.Post, bool) {
	if v.feed == nil {
		return api.Post{}, false
	}
	return v.feed.Post(v.cursor)
}

func (v feedView) canEdit(post api.Post) bool {
	return feed.CanEdit(post, v.viewer)
}

func (v *feedView) clamp() {
	n := v.feed.Len()
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// ensureVisible scrolls so the cursor lies within the visible cards.
func (v *feedView) ensureVisible(visible int) {
	visible = max(visible, 1)
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
	v.offset = max(min(v.offset, v.feed.Len()-visible), 0)
}

// visibleCards is how many cards fit above the status line.
func (m Model) visibleCards() int {
	return max((m.contentHeight()-1)/CardHeight, 1)
}

// startFeedLoad reserves the next page and returns the fetch, or nil when
// nothing may be loaded.
func (m *Model) startFeedLoad() tea.Cmd {
	req, ok := m.feed.feed.BeginLoad()
	if !ok {
		return nil
	}
	return tea.Batch(m.fetchPageCmd(m.mount, req), m.feed.spinner.Tick)
}

// maybeLoadMore fetches the next page once the selection nears the end of
// the list, or when every card already fits on screen.
func (m *Model) maybeLoadMore() tea.Cmd {
	n := m.feed.feed.Len()
	if n == 0 || m.feed.feed.State() != feed.StateReady {
		return nil
	}
	nearEnd := m.feed.cursor >= n-LoadMoreThreshold
	fits := m.ready && n <= m.visibleCards()
	if !nearEnd && !fits {
		return nil
	}
	return m.startFeedLoad()
}

func (m Model) handlePostsPage(msg postsPageMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("ui: fetch posts offset=%d: %v", msg.req.Offset, msg.err)
	}
	if !m.feed.feed.Apply(msg.req, msg.posts, msg.err) {
		return m, nil
	}
	m.feed.clamp()
	m.feed.ensureVisible(m.visibleCards())
	return m, m.maybeLoadMore()
}

func (m Model) handleDeleteConfirmed(msg deleteConfirmedMsg) (tea.Model, tea.Cmd) {
	if m.feed.deleting != 0 {
		return m, nil
	}
	m.feed.deleting = msg.id
	return m, m.deleteCmd(m.mount, msg.id)
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	m.feed.deleting = 0
	if msg.err != nil {
		log.Printf("ui: delete post %d: %v", msg.id, msg.err)
		m.modal = newAlertModal("Delete Failed", "Error: "+api.Message(msg.err, api.MsgDeleteFailed))
		return m, nil
	}
	m.feed.feed.Remove(msg.id)
	m.feed.clamp()
	m.feed.ensureVisible(m.visibleCards())
	return m, nil
}

func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.feed
	switch {
	case key.Matches(msg, m.keys.Down):
		if v.cursor < v.feed.Len()-1 {
			v.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, m.keys.Top):
		v.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		v.cursor = max(v.feed.Len()-1, 0)
	case key.Matches(msg, m.keys.LoadMore):
		return m, m.startFeedLoad()

	case key.Matches(msg, m.keys.Refresh):
		if _, err := m.session.Reload(m.ctx); err != nil {
			log.Printf("ui: reload session: %v", err)
		}
		return m, m.navigate(route.PathPosts)

	case key.Matches(msg, m.keys.Add):
		if v.viewer.IsZero() {
			return m, nil
		}
		return m, m.navigate(route.PathAddPost)

	case key.Matches(msg, m.keys.Edit):
		post, ok := v.selected()
		if !ok || !v.canEdit(post) {
			return m, nil
		}
		m.pendingEdit = &post
		return m, m.navigate(route.PathAddPost)

	case key.Matches(msg, m.keys.Delete):
		post, ok := v.selected()
		if !ok || !v.canEdit(post) || v.deleting != 0 {
			return m, nil
		}
		m.modal = newConfirmModal("Delete Post", msgDeleteConfirm, confirmDeleteCmd(m.mount, post.ID))
		return m, nil

	default:
		return m, nil
	}

	v.ensureVisible(m.visibleCards())
	return m, m.maybeLoadMore()
}

// renderFeed renders the post list with its status line.
func (m Model) renderFeed() string {
	styles := m.theme.Styles()
	f := m.feed.feed
	height := m.contentHeight()

	switch {
	case f.State() == feed.StateError:
		body := styles.DangerText.Render("Error: "+api.Message(f.Err(), api.MsgFetchFailed)) + "\n\n" +
			shortHelp(styles, m.keys.Refresh, m.keys.GoTo)
		return m.renderTitledBox("Posts", body, m.width, min(height, 6), false)

	case f.Len() == 0 && f.Loading():
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			m.feed.spinner.View()+" "+styles.MutedText.Render("Loading posts..."))

	case f.Len() == 0:
		body := styles.MutedText.Render(msgNoPosts)
		if !m.feed.viewer.IsZero() {
			body += "\n\n" + shortHelp(styles, m.keys.Add)
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
	}

	visible := m.visibleCards()
	end := min(m.feed.offset+visible, f.Len())
	cards := make([]string, 0, end-m.feed.offset+1)
	for i := m.feed.offset; i < end; i++ {
		post, _ := f.Post(i)
		cards = append(cards, m.renderCard(post, i == m.feed.cursor))
	}
	cards = append(cards, m.renderFeedStatus(styles))
	return strings.Join(cards, "\n")
}

func (m Model) renderFeedStatus(styles Styles) string {
	f := m.feed.feed
	var line string
	switch {
	case m.feed.deleting != 0:
		line = styles.MutedText.Render("Deleting post...")
	case f.Loading():
		line = m.feed.spinner.View() + " " + styles.MutedText.Render("Loading more posts...")
	case f.LoadMoreErr() != nil:
		line = styles.DangerText.Render("Error: " + api.Message(f.LoadMoreErr(), api.MsgFetchFailed))
	case !f.HasMore():
		line = styles.FaintText.Render(msgAllSeen)
	default:
		line = styles.FaintText.Render("m: Load more")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
}

// renderCard draws one post. Edit and delete hints only appear on the
// viewer's own posts.
func (m Model) renderCard(post api.Post, selected bool) string {
	bgColor := m.theme.SurfaceAlt
	if selected {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := max(m.width-4, 10)

	author := post.AuthorUsername
	if author == "" {
		author = "unknown"
	}
	date := post.Date
	if t := post.ParsedDate(); !t.IsZero() {
		date = t.Format("Jan 2, 2006")
	}

	lines := []string{
		bg.Render("by "+author, styles.AccentText) + bg.Render(" · "+date, styles.MutedText),
	}
	content := wrapLines(post.Content, inner, CardContentLines)
	for i := range CardContentLines {
		text := ""
		if i < len(content) {
			text = content[i]
		}
		lines = append(lines, bg.Render(text, styles.Text))
	}
	if post.ImageURL != "" {
		lines = append(lines, bg.Render("image "+truncateMiddle(post.ImageURL, inner-6), styles.FaintText))
	} else {
		lines = append(lines, "")
	}
	if m.feed.canEdit(post) {
		lines = append(lines,
			bg.Render("[e]", styles.AccentText)+bg.Render(" Edit  ", styles.MutedText)+
				bg.Render("[d]", styles.DangerText)+bg.Render(" Delete", styles.MutedText))
	}

	for i := range lines {
		lines[i] = bg.FillLine(" "+lines[i], inner+2)
	}
	return m.renderTitledBox(post.Title, strings.Join(lines, "\n"), m.width, CardHeight, selected)
}
