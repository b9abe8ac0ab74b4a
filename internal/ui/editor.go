package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/compose"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/forms"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/imgbb"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
)

// Editor focus order.
const (
	editorTitle = iota
	editorContent
	editorImage
	editorFieldCount
)

var editorFieldNames = [editorFieldCount]string{forms.FieldTitle, forms.FieldContent, forms.FieldImage}

// imagePreview describes the local file picked for upload.
type imagePreview struct {
	path   string
	name   string
	size   int64
	width  int
	height int
	format string
	err    error
}

func loadPreview(path string) imagePreview {
	p := imagePreview{path: path, name: filepath.Base(path)}
	f, err := os.Open(path)
	if err != nil {
		p.err = err
		return p
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		p.err = err
		return p
	}
	if info.IsDir() {
		p.err = fmt.Errorf("%s is a directory", p.name)
		return p
	}
	p.size = info.Size()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		p.err = fmt.Errorf("not a recognised image: %w", err)
		return p
	}
	p.width, p.height, p.format = cfg.Width, cfg.Height, format
	return p
}

// editorView is the /add-post screen. existing is nil when creating.
type editorView struct {
	existing *api.Post

	title   textinput.Model
	content textarea.Model
	image   textinput.Model

	focus      int
	touched    [editorFieldCount]bool
	errors     forms.Errors
	banner     string
	submitting bool
	width      int

	preview *imagePreview
}

func newEditorView(existing *api.Post) editorView {
	title := textinput.New()
	title.Placeholder = "Post title"
	title.Prompt = ""
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your post..."
	content.ShowLineNumbers = false
	content.CharLimit = 0
	content.SetHeight(6)

	img := textinput.New()
	img.Prompt = ""
	img.CharLimit = 1024
	img.Placeholder = "path to a PNG, JPEG or GIF file"

	if existing != nil {
		title.SetValue(existing.Title)
		content.SetValue(existing.Content)
		img.Placeholder = "leave empty to keep the current image"
	}

	e := editorView{existing: existing, title: title, content: content, image: img}
	e.validate()
	return e
}

func (e editorView) editing() bool { return e.existing != nil }

func (e *editorView) focusCmd() tea.Cmd {
	e.title.Blur()
	e.content.Blur()
	e.image.Blur()
	switch e.focus {
	case editorContent:
		return e.content.Focus()
	case editorImage:
		return e.image.Focus()
	default:
		return e.title.Focus()
	}
}

func (e *editorView) move(delta int) tea.Cmd {
	e.touched[e.focus] = true
	e.focus = (e.focus + delta + editorFieldCount) % editorFieldCount
	return e.focusCmd()
}

func (e *editorView) setSize(width, height int) {
	e.width = width
	inner := max(width-6, 10)
	e.title.Width = inner
	e.image.Width = inner
	e.content.SetWidth(inner)
	e.content.SetHeight(min(max(height-24, 3), 10))
}

// update forwards msg to the focused input.
func (e *editorView) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case editorContent:
		e.content, cmd = e.content.Update(msg)
	case editorImage:
		e.image, cmd = e.image.Update(msg)
	default:
		e.title, cmd = e.title.Update(msg)
	}
	return cmd
}

func (e *editorView) imagePath() string {
	path := strings.TrimSpace(e.image.Value())
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

func (e *editorView) values() forms.PostValues {
	return forms.PostValues{
		Title:     e.title.Value(),
		Content:   e.content.Value(),
		ImagePath: e.imagePath(),
	}
}

func (e *editorView) validate() {
	e.errors = forms.ValidatePost(e.values(), e.editing())
}

func (e *editorView) refreshPreview() {
	path := e.imagePath()
	switch {
	case path == "":
		e.preview = nil
	case e.preview == nil || e.preview.path != path:
		p := loadPreview(path)
		e.preview = &p
	}
}

func (e editorView) fieldError(i int) string {
	if !e.touched[i] {
		return ""
	}
	return e.errors.Get(editorFieldNames[i])
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.navigate(route.PathPosts)
	case key.Matches(msg, m.keys.Save):
		return m.submitEditor()
	case msg.Type == tea.KeyTab:
		return m, e.move(1)
	case msg.Type == tea.KeyShiftTab:
		return m, e.move(-1)
	}

	// The textarea keeps enter and the arrows for itself.
	if e.focus != editorContent {
		switch {
		case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.Submit):
			return m, e.move(1)
		case key.Matches(msg, m.keys.PrevField):
			return m, e.move(-1)
		}
	}

	cmd := e.update(msg)
	e.validate()
	if e.focus == editorImage {
		e.refreshPreview()
	}
	return m, cmd
}

func (m Model) submitEditor() (tea.Model, tea.Cmd) {
	e := &m.editor
	if e.submitting {
		return m, nil
	}
	for i := range e.touched {
		e.touched[i] = true
	}
	e.validate()
	if !e.errors.Valid() {
		return m, nil
	}
	if m.submitter == nil {
		e.banner = "Posting is not available"
		return m, nil
	}
	e.submitting = true
	e.banner = ""
	v := e.values()
	draft := compose.Draft{Title: v.Title, Content: v.Content, ImagePath: v.ImagePath}
	return m, m.submitCmd(m.mount, draft, e.existing)
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	e := &m.editor
	e.submitting = false
	if msg.err != nil {
		log.Printf("ui: save post: %v", msg.err)
		e.banner = compose.FailureMessage(msg.err, e.editing())
		return m, nil
	}
	log.Printf("ui: saved post %d", msg.post.ID)
	return m, m.navigate(route.PathPosts)
}

// renderEditor renders the create/edit form.
func (m Model) renderEditor() string {
	e := m.editor
	styles := m.theme.Styles()
	var b strings.Builder

	heading := "Create Post"
	if e.editing() {
		heading = "Edit Post"
	}
	b.WriteString(styles.Text.Bold(true).Render(heading))
	b.WriteString("\n\n")

	if e.banner != "" {
		b.WriteString(styles.ErrorBanner.Render(e.banner))
		b.WriteString("\n\n")
	}

	labels := [editorFieldCount]string{"Title", "Content", "Image"}
	views := [editorFieldCount]string{e.title.View(), e.content.View(), e.image.View()}
	for i := range editorFieldCount {
		label := styles.MutedText.Render(labels[i])
		border := m.theme.BorderMuted
		if i == e.focus {
			label = styles.AccentText.Render(labels[i])
			border = m.theme.BorderFocus
		}
		if e.fieldError(i) != "" {
			border = m.theme.Danger
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1).
			Render(views[i]))
		b.WriteString("\n")
		if msg := e.fieldError(i); msg != "" {
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
	}

	if preview := m.renderPreview(styles); preview != "" {
		b.WriteString(preview)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if e.submitting {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("tab: Next field  •  ctrl+s: Save  •  esc: Cancel"))
	}
	return m.centerPanel(b.String())
}

func (m Model) renderPreview(styles Styles) string {
	e := m.editor
	var lines []string
	if e.editing() && e.existing.ImageURL != "" {
		lines = append(lines, styles.MutedText.Render("Current image: ")+
			styles.InfoText.Render(truncateMiddle(e.existing.ImageURL, max(e.width-20, 10))))
	}
	if p := e.preview; p != nil {
		switch {
		case p.err != nil:
			lines = append(lines, styles.WarningText.Render(truncate(p.err.Error(), max(e.width-6, 10))))
		default:
			lines = append(lines, styles.Text.Render(
				fmt.Sprintf("%s  %s  %dx%d %s", p.name, formatBytes(p.size), p.width, p.height, strings.ToUpper(p.format))))
			if p.size > imgbb.MaxImageSize {
				lines = append(lines, styles.DangerText.Render(imgbb.ErrTooLarge.Error()))
			}
		}
	}
	return strings.Join(lines, "\n")
}
