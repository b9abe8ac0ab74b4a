package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/forms"
)

// formField is one labelled text input. Its error is only shown once the
// field has been left or the form submitted.
type formField struct {
	name    string
	label   string
	input   textinput.Model
	touched bool
}

func newFormField(name, label, placeholder string, secret bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Prompt = ""
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return formField{name: name, label: label, input: in}
}

// formPanel is a vertical stack of fields with a banner line for server
// errors. Login and register share it.
type formPanel struct {
	fields     []formField
	focus      int
	errors     forms.Errors
	banner     string
	flash      string
	submitting bool
	width      int
}

func newFormPanel(fields ...formField) formPanel {
	return formPanel{fields: fields, errors: forms.Errors{}}
}

func (p *formPanel) focusCmd() tea.Cmd {
	if len(p.fields) == 0 {
		return nil
	}
	for i := range p.fields {
		p.fields[i].input.Blur()
	}
	return p.fields[p.focus].input.Focus()
}

func (p *formPanel) setWidth(width int) {
	p.width = width
	for i := range p.fields {
		p.fields[i].input.Width = max(width-6, 10)
	}
}

func (p *formPanel) move(delta int) tea.Cmd {
	if len(p.fields) == 0 {
		return nil
	}
	p.fields[p.focus].touched = true
	p.fields[p.focus].input.Blur()
	p.focus = (p.focus + delta + len(p.fields)) % len(p.fields)
	return p.fields[p.focus].input.Focus()
}

func (p *formPanel) next() tea.Cmd { return p.move(1) }
func (p *formPanel) prev() tea.Cmd { return p.move(-1) }

// update forwards msg to the focused input.
func (p *formPanel) update(msg tea.Msg) tea.Cmd {
	if len(p.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	p.fields[p.focus].input, cmd = p.fields[p.focus].input.Update(msg)
	return cmd
}

func (p *formPanel) value(name string) string {
	for _, f := range p.fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

func (p *formPanel) setValue(name, value string) {
	for i := range p.fields {
		if p.fields[i].name == name {
			p.fields[i].input.SetValue(value)
		}
	}
}

func (p *formPanel) touchAll() {
	for i := range p.fields {
		p.fields[i].touched = true
	}
}

// fieldError returns the message shown under name.
func (p formPanel) fieldError(name string) string {
	for _, f := range p.fields {
		if f.name == name && f.touched {
			return p.errors.Get(name)
		}
	}
	return ""
}

// view renders the panel. extra is inserted after the field named after.
func (p formPanel) view(theme Theme, title, footer string, after string, extra string) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	if p.flash != "" {
		b.WriteString(styles.SuccessBanner.Render(p.flash))
		b.WriteString("\n\n")
	}
	if p.banner != "" {
		b.WriteString(styles.ErrorBanner.Render(p.banner))
		b.WriteString("\n\n")
	}

	for i, f := range p.fields {
		label := styles.MutedText.Render(f.label)
		if i == p.focus {
			label = styles.AccentText.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")

		border := theme.BorderMuted
		if i == p.focus {
			border = theme.BorderFocus
		}
		if p.fieldError(f.name) != "" {
			border = theme.Danger
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1).
			Width(max(p.width-4, 12))
		b.WriteString(box.Render(f.input.View()))
		b.WriteString("\n")

		if msg := p.fieldError(f.name); msg != "" {
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
		if f.name == after && extra != "" {
			b.WriteString(extra)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if p.submitting {
		b.WriteString(styles.WarningText.Render("Submitting..."))
	} else {
		b.WriteString(styles.FaintText.Render(footer))
	}
	return b.String()
}

// formWidth is the panel width for a terminal of the given width.
func formWidth(termWidth int) int {
	return max(min(termWidth-4, FormMaxWidth), 20)
}

// centerPanel places a rendered panel in the content area.
func (m Model) centerPanel(content string) string {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Padding(1, 2).
		Width(formWidth(m.width)).
		Render(content)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Top, panel)
}
