package ui

import (
	"strings"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
)

// renderHeader renders the navbar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("postboard", styles.Logo)}

	link := func(hotkey, label string, active bool) string {
		style := styles.MutedText
		if active {
			style = styles.AccentText.Bold(true)
		}
		if compact {
			return bg.Render(label, style)
		}
		return bg.Render(hotkey, styles.FaintText) + bg.Space() + bg.Render(label, style)
	}

	parts = append(parts, link("p", "Posts", m.path == route.Posts))
	if m.loggedIn {
		parts = append(parts, link("L", "Logout", false))
	} else {
		parts = append(parts, link("l", "Login", m.path == route.Login))
	}

	if m.loggedIn {
		parts = append(parts, bg.Render("● signed in", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("○ guest", styles.MutedText))
	}

	if !compact {
		parts = append(parts, bg.Render(m.url, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the mounted screen, or the
// go-to prompt while it is open.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.gotoOpen {
		return styles.Header.Width(m.width).Render(m.gotoInput.View())
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.path {
	case route.Posts:
		commands = []cmd{{"j/k", "Navigate"}, {"m", "More"}, {"r", "Reload"}}
		if !m.feed.viewer.IsZero() {
			commands = append(commands, cmd{"a", "Add"})
		}
		if post, ok := m.feed.selected(); ok && m.feed.canEdit(post) {
			commands = append(commands, cmd{"e", "Edit"}, cmd{"d", "Delete"})
		}
		commands = append(commands, cmd{":", "Go to"}, cmd{"?", "More"})
	case route.Login:
		commands = []cmd{{"tab", "Next"}, {"enter", "Login"}, {"ctrl+r", "Register"}, {"esc", "Posts"}}
	case route.Register:
		commands = []cmd{{"tab", "Next"}, {"enter", "Register"}, {"ctrl+l", "Login"}}
	case route.AddPost:
		commands = []cmd{{"tab", "Next"}, {"ctrl+s", "Save"}, {"esc", "Cancel"}}
	default:
		commands = []cmd{{"p", "Posts"}, {":", "Go to"}, {"?", "More"}}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
