package ui

import "github.com/charmbracelet/lipgloss"

func (m Model) renderNotFound() string {
	styles := m.theme.Styles()
	body := styles.DangerText.Render("404") + "\n\n" +
		styles.Text.Render("Page not found") + "\n\n" +
		shortHelp(styles, m.keys.NavPosts, m.keys.GoTo)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, body)
}
