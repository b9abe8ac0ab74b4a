package ui

import (
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/forms"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
)

const msgLoginError = "An error occurred during login"

type loginView struct {
	panel formPanel
}

func newLoginView(flash string) loginView {
	v := loginView{panel: newFormPanel(
		newFormField(forms.FieldUsername, "Username", "your username", false),
		newFormField(forms.FieldPassword, "Password", "at least 8 characters", true),
	)}
	v.panel.flash = flash
	v.validate()
	return v
}

func (v *loginView) values() forms.LoginValues {
	return forms.LoginValues{
		Username: v.panel.value(forms.FieldUsername),
		Password: v.panel.value(forms.FieldPassword),
	}
}

func (v *loginView) validate() {
	v.panel.errors = forms.ValidateLogin(v.values())
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.navigate(route.PathPosts)
	case key.Matches(msg, m.keys.ToSignup):
		return m, m.navigate(route.PathRegister)
	case key.Matches(msg, m.keys.NextField):
		return m, m.login.panel.next()
	case key.Matches(msg, m.keys.PrevField):
		return m, m.login.panel.prev()
	case key.Matches(msg, m.keys.Submit):
		return m.submitLogin()
	}
	cmd := m.login.panel.update(msg)
	m.login.validate()
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	p := &m.login.panel
	if p.submitting {
		return m, nil
	}
	p.touchAll()
	m.login.validate()
	if !p.errors.Valid() {
		return m, nil
	}
	p.submitting = true
	p.banner = ""
	p.flash = ""
	v := m.login.values()
	return m, m.loginCmd(m.mount, api.Credentials{Username: v.Username, Password: v.Password})
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.login.panel.submitting = false
	if msg.err != nil {
		log.Printf("ui: login failed: %v", msg.err)
		m.login.panel.banner = api.Message(msg.err, msgLoginError)
		return m, nil
	}
	return m, m.navigate(route.PathPosts)
}

func (m Model) renderLogin() string {
	content := m.login.panel.view(m.theme, "Login", "enter: Login  •  ctrl+r: Create an account", "", "")
	return m.centerPanel(content)
}
