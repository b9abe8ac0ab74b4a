package ui

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/forms"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/route"
)

const (
	msgRegisterError   = "An error occurred during registration"
	msgRegisterSuccess = "Registration successful, please log in"
)

type registerView struct {
	panel formPanel
}

func newRegisterView() registerView {
	v := registerView{panel: newFormPanel(
		newFormField(forms.FieldUsername, "Username", "at least 3 characters", false),
		newFormField(forms.FieldEmail, "Email", "you@example.com", false),
		newFormField(forms.FieldPassword, "Password", "upper, lower, digit and symbol", true),
		newFormField(forms.FieldConfirmPassword, "Confirm Password", "repeat password", true),
		newFormField(forms.FieldPhone, "Phone", "10-15 digits", false),
		newFormField(forms.FieldAddress, "Address", "street, city", false),
	)}
	v.validate()
	return v
}

func (v *registerView) values() forms.RegisterValues {
	return forms.RegisterValues{
		Username:        v.panel.value(forms.FieldUsername),
		Email:           v.panel.value(forms.FieldEmail),
		Password:        v.panel.value(forms.FieldPassword),
		ConfirmPassword: v.panel.value(forms.FieldConfirmPassword),
		Phone:           v.panel.value(forms.FieldPhone),
		Address:         v.panel.value(forms.FieldAddress),
	}
}

func (v *registerView) validate() {
	v.panel.errors = forms.ValidateRegister(v.values())
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ToLogin):
		return m, m.navigate(route.PathLogin)
	case key.Matches(msg, m.keys.NextField):
		return m, m.register.panel.next()
	case key.Matches(msg, m.keys.PrevField):
		return m, m.register.panel.prev()
	case key.Matches(msg, m.keys.Submit):
		return m.submitRegister()
	}
	cmd := m.register.panel.update(msg)
	m.register.validate()
	return m, cmd
}

func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	p := &m.register.panel
	if p.submitting {
		return m, nil
	}
	p.touchAll()
	m.register.validate()
	if !p.errors.Valid() {
		return m, nil
	}
	p.submitting = true
	p.banner = ""
	v := m.register.values()
	return m, m.registerCmd(m.mount, api.Registration{
		Username: v.Username,
		Email:    v.Email,
		Password: v.Password,
	})
}

func (m Model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.register.panel.submitting = false
	if msg.err != nil {
		log.Printf("ui: register failed: %v", msg.err)
		m.register.panel.banner = api.Message(msg.err, msgRegisterError)
		return m, nil
	}
	m.pendingFlash = msgRegisterSuccess
	return m, m.navigate(route.PathLogin)
}

// renderStrength draws the live password strength meter.
func (m Model) renderStrength() string {
	pw := m.register.panel.value(forms.FieldPassword)
	if pw == "" {
		return ""
	}
	s := forms.PasswordStrength(pw)
	styles := m.theme.Styles()

	const segments = 5
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.strengthColor(s.Score)))
	var bar strings.Builder
	for i := range segments {
		if i < s.Score {
			bar.WriteString(on.Render("■"))
		} else {
			bar.WriteString(styles.FaintText.Render("□"))
		}
	}
	return bar.String() + " " + styles.MutedText.Render("Password Strength: ") + on.Render(s.Label)
}

func (m Model) renderRegister() string {
	content := m.register.panel.view(m.theme, "Create Account",
		"enter: Register  •  ctrl+l: Already have an account?",
		forms.FieldPassword, m.renderStrength())
	return m.centerPanel(content)
}
