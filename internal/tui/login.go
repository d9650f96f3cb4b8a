// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/auth"
	"github.com/kodalabs/koda/internal/i18n"
)

// loggedInMsg reports the sign-in outcome. On success the router leaves the
// sign-in view; on failure the form stays open with the error shown.
type loggedInMsg struct{ err error }

// loginModel drives the sign-in form. notice carries a message from the
// router, e.g. the reason for a forced sign-out.
type loginModel struct {
	deps    Deps
	inputs  []textinput.Model // 0: username, 1: password
	focus   int
	spin    spinner.Model
	loading bool
	errText string
	notice  string
}

func newLoginModel(deps Deps) loginModel {
	m := loginModel{deps: deps}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = selectedItemStyle

	m.inputs = make([]textinput.Model, 2)

	t := textinput.New()
	t.Prompt = i18n.T("login.username") + ": "
	t.CharLimit = 64
	t.Width = 32
	t.Focus()
	t.TextStyle = focusedStyle
	m.inputs[0] = t

	t = textinput.New()
	t.Prompt = i18n.T("login.password") + ": "
	t.CharLimit = 128
	t.Width = 32
	t.EchoMode = textinput.EchoPassword
	t.EchoCharacter = '•'
	m.inputs[1] = t

	return m
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func loginCmd(c *auth.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loggedInMsg{err: c.Login(context.Background(), username, password)}
	}
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case loggedInMsg:
		// Success is handled by the router; only failures land here.
		m.loading = false
		if msg.err != nil {
			m.errText = loginErrorText(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focus--
			} else {
				m.focus++
			}
			if m.focus >= len(m.inputs) {
				m.focus = 0
			} else if m.focus < 0 {
				m.focus = len(m.inputs) - 1
			}
			cmds := make([]tea.Cmd, len(m.inputs))
			for i := range m.inputs {
				if i == m.focus {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].TextStyle = focusedStyle
				} else {
					m.inputs[i].Blur()
					m.inputs[i].TextStyle = itemStyle
				}
			}
			return m, tea.Batch(cmds...)

		case "enter":
			if m.loading {
				return m, nil
			}
			username := strings.TrimSpace(m.inputs[0].Value())
			password := m.inputs[1].Value()
			if username == "" || password == "" {
				m.errText = i18n.T("login.required")
				return m, nil
			}
			m.errText = ""
			m.loading = true
			return m, tea.Batch(m.spin.Tick, loginCmd(m.deps.Auth, username, password))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// loginErrorText maps sign-in failures onto user-facing messages.
func loginErrorText(err error) string {
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return i18n.T("common.network_error")
	}
	return i18n.T("login.failed", err.Error())
}

func (m loginModel) View() string {
	title := mainTitleStyle.Render("🔗 " + i18n.T("app.name"))

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("login.title")) + "\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
	if m.loading {
		b.WriteString("\n" + m.spin.View() + " " + i18n.T("login.working"))
	}
	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render(m.errText))
	}
	pane := dialogBoxStyle.Render(b.String())

	parts := []string{title}
	if m.notice != "" {
		parts = append(parts, m.notice)
	}
	parts = append(parts, "", pane)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
