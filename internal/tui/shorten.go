// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/model"
)

// linkCreatedMsg carries the result of a shorten request.
type linkCreatedMsg struct {
	link model.Link
	err  error
}

// shortenModel drives the create-short-link page.
type shortenModel struct {
	deps    Deps
	input   textinput.Model
	spin    spinner.Model
	loading bool
	result  *model.Link
	copied  bool
	errText string
}

func newShortenModel(deps Deps) shortenModel {
	t := textinput.New()
	t.Placeholder = i18n.T("shorten.placeholder")
	t.CharLimit = 2048
	t.Width = 56
	t.Focus()
	t.TextStyle = focusedStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedItemStyle

	return shortenModel{deps: deps, input: t, spin: sp}
}

func (m shortenModel) Init() tea.Cmd {
	return textinput.Blink
}

func createLinkCmd(c *api.Client, originalURL string) tea.Cmd {
	return func() tea.Msg {
		link, err := c.CreateLink(context.Background(), originalURL)
		return linkCreatedMsg{link: link, err: err}
	}
}

func (m shortenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case linkCreatedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) || errors.Is(msg.err, api.ErrUnauthenticated) {
				return m, sessionExpired(msg.err)
			}
			m.errText = i18n.T("shorten.failed", msg.err.Error())
			return m, nil
		}
		link := msg.link
		m.result = &link
		m.copied = false
		m.input.SetValue("")
		return m, nil

	case tea.KeyMsg:
		// With a result on screen, a small set of actions applies.
		if m.result != nil {
			switch msg.String() {
			case "c":
				// Copying is a pure side effect with no state transition.
				_ = clipboard.WriteAll(m.deps.API.ShortLinkURL(m.result.Slug()))
				m.copied = true
				return m, nil
			case "n":
				m.result = nil
				m.copied = false
				return m, textinput.Blink
			case "q", "esc":
				return m, func() tea.Msg { return backToMenuMsg{} }
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "enter":
			if m.loading {
				return m, nil
			}
			raw := strings.TrimSpace(m.input.Value())
			if err := core.ValidateShortenURL(raw); err != nil {
				m.errText = shortenErrorText(err)
				return m, nil
			}
			m.errText = ""
			m.loading = true
			return m, tea.Batch(m.spin.Tick, createLinkCmd(m.deps.API, raw))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// shortenErrorText maps URL validation failures onto user-facing messages.
func shortenErrorText(err error) string {
	switch {
	case errors.Is(err, core.ErrURLEmpty):
		return i18n.T("shorten.err_empty")
	case errors.Is(err, core.ErrURLScheme):
		return i18n.T("shorten.err_scheme")
	default:
		return i18n.T("shorten.err_format")
	}
}

func (m shortenModel) View() string {
	title := titleStyle.Render("✂️  " + i18n.T("shorten.title"))

	if m.result != nil {
		full := m.deps.API.ShortLinkURL(m.result.Slug())
		lines := []string{
			helpStyle.Render(i18n.T("shorten.result")),
			selectedItemStyle.Render(full),
		}
		if m.copied {
			lines = append(lines, successStyle.Render(i18n.T("shorten.copied")))
		}
		pane := paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
		return lipgloss.JoinVertical(lipgloss.Left, title, "", pane, "",
			helpStyle.Render(i18n.T("shorten.copy_hint")))
	}

	var body string
	if m.loading {
		body = m.spin.View() + " " + i18n.T("shorten.working")
	} else {
		body = m.input.View()
	}

	parts := []string{title, helpStyle.Render(i18n.T("shorten.prompt")), "", body}
	if m.errText != "" {
		parts = append(parts, "", errorStyle.Render(m.errText))
	}
	parts = append(parts, "", helpStyle.Render(i18n.T("common.back")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
