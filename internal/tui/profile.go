// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/logging"
	"github.com/kodalabs/koda/internal/model"
)

// profileLoadedMsg carries the fetched profile.
type profileLoadedMsg struct {
	profile model.UserProfile
	err     error
}

// avatarUploadedMsg reports the outcome of an avatar upload attempt. path
// is the local file that was selected.
type avatarUploadedMsg struct {
	path string
	err  error
}

const (
	fieldUsername = iota
	fieldEmail
	fieldAvatarPath
	fieldSave
)

// profileModel drives the settings page. Text fields are validated and kept
// locally; the avatar upload goes to the server with an optimistic local
// preview until the follow-up fetch confirms it.
type profileModel struct {
	deps Deps

	profile model.UserProfile
	inputs  []textinput.Model
	focus   int

	avatarPhase core.AvatarPhase
	avatarLocal string // locally-selected file shown while pending

	spin      spinner.Model
	loading   bool
	uploading bool
	err       error
	status    string
}

func newProfileModel(deps Deps) profileModel {
	m := profileModel{deps: deps, loading: true}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = selectedItemStyle

	m.inputs = make([]textinput.Model, 3)
	prompts := []string{
		i18n.T("profile.username") + ": ",
		i18n.T("profile.email") + ": ",
		i18n.T("profile.avatar_path") + ": ",
	}
	for i := range m.inputs {
		t := textinput.New()
		t.Prompt = prompts[i]
		t.CharLimit = 128
		t.Width = 40
		m.inputs[i] = t
	}
	m.inputs[fieldAvatarPath].Placeholder = "~/pictures/avatar.png"
	m.inputs[fieldUsername].Focus()
	m.inputs[fieldUsername].TextStyle = focusedStyle

	return m
}

func (m profileModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, textinput.Blink, loadProfileCmd(m.deps.API))
}

func loadProfileCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Profile(context.Background())
		return profileLoadedMsg{profile: p, err: err}
	}
}

// uploadAvatarCmd reads and validates the local image, then uploads it.
// Validation failures return before any request is issued.
func uploadAvatarCmd(c *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return avatarUploadedMsg{path: path, err: err}
		}
		if err := core.ValidateAvatar(filepath.Base(path), content); err != nil {
			return avatarUploadedMsg{path: path, err: err}
		}
		err = c.UploadAvatar(context.Background(), filepath.Base(path), content)
		return avatarUploadedMsg{path: path, err: err}
	}
}

func (m *profileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading || m.uploading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.profile = msg.profile
		m.inputs[fieldUsername].SetValue(msg.profile.Username)
		m.inputs[fieldEmail].SetValue(msg.profile.Email)
		// The server-fetched avatar supersedes the optimistic preview.
		if m.avatarPhase == core.AvatarPending {
			m.avatarPhase = core.AvatarConfirmed
		}
		return m, nil

	case avatarUploadedMsg:
		m.uploading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			m.status = errorStyle.Render(avatarErrorText(msg.err))
			return m, nil
		}
		// Show the locally-selected image immediately, then refresh from
		// the server to confirm.
		m.avatarPhase = core.AvatarPending
		m.avatarLocal = msg.path
		m.status = successStyle.Render(i18n.T("profile.avatar_uploaded"))
		return m, loadProfileCmd(m.deps.API)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }

		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m.focus--
			} else {
				m.focus++
			}
			if m.focus > fieldSave {
				m.focus = fieldUsername
			} else if m.focus < fieldUsername {
				m.focus = fieldSave
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
			switch m.focus {
			case fieldAvatarPath:
				path := strings.TrimSpace(m.inputs[fieldAvatarPath].Value())
				if path == "" {
					return m, nil
				}
				m.uploading = true
				m.status = i18n.T("profile.avatar_pending")
				return m, tea.Batch(m.spin.Tick, uploadAvatarCmd(m.deps.API, path))
			case fieldSave:
				return m.saveFields()
			}
		}
	}

	var cmd tea.Cmd
	if m.focus >= 0 && m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

// saveFields validates the text fields and accepts them locally. There is
// no persistence endpoint for profile fields yet, so the intended update is
// only logged.
func (m *profileModel) saveFields() (tea.Model, tea.Cmd) {
	form := core.ProfileForm{
		Username: strings.TrimSpace(m.inputs[fieldUsername].Value()),
		Email:    strings.TrimSpace(m.inputs[fieldEmail].Value()),
	}
	if err := core.ValidateProfile(form); err != nil {
		switch {
		case errors.Is(err, core.ErrUsernameRequired):
			m.status = errorStyle.Render(i18n.T("profile.err_username_required"))
		case errors.Is(err, core.ErrEmailInvalid):
			m.status = errorStyle.Render(i18n.T("profile.err_email_invalid"))
		default:
			m.status = errorStyle.Render(err.Error())
		}
		return m, nil
	}
	m.profile.Username = form.Username
	m.profile.Email = form.Email
	logging.Infof("profile: fields accepted locally (no server endpoint): username=%q email=%q", form.Username, form.Email)
	m.status = specialStyle.Render(i18n.T("profile.saved_locally"))
	return m, nil
}

// avatarErrorText maps avatar failures onto user-facing messages.
func avatarErrorText(err error) string {
	switch {
	case errors.Is(err, core.ErrAvatarTooLarge):
		return i18n.T("profile.err_avatar_size")
	case errors.Is(err, core.ErrAvatarBadType):
		return i18n.T("profile.err_avatar_type")
	case errors.Is(err, os.ErrNotExist):
		return i18n.T("profile.err_avatar_read", err)
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return i18n.T("profile.avatar_failed", apiErr)
		}
		var netErr *api.NetworkError
		if errors.As(err, &netErr) {
			return i18n.T("common.network_error")
		}
		return i18n.T("profile.err_avatar_read", err)
	}
}

func (m *profileModel) View() string {
	title := titleStyle.Render("⚙️  " + i18n.T("profile.title"))
	subtitle := helpStyle.Render(i18n.T("profile.subtitle"))

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "",
			m.spin.View()+" "+i18n.T("common.loading"))
	}
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			errorStyle.Render(i18n.T("profile.error", m.err)), "",
			helpStyle.Render(i18n.T("common.back")))
	}

	var b strings.Builder

	// Avatar line: local preview while pending, server reference otherwise.
	avatar := m.profile.AvatarRef
	if m.avatarPhase == core.AvatarPending && m.avatarLocal != "" {
		avatar = m.avatarLocal + " " + helpStyle.Render("("+i18n.T("profile.avatar_pending")+")")
	}
	if avatar == "" {
		avatar = helpStyle.Render("—")
	}
	b.WriteString(i18n.T("profile.avatar") + ": " + avatar + "\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	button := buttonStyle.Render(i18n.T("profile.save"))
	if m.focus == fieldSave {
		button = activeButtonStyle.Render(i18n.T("profile.save"))
	}
	b.WriteString("\n" + button + "\n")

	if m.uploading {
		b.WriteString("\n" + m.spin.View() + " " + i18n.T("profile.avatar_pending"))
	}

	pane := paneStyle.Render(b.String())

	parts := []string{title, subtitle, "", pane}
	if exp, ok := m.deps.Session.ExpiresAt(); ok {
		parts = append(parts, helpStyle.Render(i18n.T("profile.session_expires", exp.Local().Format("2006-01-02 15:04"))))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, helpStyle.Render(i18n.T("profile.footer")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
