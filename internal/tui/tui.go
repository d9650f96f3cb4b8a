// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// This file is the main entry point for the TUI, containing the top-level
// model that acts as a router to all other sub-views.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/auth"
	"github.com/kodalabs/koda/internal/config"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/session"
)

// Deps bundles the collaborators every view needs. The session store is
// read-only from the TUI's perspective; all writes go through Auth.
type Deps struct {
	API     *api.Client
	Auth    *auth.Controller
	Session *session.Store
}

// viewState represents which part of the UI is currently active.
type viewState int

const (
	// menuView is the main navigation menu.
	menuView viewState = iota
	loginView
	dashboardView
	linksView
	shortenView
	profileView
	languageView
)

// backToMenuMsg signals a sub-view wants to return to the main menu.
type backToMenuMsg struct{}

// sessionExpiredMsg signals that an API call came back Unauthorized. The
// router clears the session and routes to the sign-in view, abandoning any
// in-flight state of the current page.
type sessionExpiredMsg struct{ err error }

// loggedOutMsg reports the outcome of a logout. Logout is fail-open, so the
// session is gone locally regardless of err.
type loggedOutMsg struct{ err error }

// languageChangedMsg signals the UI should be rebuilt with new translations.
type languageChangedMsg struct{}

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the currently active
// sub-model.
type mainModel struct {
	deps      Deps
	cfg       *config.Config
	state     viewState
	menu      menuModel
	login     loginModel
	dashboard dashboardModel
	links     *linksModel
	shorten   shortenModel
	profile   *profileModel
	language  languageModel
	width     int
	height    int
}

// menuModel holds the state for the main menu.
type menuModel struct {
	choices []string
	cursor  int
}

func newMainModel(deps Deps, cfg *config.Config) mainModel {
	m := mainModel{
		deps: deps,
		cfg:  cfg,
		menu: menuModel{
			choices: []string{
				i18n.T("menu.dashboard"),
				i18n.T("menu.links"),
				i18n.T("menu.shorten"),
				i18n.T("menu.profile"),
				i18n.T("menu.language"),
				i18n.T("menu.logout"),
			},
		},
	}
	// Entry guard: without a session, every page routes to sign-in before
	// issuing any data fetch.
	if deps.Auth.SignedIn() {
		m.state = menuView
	} else {
		m.state = loginView
		m.login = newLoginModel(deps)
	}
	return m
}

// Init is the first function called by the Bubble Tea runtime.
func (m mainModel) Init() tea.Cmd {
	if m.state == loginView {
		return m.login.Init()
	}
	return nil
}

// logoutCmd performs the fail-open logout round-trip.
func logoutCmd(c *auth.Controller) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: c.Logout(context.Background())}
	}
}

// Update is the main message loop. It handles global events and delegates
// everything else to the active sub-model.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionExpiredMsg:
		m.deps.Auth.HandleAPIError(msg.err)
		m.state = loginView
		m.login = newLoginModel(m.deps)
		m.login.notice = errorStyle.Render(i18n.T("common.error", msg.err))
		return m, m.login.Init()

	case loggedOutMsg:
		m.state = loginView
		m.login = newLoginModel(m.deps)
		m.login.notice = successStyle.Render(i18n.T("logout.done"))
		return m, m.login.Init()

	case languageChangedMsg:
		// Rebuild the whole model so new translations apply everywhere,
		// preserving the current window dimensions.
		newModel := newMainModel(m.deps, m.cfg)
		newModel.width = m.width
		newModel.height = m.height
		return newModel, newModel.Init()
	}

	// Delegate updates to the currently active view.
	switch m.state {
	case loginView:
		if lm, ok := msg.(loggedInMsg); ok && lm.err == nil {
			m.state = menuView
			return m, nil
		}
		var newLogin tea.Model
		newLogin, cmd = m.login.Update(msg)
		m.login = newLogin.(loginModel)

	case dashboardView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newDash tea.Model
		newDash, cmd = m.dashboard.Update(msg)
		m.dashboard = newDash.(dashboardModel)

	case linksView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newLinks tea.Model
		newLinks, cmd = m.links.Update(msg)
		if nl, ok := newLinks.(*linksModel); ok {
			m.links = nl
		}

	case shortenView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newShorten tea.Model
		newShorten, cmd = m.shorten.Update(msg)
		m.shorten = newShorten.(shortenModel)

	case profileView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newProfile tea.Model
		newProfile, cmd = m.profile.Update(msg)
		if np, ok := newProfile.(*profileModel); ok {
			m.profile = np
		}

	case languageView:
		if _, ok := msg.(backToMenuMsg); ok {
			m.state = menuView
			return m, nil
		}
		var newLang tea.Model
		newLang, cmd = m.language.Update(msg)
		m.language = newLang.(languageModel)

	default: // menuView
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "up", "k":
				if m.menu.cursor > 0 {
					m.menu.cursor--
				}
			case "down", "j":
				if m.menu.cursor < len(m.menu.choices)-1 {
					m.menu.cursor++
				}
			case "enter":
				return m.openMenuItem(m.menu.cursor)
			}
		}
	}

	return m, cmd
}

// openMenuItem switches to the view behind the selected menu entry and
// kicks off its initial load.
func (m mainModel) openMenuItem(idx int) (tea.Model, tea.Cmd) {
	switch idx {
	case 0:
		m.state = dashboardView
		m.dashboard = newDashboardModel(m.deps)
		return m, m.dashboard.Init()
	case 1:
		m.state = linksView
		links := newLinksModel(m.deps)
		m.links = &links
		var cmd tea.Cmd
		var updated tea.Model
		updated, cmd = m.links.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.links = updated.(*linksModel)
		return m, tea.Batch(m.links.Init(), cmd)
	case 2:
		m.state = shortenView
		m.shorten = newShortenModel(m.deps)
		return m, m.shorten.Init()
	case 3:
		m.state = profileView
		profile := newProfileModel(m.deps)
		m.profile = &profile
		return m, m.profile.Init()
	case 4:
		m.state = languageView
		m.language = newLanguageModel(m.cfg)
		return m, nil
	case 5:
		return m, logoutCmd(m.deps.Auth)
	}
	return m, nil
}

// View renders the TUI, delegating to the currently active sub-model.
func (m mainModel) View() string {
	switch m.state {
	case loginView:
		return m.login.View()
	case dashboardView:
		return m.dashboard.View()
	case linksView:
		return m.links.View()
	case shortenView:
		return m.shorten.View()
	case profileView:
		return m.profile.View()
	case languageView:
		return m.language.View()
	default:
		return m.menuView()
	}
}

func (m mainModel) menuView() string {
	title := mainTitleStyle.Render("🔗 " + i18n.T("app.name"))
	tagline := helpStyle.Render(i18n.T("menu.tagline"))

	var items []string
	for i, choice := range m.menu.choices {
		if m.menu.cursor == i {
			items = append(items, selectedItemStyle.Render(fmt.Sprintf("▸ %s", choice)))
		} else {
			items = append(items, itemStyle.Render(fmt.Sprintf("  %s", choice)))
		}
	}
	menu := paneStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	footer := helpStyle.Render(i18n.T("menu.footer"))

	return lipgloss.JoinVertical(lipgloss.Left, title, tagline, "", menu, "", footer)
}

// Run starts the interactive terminal client.
func Run(deps Deps, cfg *config.Config) error {
	p := tea.NewProgram(newMainModel(deps, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
