// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/model"
)

// linksLoadedMsg carries the result of a collection fetch.
type linksLoadedMsg struct {
	links []model.Link
	err   error
}

// linkUpdatedMsg carries the result of an edit save.
type linkUpdatedMsg struct{ err error }

// linkDeletedMsg carries the result of a deletion.
type linkDeletedMsg struct {
	slug string
	err  error
}

// linksModel drives the link management page: one fetch of the full
// collection per mount (and on explicit refresh), with search, status
// filter and pagination computed client-side over the full set.
type linksModel struct {
	deps Deps

	all  []model.Link
	view core.ListView
	page core.PageResult

	table   table.Model
	spin    spinner.Model
	loading bool
	err     error
	status  string

	isFiltering bool

	// Edit scope, bound to one link while open.
	isEditing  bool
	editLink   model.Link
	editInputs []textinput.Model // 0: destination URL, 1: custom slug
	editFocus  int
	editErr    string

	// Delete confirmation.
	isConfirmingDelete bool
	confirmCursor      int // 0 for No, 1 for Yes
	linkToDelete       model.Link

	width int
}

func newLinksModel(deps Deps) linksModel {
	m := linksModel{
		deps:    deps,
		view:    core.NewListView(),
		loading: true,
	}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = selectedItemStyle

	columns := []table.Column{
		{Title: i18n.T("links.header.short_url"), Width: 22},
		{Title: i18n.T("links.header.destination"), Width: 36},
		{Title: i18n.T("links.header.visits"), Width: 7},
		{Title: i18n.T("links.header.created"), Width: 12},
		{Title: i18n.T("links.header.status"), Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.PageSize),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)
	m.table = t

	return m
}

func (m linksModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadLinksCmd(m.deps.API))
}

func loadLinksCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		links, err := c.ListLinks(context.Background())
		return linksLoadedMsg{links: links, err: err}
	}
}

func updateLinkCmd(c *api.Client, slug, originalURL, customSlug string) tea.Cmd {
	return func() tea.Msg {
		return linkUpdatedMsg{err: c.UpdateLink(context.Background(), slug, originalURL, customSlug)}
	}
}

func deleteLinkCmd(c *api.Client, slug string) tea.Cmd {
	return func() tea.Msg {
		return linkDeletedMsg{slug: slug, err: c.DeleteLink(context.Background(), slug)}
	}
}

// sessionExpired lifts an Unauthorized API error into the router message
// that forces a sign-out.
func sessionExpired(err error) tea.Cmd {
	return func() tea.Msg { return sessionExpiredMsg{err: err} }
}

// rebuildTable recomputes the derived page from the full collection and
// repopulates the table rows.
func (m *linksModel) rebuildTable() {
	m.page = m.view.Apply(m.all)
	rows := make([]table.Row, 0, len(m.page.Items))
	for _, l := range m.page.Items {
		created := l.CreatedAt
		if len(created) > 10 {
			created = created[:10]
		}
		rows = append(rows, table.Row{
			displayShortURL(m.deps.API.ShortLinkURL(l.Slug())),
			l.OriginalURL,
			fmt.Sprintf("%d", l.TotalClicks),
			created,
			string(l.Status),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// displayShortURL strips the scheme for compact display in the table.
func displayShortURL(full string) string {
	s := strings.TrimPrefix(full, "https://")
	return strings.TrimPrefix(s, "http://")
}

// selectedLink returns the link under the cursor, if any.
func (m *linksModel) selectedLink() (model.Link, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.page.Items) {
		return model.Link{}, false
	}
	return m.page.Items[idx], true
}

func (m *linksModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case linksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.all = msg.links
		m.rebuildTable()
		return m, nil

	case linkUpdatedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			// The edit scope stays open on failure; no local patch happened.
			m.editErr = i18n.T("links.edit_failed", msg.err)
			return m, nil
		}
		m.isEditing = false
		m.editErr = ""
		m.status = successStyle.Render(i18n.T("links.edit_success"))
		m.loading = true
		return m, tea.Batch(m.spin.Tick, loadLinksCmd(m.deps.API))

	case linkDeletedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			m.status = errorStyle.Render(i18n.T("links.delete_failed", msg.err))
			return m, nil
		}
		m.status = successStyle.Render(i18n.T("links.delete_success", msg.slug))
		m.loading = true
		return m, tea.Batch(m.spin.Tick, loadLinksCmd(m.deps.API))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	if m.isEditing {
		return m.updateEdit(msg)
	}
	if m.isConfirmingDelete {
		return m.updateDeleteConfirm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Filtering mode captures all input for the query.
		if m.isFiltering {
			switch keyMsg.Type {
			case tea.KeyEsc:
				m.isFiltering = false
				m.view.SetQuery("")
				m.rebuildTable()
			case tea.KeyEnter:
				m.isFiltering = false
			case tea.KeyBackspace:
				if len(m.view.Query) > 0 {
					m.view.SetQuery(m.view.Query[:len(m.view.Query)-1])
					m.rebuildTable()
				}
			case tea.KeySpace:
				m.view.SetQuery(m.view.Query + " ")
				m.rebuildTable()
			case tea.KeyRunes:
				m.view.SetQuery(m.view.Query + string(keyMsg.Runes))
				m.rebuildTable()
			}
			return m, nil
		}

		switch keyMsg.String() {
		case "q", "esc":
			if m.view.Query != "" {
				m.view.SetQuery("")
				m.rebuildTable()
				return m, nil
			}
			return m, func() tea.Msg { return backToMenuMsg{} }

		case "/":
			m.isFiltering = true
			m.view.SetQuery("")
			m.rebuildTable()
			return m, nil

		case "f":
			m.view.CycleStatus()
			m.rebuildTable()
			return m, nil

		case "left", "h":
			m.view.PrevPage()
			m.rebuildTable()
			return m, nil

		case "right", "l":
			m.view.NextPage(m.all)
			m.rebuildTable()
			return m, nil

		case "r":
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spin.Tick, loadLinksCmd(m.deps.API))

		case "c":
			if l, ok := m.selectedLink(); ok {
				full := m.deps.API.ShortLinkURL(l.Slug())
				// Copying is a pure side effect with no state transition.
				_ = clipboard.WriteAll(full)
				m.status = statusMessageStyle.Render(i18n.T("links.copied", displayShortURL(full)))
			}
			return m, nil

		case "e":
			if l, ok := m.selectedLink(); ok {
				m.openEdit(l)
				return m, textinput.Blink
			}
			return m, nil

		case "d", "delete":
			if l, ok := m.selectedLink(); ok {
				m.linkToDelete = l
				m.isConfirmingDelete = true
				m.confirmCursor = 0 // Default to No
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// openEdit binds the edit scope to one link and prefills the form.
func (m *linksModel) openEdit(l model.Link) {
	m.isEditing = true
	m.editLink = l
	m.editErr = ""
	m.editFocus = 0
	m.editInputs = make([]textinput.Model, 2)

	t := textinput.New()
	t.Prompt = i18n.T("links.edit_original_url") + ": "
	t.SetValue(l.OriginalURL)
	t.CharLimit = 2048
	t.Width = 48
	t.Focus()
	t.TextStyle = focusedStyle
	m.editInputs[0] = t

	t = textinput.New()
	t.Prompt = i18n.T("links.edit_custom_slug") + ": "
	t.Placeholder = l.Slug()
	t.CharLimit = 64
	t.Width = 48
	m.editInputs[1] = t
}

func (m *linksModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.isEditing = false
			return m, nil

		case "tab", "shift+tab", "up", "down":
			if keyMsg.String() == "shift+tab" || keyMsg.String() == "up" {
				m.editFocus--
			} else {
				m.editFocus++
			}
			if m.editFocus > len(m.editInputs) {
				m.editFocus = 0
			} else if m.editFocus < 0 {
				m.editFocus = len(m.editInputs)
			}
			cmds := make([]tea.Cmd, len(m.editInputs))
			for i := range m.editInputs {
				if i == m.editFocus {
					cmds[i] = m.editInputs[i].Focus()
					m.editInputs[i].TextStyle = focusedStyle
				} else {
					m.editInputs[i].Blur()
					m.editInputs[i].TextStyle = itemStyle
				}
			}
			return m, tea.Batch(cmds...)

		case "enter":
			if m.editFocus == len(m.editInputs) {
				return m.submitEdit()
			}
			// Enter inside a field moves focus forward, like tab.
			return m.updateEdit(tea.KeyMsg{Type: tea.KeyTab})
		}
	}

	var cmd tea.Cmd
	if m.editFocus >= 0 && m.editFocus < len(m.editInputs) {
		m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	}
	return m, cmd
}

// submitEdit validates the form and sends the partial update keyed by the
// link's current slug. A non-empty trimmed slug input requests a new custom
// slug; otherwise the slug stays unchanged.
func (m *linksModel) submitEdit() (tea.Model, tea.Cmd) {
	originalURL := strings.TrimSpace(m.editInputs[0].Value())
	if err := core.ValidateShortenURL(originalURL); err != nil {
		m.editErr = i18n.T("links.edit_url_required")
		return m, nil
	}
	customSlug := strings.TrimSpace(m.editInputs[1].Value())
	return m, updateLinkCmd(m.deps.API, m.editLink.Slug(), originalURL, customSlug)
}

func (m *linksModel) updateDeleteConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "n", "q", "esc":
			m.isConfirmingDelete = false
			m.status = i18n.T("links.delete_cancelled")
			return m, nil
		case "left", "right", "tab":
			m.confirmCursor = (m.confirmCursor + 1) % 2
			return m, nil
		case "y":
			m.isConfirmingDelete = false
			return m, deleteLinkCmd(m.deps.API, m.linkToDelete.Slug())
		case "enter":
			m.isConfirmingDelete = false
			if m.confirmCursor == 1 {
				return m, deleteLinkCmd(m.deps.API, m.linkToDelete.Slug())
			}
			m.status = i18n.T("links.delete_cancelled")
			return m, nil
		}
	}
	return m, nil
}

func (m *linksModel) View() string {
	title := titleStyle.Render("🔗 " + i18n.T("links.title"))
	subtitle := helpStyle.Render(i18n.T("links.subtitle"))

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "",
			m.spin.View()+" "+i18n.T("common.loading"))
	}
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			errorStyle.Render(i18n.T("links.error", m.err)), "",
			helpStyle.Render(i18n.T("common.back")))
	}
	if m.isEditing {
		return m.editView(title)
	}
	if m.isConfirmingDelete {
		return m.deleteConfirmView(title)
	}

	// Search / filter bar.
	var filterLine string
	switch {
	case m.isFiltering:
		filterLine = specialStyle.Render(i18n.T("links.filtering", m.view.Query+"▌"))
	case m.view.Query != "":
		filterLine = specialStyle.Render(i18n.T("links.filter_active", m.view.Query))
	default:
		filterLine = helpStyle.Render(i18n.T("links.filter_hint"))
	}
	statusName := map[core.StatusFilter]string{
		core.FilterAll:      i18n.T("links.status_all"),
		core.FilterActive:   i18n.T("links.status_active"),
		core.FilterInactive: i18n.T("links.status_inactive"),
	}[m.view.Status]
	filterLine += helpStyle.Render("  •  f: " + statusName)

	var body string
	if m.page.Filtered == 0 {
		if len(m.all) == 0 {
			body = helpStyle.Render(i18n.T("links.none"))
		} else {
			body = helpStyle.Render(i18n.T("links.empty"))
		}
	} else {
		body = m.table.View()
	}

	pageLine := helpStyle.Render(fmt.Sprintf("%s    %s",
		i18n.T("links.showing", m.page.Start, m.page.End, m.page.Filtered),
		i18n.T("links.page_info", m.view.Page, max(m.page.TotalPages, 1))))

	footer := helpStyle.Render(i18n.T("links.footer"))

	parts := []string{title, subtitle, "", filterLine, "", body, "", pageLine}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *linksModel) editView(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("links.edit_title")) + "\n\n")
	for i := range m.editInputs {
		b.WriteString(m.editInputs[i].View() + "\n")
	}
	button := buttonStyle.Render(i18n.T("links.edit_save"))
	if m.editFocus == len(m.editInputs) {
		button = activeButtonStyle.Render(i18n.T("links.edit_save"))
	}
	b.WriteString("\n" + button + "\n")
	if m.editErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.editErr) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(i18n.T("common.back")))
	return lipgloss.JoinVertical(lipgloss.Left, title, "", dialogBoxStyle.Render(b.String()))
}

func (m *linksModel) deleteConfirmView(title string) string {
	question := specialStyle.Render(i18n.T("links.delete_question", displayShortURL(m.deps.API.ShortLinkURL(m.linkToDelete.Slug()))))
	note := helpStyle.Render(i18n.T("links.delete_note"))

	noBtn := buttonStyle.Render(i18n.T("links.confirm_no"))
	yesBtn := buttonStyle.Render(i18n.T("links.confirm_yes"))
	if m.confirmCursor == 0 {
		noBtn = activeButtonStyle.Render(i18n.T("links.confirm_no"))
	} else {
		yesBtn = activeButtonStyle.Render(i18n.T("links.confirm_yes"))
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, noBtn, "  ", yesBtn)

	dialog := dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, question, note, buttons))
	return lipgloss.JoinVertical(lipgloss.Left, title, "", dialog)
}
