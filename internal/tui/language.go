// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/config"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/logging"
)

// languageModel holds the state for the language selection menu.
type languageModel struct {
	cfg         *config.Config
	choices     map[string]string // map of lang code to display name
	orderedKeys []string          // for stable iteration
	cursor      int
}

func newLanguageModel(cfg *config.Config) languageModel {
	choices := i18n.GetAvailableLocales()
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := languageModel{cfg: cfg, choices: choices, orderedKeys: keys}
	for i, k := range keys {
		if k == i18n.GetLang() {
			m.cursor = i
		}
	}
	return m
}

func (m languageModel) Init() tea.Cmd {
	return nil
}

func (m languageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.orderedKeys)-1 {
				m.cursor++
			}
		case "enter":
			langCode := m.orderedKeys[m.cursor]
			i18n.SetLang(langCode)
			m.cfg.Language = langCode
			if err := config.WriteFile(m.cfg, false); err != nil {
				logging.Warnf("could not persist language choice: %v", err)
			}
			// Signal that the language changed so the whole UI re-renders
			// with new translations.
			return m, func() tea.Msg { return languageChangedMsg{} }
		}
	}
	return m, nil
}

func (m languageModel) View() string {
	title := titleStyle.Render("🌐 " + i18n.T("language.title"))

	var items []string
	for i, key := range m.orderedKeys {
		line := fmt.Sprintf("%s (%s)", m.choices[key], key)
		if m.cursor == i {
			items = append(items, selectedItemStyle.Render("▸ "+line))
		} else {
			items = append(items, itemStyle.Render("  "+line))
		}
	}
	pane := paneStyle.Width(36).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
	footer := helpStyle.Render(i18n.T("language.footer"))

	return lipgloss.JoinVertical(lipgloss.Left, title, "", pane, "", footer)
}
