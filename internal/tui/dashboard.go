// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/i18n"
	"github.com/kodalabs/koda/internal/model"
)

// statsLoadedMsg carries one dashboard snapshot. The snapshot replaces the
// previous one wholesale; there is no merging.
type statsLoadedMsg struct {
	stats model.DashboardStats
	err   error
}

// dashboardModel shows the aggregate usage statistics.
type dashboardModel struct {
	deps    Deps
	stats   model.DashboardStats
	spin    spinner.Model
	loading bool
	err     error
}

func newDashboardModel(deps Deps) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedItemStyle
	return dashboardModel{deps: deps, spin: sp, loading: true}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, loadStatsCmd(m.deps.API))
}

func loadStatsCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		stats, err := c.DashboardStats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return m, sessionExpired(msg.err)
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.stats = msg.stats
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return backToMenuMsg{} }
		case "r":
			m.loading = true
			return m, tea.Batch(m.spin.Tick, loadStatsCmd(m.deps.API))
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	title := titleStyle.Render("📊 " + i18n.T("dashboard.title"))

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			m.spin.View()+" "+i18n.T("common.loading"))
	}
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			errorStyle.Render(i18n.T("dashboard.error", m.err)), "",
			helpStyle.Render(i18n.T("common.back")))
	}

	welcome := helpStyle.Render(i18n.T("dashboard.welcome"))

	growth := growthLine(m.stats.VisitsGrowthPct)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard(i18n.T("dashboard.total_links"), fmt.Sprintf("%d", m.stats.TotalLinks), ""),
		" ",
		statCard(i18n.T("dashboard.total_visits"), fmt.Sprintf("%d", m.stats.TotalVisits), growth),
		" ",
		statCard(i18n.T("dashboard.avg_click_rate"), fmt.Sprintf("%.1f", m.stats.AvgClickRate), ""),
	)

	chart := paneStyle.Render(m.chartView())
	footer := helpStyle.Render(i18n.T("dashboard.footer"))

	return lipgloss.JoinVertical(lipgloss.Left, title, welcome, "", cards, "", chart, "", footer)
}

// statCard renders one metric box. change may be empty.
func statCard(label, value, change string) string {
	lines := []string{helpStyle.Render(label), lipgloss.NewStyle().Bold(true).Render(value)}
	if change != "" {
		lines = append(lines, change)
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// growthLine renders the week-over-week change, styled by its trend. The
// classification is purely presentational.
func growthLine(pct float64) string {
	switch core.ClassifyGrowth(pct) {
	case core.TrendPositive:
		return successStyle.Render(i18n.T("dashboard.growth_positive", pct))
	case core.TrendNegative:
		return errorStyle.Render(i18n.T("dashboard.growth_negative", pct))
	default:
		return helpStyle.Render(i18n.T("dashboard.growth_neutral"))
	}
}

// chartView renders the visit series as horizontal bars, one row per day.
func (m dashboardModel) chartView() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(i18n.T("dashboard.chart_title")) + "\n\n")

	labels, values := core.ChartData(m.stats)
	if len(values) == 0 {
		b.WriteString(helpStyle.Render(i18n.T("dashboard.no_series")))
		return b.String()
	}

	const barWidth = 40
	maxVal := core.MaxValue(values)
	for i, v := range values {
		bar := 0
		if maxVal > 0 {
			bar = v * barWidth / maxVal
		}
		b.WriteString(fmt.Sprintf("%-10s %s %d\n",
			labels[i],
			selectedItemStyle.Render(strings.Repeat("█", bar)),
			v))
	}
	return b.String()
}
