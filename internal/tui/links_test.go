// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kodalabs/koda/internal/api"
	"github.com/kodalabs/koda/internal/auth"
	"github.com/kodalabs/koda/internal/core"
	"github.com/kodalabs/koda/internal/model"
	"github.com/kodalabs/koda/internal/session"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.yaml"))
	client := api.New("http://localhost:0", "/api/v1", store.AccessToken)
	return Deps{
		API:     client,
		Auth:    auth.NewController(store, client),
		Session: store,
	}
}

func testLinks(n int) []model.Link {
	links := make([]model.Link, 0, n)
	for i := 1; i <= n; i++ {
		status := model.StatusActive
		if i%5 == 0 {
			status = model.StatusInactive
		}
		links = append(links, model.Link{
			ShortURL:    fmt.Sprintf("https://koda.example/slug%02d", i),
			OriginalURL: fmt.Sprintf("https://target.example/%d", i),
			Status:      status,
		})
	}
	return links
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds one message through Update and returns the concrete model.
func step(t *testing.T, m *linksModel, msg tea.Msg) (*linksModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	lm, ok := next.(*linksModel)
	if !ok {
		t.Fatalf("Update returned %T, want *linksModel", next)
	}
	return lm, cmd
}

func loadedLinksModel(t *testing.T, n int) *linksModel {
	t.Helper()
	m := newLinksModel(testDeps(t))
	lm, _ := step(t, &m, linksLoadedMsg{links: testLinks(n)})
	return lm
}

func TestLinksLoadPaginates(t *testing.T) {
	m := loadedLinksModel(t, 25)

	if m.loading {
		t.Error("still loading after linksLoadedMsg")
	}
	if m.page.Filtered != 25 || m.page.TotalPages != 3 {
		t.Fatalf("filtered=%d pages=%d, want 25/3", m.page.Filtered, m.page.TotalPages)
	}
	if got := len(m.table.Rows()); got != core.PageSize {
		t.Errorf("table shows %d rows, want %d", got, core.PageSize)
	}
}

func TestLinksPageNavigation(t *testing.T) {
	m := loadedLinksModel(t, 25)

	m, _ = step(t, m, key("l"))
	m, _ = step(t, m, key("l"))
	if m.view.Page != 3 {
		t.Fatalf("page = %d after two next, want 3", m.view.Page)
	}
	if got := len(m.table.Rows()); got != 5 {
		t.Errorf("last page shows %d rows, want 5", got)
	}

	// Clamped at the last page.
	m, _ = step(t, m, key("l"))
	if m.view.Page != 3 {
		t.Errorf("page = %d after next on last page", m.view.Page)
	}

	m, _ = step(t, m, key("h"))
	if m.view.Page != 2 {
		t.Errorf("page = %d after prev, want 2", m.view.Page)
	}
}

func TestLinksFilterTyping(t *testing.T) {
	m := loadedLinksModel(t, 25)
	m.view.Page = 3
	m.rebuildTable()

	m, _ = step(t, m, key("/"))
	if !m.isFiltering {
		t.Fatal("/ did not enter filter mode")
	}
	m, _ = step(t, m, key("slug0"))
	if m.page.Filtered != 9 {
		t.Errorf("query slug0 matched %d links, want 9", m.page.Filtered)
	}
	if m.view.Page != 1 {
		t.Errorf("page = %d, query change must reset to 1", m.view.Page)
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.isFiltering {
		t.Error("enter did not confirm the filter")
	}
	if m.view.Query != "slug0" {
		t.Errorf("query = %q after confirm", m.view.Query)
	}

	// Esc in filter mode clears the query entirely.
	m, _ = step(t, m, key("/"))
	m, _ = step(t, m, key("x"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view.Query != "" || m.page.Filtered != 25 {
		t.Errorf("esc left query=%q filtered=%d", m.view.Query, m.page.Filtered)
	}
}

func TestLinksStatusCycle(t *testing.T) {
	m := loadedLinksModel(t, 25)
	m.view.Page = 2
	m.rebuildTable()

	m, _ = step(t, m, key("f"))
	if m.view.Status != core.FilterActive {
		t.Fatalf("status = %q after f, want active", m.view.Status)
	}
	if m.page.Filtered != 20 {
		t.Errorf("active filter matched %d links, want 20", m.page.Filtered)
	}
	if m.view.Page != 1 {
		t.Errorf("page = %d, status change must reset to 1", m.view.Page)
	}

	m, _ = step(t, m, key("f"))
	if m.view.Status != core.FilterInactive || m.page.Filtered != 5 {
		t.Errorf("status = %q filtered = %d, want inactive/5", m.view.Status, m.page.Filtered)
	}
}

func TestLinksDeleteDefaultsToNo(t *testing.T) {
	m := loadedLinksModel(t, 5)

	m, _ = step(t, m, key("d"))
	if !m.isConfirmingDelete || m.confirmCursor != 0 {
		t.Fatalf("confirm state=%v cursor=%d, want open with No selected", m.isConfirmingDelete, m.confirmCursor)
	}

	// Enter on the default answer cancels without issuing a delete.
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("cancelled delete produced a command")
	}
	if m.isConfirmingDelete {
		t.Error("confirm dialog still open after cancel")
	}
}

func TestLinksDeleteConfirmIssuesCommand(t *testing.T) {
	m := loadedLinksModel(t, 5)

	m, _ = step(t, m, key("d"))
	m, cmd := step(t, m, key("y"))
	if cmd == nil {
		t.Error("confirmed delete produced no command")
	}
	if m.isConfirmingDelete {
		t.Error("confirm dialog still open after yes")
	}
}

func TestLinksEditSuccessRefetches(t *testing.T) {
	m := loadedLinksModel(t, 5)
	m.isEditing = true

	m, cmd := step(t, m, linkUpdatedMsg{})
	if m.isEditing {
		t.Error("edit form still open after successful save")
	}
	if !m.loading || cmd == nil {
		t.Error("successful save must trigger a collection re-fetch")
	}
}

func TestLinksEditFailureKeepsFormOpen(t *testing.T) {
	m := loadedLinksModel(t, 5)
	m.isEditing = true

	m, _ = step(t, m, linkUpdatedMsg{err: &api.Error{StatusCode: 409, Message: "slug already taken"}})
	if !m.isEditing {
		t.Error("edit form closed on failure")
	}
	if m.editErr == "" {
		t.Error("failure message not surfaced")
	}
}

func TestLinksUnauthorizedForcesSignOut(t *testing.T) {
	m := newLinksModel(testDeps(t))
	_, cmd := step(t, &m, linksLoadedMsg{err: api.ErrUnauthorized})
	if cmd == nil {
		t.Fatal("unauthorized load produced no command")
	}
	if _, ok := cmd().(sessionExpiredMsg); !ok {
		t.Error("unauthorized load did not route to the session-expired message")
	}
}

func TestLinksEditOpensPrefilled(t *testing.T) {
	m := loadedLinksModel(t, 5)

	m, _ = step(t, m, key("e"))
	if !m.isEditing {
		t.Fatal("e did not open the edit form")
	}
	if got := m.editInputs[0].Value(); got != "https://target.example/1" {
		t.Errorf("destination prefill = %q", got)
	}
	if got := m.editInputs[1].Placeholder; got != "slug01" {
		t.Errorf("slug placeholder = %q", got)
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.isEditing {
		t.Error("esc did not close the edit form")
	}
}
