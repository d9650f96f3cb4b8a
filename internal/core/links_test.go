// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"
	"testing"

	"github.com/kodalabs/koda/internal/model"
)

func makeLinks(n int) []model.Link {
	links := make([]model.Link, 0, n)
	for i := 1; i <= n; i++ {
		status := model.StatusActive
		if i%2 == 0 {
			status = model.StatusInactive
		}
		links = append(links, model.Link{
			ShortURL:    fmt.Sprintf("https://koda.example/link%02d", i),
			OriginalURL: fmt.Sprintf("https://target.example/page/%d", i),
			Status:      status,
		})
	}
	return links
}

func TestFilterLinksQuery(t *testing.T) {
	links := []model.Link{
		{ShortURL: "https://koda.example/abc123", OriginalURL: "https://example.com/docs"},
		{ShortURL: "https://koda.example/xyz789", OriginalURL: "https://other.net/ABC/page"},
		{ShortURL: "https://koda.example/plain", OriginalURL: "https://nothing.io"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"abc", 2},   // matches slug of first, original URL of second
		{"ABC", 2},   // case-insensitive
		{"xyz789", 1},
		{"missing", 0},
	}
	for _, c := range cases {
		got := FilterLinks(links, c.query, FilterAll)
		if len(got) != c.want {
			t.Errorf("FilterLinks(%q) returned %d links, want %d", c.query, len(got), c.want)
		}
	}
}

func TestFilterLinksStatus(t *testing.T) {
	links := makeLinks(10)

	if got := FilterLinks(links, "", FilterActive); len(got) != 5 {
		t.Errorf("active filter returned %d links, want 5", len(got))
	}
	if got := FilterLinks(links, "", FilterInactive); len(got) != 5 {
		t.Errorf("inactive filter returned %d links, want 5", len(got))
	}
	if got := FilterLinks(links, "", FilterAll); len(got) != 10 {
		t.Errorf("all filter returned %d links, want 10", len(got))
	}
}

func TestFilterLinksRunsAgainstFullSet(t *testing.T) {
	links := makeLinks(10)

	// A narrow query followed by a broader one must re-match everything,
	// not just the previous result.
	first := FilterLinks(links, "link01", FilterAll)
	if len(first) != 1 {
		t.Fatalf("narrow query returned %d links, want 1", len(first))
	}
	second := FilterLinks(links, "link", FilterAll)
	if len(second) != 10 {
		t.Errorf("broad query after narrow returned %d links, want 10", len(second))
	}
}

func TestApplyPaging(t *testing.T) {
	links := makeLinks(25)
	v := NewListView()

	res := v.Apply(links)
	if res.Filtered != 25 || res.TotalPages != 3 {
		t.Fatalf("got filtered=%d pages=%d, want 25 and 3", res.Filtered, res.TotalPages)
	}
	if len(res.Items) != 10 || res.Start != 1 || res.End != 10 {
		t.Errorf("page 1: items=%d start=%d end=%d, want 10/1/10", len(res.Items), res.Start, res.End)
	}

	v.NextPage(links)
	v.NextPage(links)
	res = v.Apply(links)
	if v.Page != 3 {
		t.Fatalf("page = %d after two NextPage, want 3", v.Page)
	}
	if len(res.Items) != 5 || res.Start != 21 || res.End != 25 {
		t.Errorf("page 3: items=%d start=%d end=%d, want 5/21/25", len(res.Items), res.Start, res.End)
	}
	if got := res.Items[0].Slug(); got != "link21" {
		t.Errorf("first item on page 3 = %q, want link21", got)
	}

	// Already on the last page; advancing must not move.
	v.NextPage(links)
	if v.Page != 3 {
		t.Errorf("NextPage past the end moved to page %d", v.Page)
	}
}

func TestApplyClampsAfterShrink(t *testing.T) {
	links := makeLinks(25)
	v := NewListView()
	v.Page = 3

	// Deleting down to 20 links removes page 3 entirely.
	res := v.Apply(links[:20])
	if v.Page != 2 {
		t.Errorf("page = %d after shrink, want clamp to 2", v.Page)
	}
	if res.TotalPages != 2 || res.Start != 11 || res.End != 20 {
		t.Errorf("got pages=%d start=%d end=%d, want 2/11/20", res.TotalPages, res.Start, res.End)
	}
}

func TestApplyEmptyResult(t *testing.T) {
	v := NewListView()
	v.SetQuery("nomatch")
	res := v.Apply(makeLinks(5))
	if res.Filtered != 0 || res.TotalPages != 0 || len(res.Items) != 0 {
		t.Errorf("empty match: filtered=%d pages=%d items=%d", res.Filtered, res.TotalPages, len(res.Items))
	}
}

func TestQueryAndStatusChangesResetPage(t *testing.T) {
	v := NewListView()
	v.Page = 3

	v.SetQuery("x")
	if v.Page != 1 {
		t.Errorf("page = %d after query change, want 1", v.Page)
	}

	v.Page = 3
	v.SetQuery("x") // unchanged query keeps the page
	if v.Page != 3 {
		t.Errorf("page = %d after identical query, want 3", v.Page)
	}

	v.SetStatus(FilterActive)
	if v.Page != 1 {
		t.Errorf("page = %d after status change, want 1", v.Page)
	}
}

func TestCycleStatus(t *testing.T) {
	v := NewListView()
	want := []StatusFilter{FilterActive, FilterInactive, FilterAll, FilterActive}
	for i, w := range want {
		v.CycleStatus()
		if v.Status != w {
			t.Fatalf("cycle %d: status = %q, want %q", i+1, v.Status, w)
		}
	}
}

func TestPrevPageFloor(t *testing.T) {
	v := NewListView()
	v.PrevPage()
	if v.Page != 1 {
		t.Errorf("PrevPage below 1 gave page %d", v.Page)
	}
}
