// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package core contains the pure domain logic behind the TUI views:
// client-side link filtering and pagination, dashboard reshaping and
// profile validation. Nothing in this package performs I/O.
package core

import (
	"strings"

	"github.com/kodalabs/koda/internal/model"
)

// PageSize is the fixed number of links shown per page.
const PageSize = 10

// StatusFilter narrows the link list by activation state.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterInactive StatusFilter = "inactive"
)

// ContainsIgnoreCase reports whether substr occurs in s, ignoring case.
func ContainsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FilterLinks returns the links matching the query and status filter. A link
// matches the query when it is a case-insensitive substring of either the
// slug or the original URL. Filtering always runs against the full fetched
// set, never against a previously filtered subset.
func FilterLinks(links []model.Link, query string, status StatusFilter) []model.Link {
	out := make([]model.Link, 0, len(links))
	for _, l := range links {
		if query != "" &&
			!ContainsIgnoreCase(l.Slug(), query) &&
			!ContainsIgnoreCase(l.OriginalURL, query) {
			continue
		}
		switch status {
		case FilterActive:
			if l.Status != model.StatusActive {
				continue
			}
		case FilterInactive:
			if l.Status != model.StatusInactive {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// ListView is the derived view state over the unfiltered link collection.
// It is never sent to the server.
type ListView struct {
	Query  string
	Status StatusFilter
	Page   int // 1-based
}

// NewListView returns a view showing everything, starting on page 1.
func NewListView() ListView {
	return ListView{Status: FilterAll, Page: 1}
}

// SetQuery updates the search query. Any change resets the page to 1 so the
// view cannot land on an out-of-range page.
func (v *ListView) SetQuery(q string) {
	if v.Query != q {
		v.Query = q
		v.Page = 1
	}
}

// SetStatus updates the status filter and resets the page to 1 on change.
func (v *ListView) SetStatus(s StatusFilter) {
	if v.Status != s {
		v.Status = s
		v.Page = 1
	}
}

// CycleStatus advances all -> active -> inactive -> all.
func (v *ListView) CycleStatus() {
	switch v.Status {
	case FilterAll:
		v.SetStatus(FilterActive)
	case FilterActive:
		v.SetStatus(FilterInactive)
	default:
		v.SetStatus(FilterAll)
	}
}

// Page result bounds are 1-based and inclusive, for "Showing X to Y of Z".
type PageResult struct {
	Items      []model.Link
	Filtered   int
	TotalPages int
	Start, End int
}

// Apply filters the full collection and slices out the current page. When
// the current page exceeds the page count (e.g. after a deletion shrank the
// set) it is clamped to the last page.
func (v *ListView) Apply(all []model.Link) PageResult {
	filtered := FilterLinks(all, v.Query, v.Status)
	total := pageCount(len(filtered))

	if v.Page < 1 {
		v.Page = 1
	}
	if total > 0 && v.Page > total {
		v.Page = total
	}

	res := PageResult{Filtered: len(filtered), TotalPages: total}
	if len(filtered) == 0 {
		return res
	}

	start := (v.Page - 1) * PageSize
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Items = filtered[start:end]
	res.Start = start + 1
	res.End = end
	return res
}

// NextPage advances one page, clamped to the page count for the given
// collection.
func (v *ListView) NextPage(all []model.Link) {
	total := pageCount(len(FilterLinks(all, v.Query, v.Status)))
	if v.Page < total {
		v.Page++
	}
}

// PrevPage goes back one page, never below 1.
func (v *ListView) PrevPage() {
	if v.Page > 1 {
		v.Page--
	}
}

func pageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}
