// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"testing"

	"github.com/kodalabs/koda/internal/model"
)

func TestClassifyGrowth(t *testing.T) {
	cases := []struct {
		pct  float64
		want Trend
	}{
		{12.5, TrendPositive},
		{-3.2, TrendNegative},
		{0, TrendNeutral},
	}
	for _, c := range cases {
		if got := ClassifyGrowth(c.pct); got != c.want {
			t.Errorf("ClassifyGrowth(%v) = %v, want %v", c.pct, got, c.want)
		}
	}
}

func TestChartData(t *testing.T) {
	stats := model.DashboardStats{
		Series: []model.VisitPoint{
			{Date: "2025-06-01", VisitCount: 3},
			{Date: "2025-06-02", VisitCount: 7},
		},
	}
	labels, values := ChartData(stats)
	if len(labels) != 2 || len(values) != 2 {
		t.Fatalf("got %d labels and %d values, want 2 each", len(labels), len(values))
	}
	if labels[1] != "2025-06-02" || values[1] != 7 {
		t.Errorf("second point = %q/%d, want 2025-06-02/7", labels[1], values[1])
	}
}

func TestChartDataNilSeries(t *testing.T) {
	labels, values := ChartData(model.DashboardStats{})
	if len(labels) != 0 || len(values) != 0 {
		t.Errorf("nil series gave %d labels and %d values", len(labels), len(values))
	}
}

func TestMaxValue(t *testing.T) {
	if got := MaxValue([]int{2, 9, 4}); got != 9 {
		t.Errorf("MaxValue = %d, want 9", got)
	}
	if got := MaxValue(nil); got != 0 {
		t.Errorf("MaxValue(nil) = %d, want 0", got)
	}
}
