// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "github.com/kodalabs/koda/internal/model"

// Trend classifies the dashboard's growth percentage for presentation. It
// has no effect on data correctness.
type Trend int

const (
	TrendNeutral Trend = iota
	TrendPositive
	TrendNegative
)

// ClassifyGrowth maps the sign of the growth percentage to a trend.
func ClassifyGrowth(pct float64) Trend {
	switch {
	case pct > 0:
		return TrendPositive
	case pct < 0:
		return TrendNegative
	default:
		return TrendNeutral
	}
}

// ChartData reshapes the stats series into parallel label and value slices
// for the chart renderer. A nil series yields empty slices rather than an
// error; the dashboard tolerates partial data.
func ChartData(stats model.DashboardStats) (labels []string, values []int) {
	labels = make([]string, 0, len(stats.Series))
	values = make([]int, 0, len(stats.Series))
	for _, p := range stats.Series {
		labels = append(labels, p.Date)
		values = append(values, p.VisitCount)
	}
	return labels, values
}

// MaxValue returns the largest value in the series, used to scale chart
// bars. An empty series returns 0.
func MaxValue(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
