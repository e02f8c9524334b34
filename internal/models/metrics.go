package models

import (
	"math"
	"sort"
)

// CalculateMetrics derives the aggregate metrics for one influencer's video
// set. Pure and deterministic: no side effects, no I/O.
//
// views_now is the maximum view count among the videos, not the views of the
// most recently posted one; see DESIGN.md for the naming discussion.
func CalculateMetrics(videos []Video) Metrics {
	if len(videos) == 0 {
		return Metrics{Platforms: []Platform{}}
	}

	seen := make(map[Platform]struct{}, len(videos))
	platforms := make([]Platform, 0, 4)
	for _, v := range videos {
		if _, ok := seen[v.Platform]; !ok {
			seen[v.Platform] = struct{}{}
			platforms = append(platforms, v.Platform)
		}
	}

	views := make([]int64, len(videos))
	var total int64
	var max int64
	for i, v := range videos {
		views[i] = v.Views
		total += v.Views
		if v.Views > max {
			max = v.Views
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })

	var median int64
	n := len(views)
	if n%2 == 0 {
		mid := float64(views[n/2-1]+views[n/2]) / 2
		median = int64(math.Round(mid))
	} else {
		median = views[n/2]
	}

	return Metrics{
		Platforms:   platforms,
		VideoCount:  n,
		ViewsMedian: median,
		TotalViews:  total,
		ViewsNow:    max,
	}
}
