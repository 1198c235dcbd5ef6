package progress

import (
	"math"
	"sort"
	"time"
)

// distributionPalette is the fixed 8-entry color palette; slices are
// assigned cyclically by sorted position.
var distributionPalette = [8]string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#9c755f",
}

// Distribution is the body-part volume share over a time window, sorted
// descending by accumulated volume.
type Distribution struct {
	Labels      []string  `json:"labels"`
	Data        []float64 `json:"data"`
	Percentages []int     `json:"percentages"`
	Colors      []string  `json:"colors"`
	Total       float64   `json:"total"`
}

// BuildDistribution sums session volume per body part across the aggregated
// progress map, restricted to sessions passing the time-range cutoff.
func BuildDistribution(entries map[Key]*Entry, tr TimeRange, now time.Time) *Distribution {
	cutoff := tr.Cutoff(now)

	volumes := make(map[string]float64)
	for _, entry := range entries {
		for _, s := range entry.Sessions {
			if cutoff != "" && s.Date < cutoff {
				continue
			}
			volumes[entry.BodyPart] += s.TotalVolume
		}
	}

	labels := make([]string, 0, len(volumes))
	for bp := range volumes {
		labels = append(labels, bp)
	}
	sort.Slice(labels, func(i, j int) bool {
		if volumes[labels[i]] != volumes[labels[j]] {
			return volumes[labels[i]] > volumes[labels[j]]
		}
		return labels[i] < labels[j]
	})

	dist := &Distribution{
		Labels:      labels,
		Data:        make([]float64, len(labels)),
		Percentages: make([]int, len(labels)),
		Colors:      make([]string, len(labels)),
	}
	for _, v := range volumes {
		dist.Total += v
	}
	for i, bp := range labels {
		dist.Data[i] = volumes[bp]
		if dist.Total > 0 {
			dist.Percentages[i] = int(math.Round(volumes[bp] / dist.Total * 100))
		}
		dist.Colors[i] = distributionPalette[i%len(distributionPalette)]
	}

	return dist
}
