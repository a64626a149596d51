package analytics

import (
	"sort"
	"time"
)

// Summary aggregates the retained history for dashboard display.
type Summary struct {
	Queries      int
	CacheHits    int
	CacheHitRate float64
	AvgLatency   time.Duration
	TotalTokens  int64
	TotalCost    float64
	TotalSavings float64
	Models       []ModelCount
}

// ModelCount is the per-model query breakdown, sorted by count
// descending, name ascending on ties.
type ModelCount struct {
	Model   string
	Queries int
}

// Summarize computes dashboard aggregates over the history window.
func Summarize(records []Record) Summary {
	s := Summary{Queries: len(records)}
	if len(records) == 0 {
		return s
	}

	byModel := make(map[string]int)
	var totalLatency time.Duration
	for _, r := range records {
		totalLatency += r.Latency
		if r.CacheHit {
			s.CacheHits++
		}
		s.TotalTokens += r.TotalTokens
		s.TotalCost += r.TotalCost
		s.TotalSavings += r.EstimatedSavings
		byModel[r.ModelUsed]++
	}

	s.CacheHitRate = float64(s.CacheHits) / float64(len(records))
	s.AvgLatency = totalLatency / time.Duration(len(records))

	s.Models = make([]ModelCount, 0, len(byModel))
	for m, n := range byModel {
		s.Models = append(s.Models, ModelCount{Model: m, Queries: n})
	}
	sort.Slice(s.Models, func(i, j int) bool {
		if s.Models[i].Queries != s.Models[j].Queries {
			return s.Models[i].Queries > s.Models[j].Queries
		}
		return s.Models[i].Model < s.Models[j].Model
	})

	return s
}
