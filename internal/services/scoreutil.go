package services

import (
	"math"
	"sort"
	"time"
)

// ScoreLabel buckets a 0-100 score into the product's display bands.
func ScoreLabel(score int) string {
	switch {
	case score >= 80 && score <= 100:
		return "Excellent"
	case score >= 60 && score <= 79:
		return "Good"
	case score >= 40 && score <= 59:
		return "Fair"
	case score >= 0 && score <= 39:
		return "Poor"
	}
	return "Unknown"
}

func IsHighRisk(score int) bool { return score < HighRiskThreshold }

func IsMediumRisk(score int) bool {
	return score >= HighRiskThreshold && score < MediumRiskThreshold
}

// ProgressPercent converts answered/total into a whole percentage.
func ProgressPercent(answered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

// SortRecommendationsByPriority orders Critical first, then Important, then
// Optional, preserving the incoming order within each band.
func SortRecommendationsByPriority(recs []Recommendation) []Recommendation {
	rank := map[Priority]int{PriorityCritical: 0, PriorityImportant: 1, PriorityOptional: 2}
	out := append([]Recommendation(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool { return rank[out[i].Priority] < rank[out[j].Priority] })
	return out
}

// AssessmentDuration returns how long a completed assessment took, or false
// when it has not finished.
func AssessmentDuration(a *Assessment) (time.Duration, bool) {
	if a == nil || a.CompletedAt == nil {
		return 0, false
	}
	return a.CompletedAt.Sub(a.StartedAt), true
}
