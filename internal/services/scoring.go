package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// scoreAnswer maps one answer to a raw 0-100 score based on the question
// type. The rules are deliberately coarse heuristics; dimension weighting
// happens in CalculateDimensionScores.
func scoreAnswer(q *Question, value string) float64 {
	switch q.Type {
	case QuestionNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(n) {
			n = 0
		}
		if n > 0 {
			return 75
		}
		return 25
	case QuestionMultipleChoice:
		v := strings.ToLower(value)
		if strings.Contains(v, "yes") || strings.Contains(v, "good") || strings.Contains(v, "excellent") {
			return 80
		}
		return 30
	default:
		// Text and any other type: length baseline plus keyword adjustments.
		// A positive and a negative keyword together cancel out.
		text := strings.ToLower(value)
		score := 40.0
		if len(text) > 20 {
			score = 60
		}
		if strings.Contains(text, "excellent") || strings.Contains(text, "strong") || strings.Contains(text, "good") {
			score += 20
		}
		if strings.Contains(text, "poor") || strings.Contains(text, "weak") || strings.Contains(text, "none") {
			score -= 20
		}
		return math.Min(MaxScore, math.Max(MinScore, score))
	}
}

// CalculateDimensionScores aggregates answers into one weighted-average score
// per dimension. Answers referencing questions absent from the catalog
// contribute nothing. Dimensions appear in the order their first answer does;
// a dimension whose total weight is not positive is dropped rather than
// dividing by zero.
func CalculateDimensionScores(answers []*Answer, questions []*Question) []DimensionScore {
	byID := make(map[string]*Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	totals := map[string]float64{}
	weights := map[string]float64{}
	var order []string

	for _, a := range answers {
		q := byID[a.QuestionID]
		if q == nil {
			continue
		}
		weight := q.Weight
		if weight == 0 {
			weight = 1.0
		}
		if _, seen := totals[q.Dimension]; !seen {
			order = append(order, q.Dimension)
		}
		totals[q.Dimension] += scoreAnswer(q, a.Value) * weight
		weights[q.Dimension] += weight
	}

	out := make([]DimensionScore, 0, len(order))
	for _, dim := range order {
		if weights[dim] <= 0 {
			continue
		}
		out = append(out, DimensionScore{
			Dimension: dim,
			Score:     int(math.Round(totals[dim] / weights[dim])),
		})
	}
	return out
}

// OverallScore is the unweighted mean of the dimension scores, rounded to the
// nearest integer. Callers must ensure at least one dimension exists; with
// none the result is 0.
func OverallScore(scores []DimensionScore) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, ds := range scores {
		sum += ds.Score
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

// GenerateRecommendations emits one prioritized recommendation per dimension
// scoring below the risk thresholds, in the order the scores are given.
func GenerateRecommendations(scores []DimensionScore) []Recommendation {
	recs := []Recommendation{}
	for _, ds := range scores {
		// Only the first space becomes an underscore in the slug.
		slug := strings.Replace(strings.ToLower(ds.Dimension), " ", "_", 1)
		switch {
		case ds.Score < HighRiskThreshold:
			recs = append(recs, Recommendation{
				ID:          slug + "_critical",
				Title:       fmt.Sprintf("Critical: Improve %s", ds.Dimension),
				Description: fmt.Sprintf("Your %s score of %d indicates critical issues that require immediate attention before any transaction.", ds.Dimension, ds.Score),
				Priority:    PriorityCritical,
				Dimension:   ds.Dimension,
				Impact:      "High transaction risk",
				Effort:      EffortHigh,
				Timeline:    "1-3 months",
			})
		case ds.Score < MediumRiskThreshold:
			recs = append(recs, Recommendation{
				ID:          slug + "_important",
				Title:       fmt.Sprintf("Important: Strengthen %s", ds.Dimension),
				Description: fmt.Sprintf("Your %s score of %d shows room for improvement that could impact valuation.", ds.Dimension, ds.Score),
				Priority:    PriorityImportant,
				Dimension:   ds.Dimension,
				Impact:      "Moderate valuation impact",
				Effort:      EffortMedium,
				Timeline:    "3-6 months",
			})
		}
	}
	return recs
}
