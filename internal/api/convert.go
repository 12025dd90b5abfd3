package api

import "github.com/cispa-hq/cispa/internal/services"

func convertAPIUser(u *User) *services.User {
	if u == nil {
		return nil
	}
	return &services.User{
		ID:          u.ID,
		Email:       u.Email,
		Role:        services.Role(u.Role),
		CompanyName: u.CompanyName,
		PassHash:    u.PassHash,
		CreatedAt:   u.CreatedAt,
	}
}

func convertServiceUser(u *services.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		Role:        string(u.Role),
		CompanyName: u.CompanyName,
		PassHash:    u.PassHash,
		CreatedAt:   u.CreatedAt,
	}
}

func convertAPIAssessment(a *Assessment) *services.Assessment {
	if a == nil {
		return nil
	}
	return &services.Assessment{
		ID:              a.ID,
		CompanyName:     a.CompanyName,
		AdvisorID:       a.AdvisorID,
		FounderID:       a.FounderID,
		Status:          services.AssessmentStatus(a.Status),
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
		OverallScore:    a.OverallScore,
		DimensionScores: a.DimensionScores,
		Recommendations: convertAPIRecommendations(a.Recommendations),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func convertServiceAssessment(a *services.Assessment) *Assessment {
	if a == nil {
		return nil
	}
	return &Assessment{
		ID:              a.ID,
		CompanyName:     a.CompanyName,
		AdvisorID:       a.AdvisorID,
		FounderID:       a.FounderID,
		Status:          string(a.Status),
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
		OverallScore:    a.OverallScore,
		DimensionScores: a.DimensionScores,
		Recommendations: convertServiceRecommendations(a.Recommendations),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func convertAPIQuestion(q *Question) *services.Question {
	if q == nil {
		return nil
	}
	return &services.Question{
		ID:        q.ID,
		Text:      q.Text,
		Type:      services.QuestionType(q.Type),
		Dimension: q.Dimension,
		Module:    services.Module(q.Module),
		Weight:    q.Weight,
		Branching: q.Branching,
		CreatedAt: q.CreatedAt,
	}
}

func convertServiceQuestion(q *services.Question) *Question {
	if q == nil {
		return nil
	}
	return &Question{
		ID:        q.ID,
		Text:      q.Text,
		Type:      string(q.Type),
		Dimension: q.Dimension,
		Module:    string(q.Module),
		Weight:    q.Weight,
		Branching: q.Branching,
		CreatedAt: q.CreatedAt,
	}
}

func convertAPIQuestions(qs []*Question) []*services.Question {
	out := make([]*services.Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, convertAPIQuestion(q))
	}
	return out
}

func convertAPIAnswer(a *Answer) *services.Answer {
	if a == nil {
		return nil
	}
	return &services.Answer{
		ID:           a.ID,
		AssessmentID: a.AssessmentID,
		QuestionID:   a.QuestionID,
		Value:        a.Value,
		Metadata:     a.Metadata,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func convertServiceAnswer(a *services.Answer) *Answer {
	if a == nil {
		return nil
	}
	return &Answer{
		ID:           a.ID,
		AssessmentID: a.AssessmentID,
		QuestionID:   a.QuestionID,
		Value:        a.Value,
		Metadata:     a.Metadata,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func convertAPIAnswers(as []*Answer) []*services.Answer {
	out := make([]*services.Answer, 0, len(as))
	for _, a := range as {
		out = append(out, convertAPIAnswer(a))
	}
	return out
}

func convertAPIRecommendations(rs []Recommendation) []services.Recommendation {
	if rs == nil {
		return nil
	}
	out := make([]services.Recommendation, 0, len(rs))
	for _, r := range rs {
		out = append(out, services.Recommendation{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Priority:    services.Priority(r.Priority),
			Dimension:   r.Dimension,
			Impact:      r.Impact,
			Effort:      services.Effort(r.Effort),
			Timeline:    r.Timeline,
		})
	}
	return out
}

func convertServiceRecommendations(rs []services.Recommendation) []Recommendation {
	if rs == nil {
		return nil
	}
	out := make([]Recommendation, 0, len(rs))
	for _, r := range rs {
		out = append(out, Recommendation{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Priority:    string(r.Priority),
			Dimension:   r.Dimension,
			Impact:      r.Impact,
			Effort:      string(r.Effort),
			Timeline:    r.Timeline,
		})
	}
	return out
}
