package api

import "github.com/cispa-hq/cispa/internal/services"

type assessmentStoreAdapter struct {
	store Store
}

func newAssessmentStoreAdapter(store Store) services.AssessmentStore {
	return &assessmentStoreAdapter{store: store}
}

func (a *assessmentStoreAdapter) GetUser(id string) (*services.User, error) {
	u, err := a.store.GetUser(id)
	if err != nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *assessmentStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *assessmentStoreAdapter) InsertAssessment(sa *services.Assessment) (*services.Assessment, error) {
	stored, err := a.store.InsertAssessment(convertServiceAssessment(sa))
	if err != nil {
		return nil, err
	}
	return convertAPIAssessment(stored), nil
}

func (a *assessmentStoreAdapter) GetAssessment(id string) (*services.Assessment, error) {
	got, err := a.store.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	return convertAPIAssessment(got), nil
}

func (a *assessmentStoreAdapter) ListAssessments(filter services.AssessmentFilter) ([]*services.Assessment, error) {
	rows, err := a.store.ListAssessments(filter.AdvisorID, filter.FounderID)
	if err != nil {
		return nil, err
	}
	out := make([]*services.Assessment, 0, len(rows))
	for _, row := range rows {
		out = append(out, convertAPIAssessment(row))
	}
	return out, nil
}

func (a *assessmentStoreAdapter) ListAnswersByAssessment(assessmentID string) ([]*services.Answer, error) {
	rows, err := a.store.ListAnswersByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	return convertAPIAnswers(rows), nil
}

func (a *assessmentStoreAdapter) ListQuestions() ([]*services.Question, error) {
	rows, err := a.store.ListQuestions()
	if err != nil {
		return nil, err
	}
	return convertAPIQuestions(rows), nil
}

func (a *assessmentStoreAdapter) CompleteAssessment(id string, upd *services.CompletionUpdate) (*services.Assessment, bool, error) {
	stored, ok, err := a.store.CompleteAssessment(id, &CompletionUpdate{
		CompletedAt:     upd.CompletedAt,
		OverallScore:    upd.OverallScore,
		DimensionScores: upd.DimensionScores,
		Recommendations: convertServiceRecommendations(upd.Recommendations),
	})
	if err != nil || !ok {
		return nil, ok, err
	}
	return convertAPIAssessment(stored), true, nil
}

var _ services.AssessmentStore = (*assessmentStoreAdapter)(nil)
