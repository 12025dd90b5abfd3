package api

import "github.com/cispa-hq/cispa/internal/services"

type questionFlowAdapter struct {
	store Store
}

func newQuestionFlowAdapter(store Store) services.QuestionFlowStore {
	return &questionFlowAdapter{store: store}
}

func (a *questionFlowAdapter) GetAssessment(id string) (*services.Assessment, error) {
	got, err := a.store.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	return convertAPIAssessment(got), nil
}

func (a *questionFlowAdapter) ListAnswersByAssessment(assessmentID string) ([]*services.Answer, error) {
	rows, err := a.store.ListAnswersByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	return convertAPIAnswers(rows), nil
}

func (a *questionFlowAdapter) ListQuestionsByModule(mod services.Module) ([]*services.Question, error) {
	rows, err := a.store.ListQuestionsByModule(string(mod))
	if err != nil {
		return nil, err
	}
	return convertAPIQuestions(rows), nil
}

func (a *questionFlowAdapter) CountQuestionsByModule(mod services.Module) (int, error) {
	return a.store.CountQuestionsByModule(string(mod))
}

var _ services.QuestionFlowStore = (*questionFlowAdapter)(nil)
