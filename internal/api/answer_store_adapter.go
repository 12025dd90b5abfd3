package api

import "github.com/cispa-hq/cispa/internal/services"

type answerStoreAdapter struct {
	store Store
}

func newAnswerStoreAdapter(store Store) services.AnswerStore {
	return &answerStoreAdapter{store: store}
}

func (a *answerStoreAdapter) GetAssessment(id string) (*services.Assessment, error) {
	got, err := a.store.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	return convertAPIAssessment(got), nil
}

func (a *answerStoreAdapter) GetQuestion(id string) (*services.Question, error) {
	got, err := a.store.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	return convertAPIQuestion(got), nil
}

func (a *answerStoreAdapter) UpsertAnswer(ans *services.Answer) (*services.Answer, error) {
	stored, err := a.store.UpsertAnswer(convertServiceAnswer(ans))
	if err != nil {
		return nil, err
	}
	return convertAPIAnswer(stored), nil
}

var _ services.AnswerStore = (*answerStoreAdapter)(nil)
