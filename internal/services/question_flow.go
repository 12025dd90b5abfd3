package services

// QuestionFlowStore abstracts persistence operations required by
// QuestionFlowService. ListQuestionsByModule returns questions in catalog
// creation order; a missing question is a nil result, never an error.
type QuestionFlowStore interface {
	GetAssessment(id string) (*Assessment, error)
	ListAnswersByAssessment(assessmentID string) ([]*Answer, error)
	ListQuestionsByModule(module Module) ([]*Question, error)
	CountQuestionsByModule(module Module) (int, error)
}

type NextQuestionResult struct {
	Question  *Question
	Completed bool
	Progress  Progress
}

// QuestionFlowService drives the phased questionnaire: core questions first,
// then the optional modules in product order.
type QuestionFlowService struct {
	store QuestionFlowStore
}

func NewQuestionFlowService(store QuestionFlowStore) *QuestionFlowService {
	return &QuestionFlowService{store: store}
}

// NextQuestion picks the oldest unanswered core question, falling back to the
// optional modules (marketing, then technology, then investor). When every
// catalog question has an answer the assessment is reported completed, with
// progress totalled at the answered count.
func (s *QuestionFlowService) NextQuestion(callerID, assessmentID string) (*NextQuestionResult, error) {
	if callerID == "" {
		return nil, NewUnauthorizedError("Authentication required")
	}
	a, err := s.store.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("Assessment not found")
	}
	if !CanView(&User{ID: callerID}, a) {
		return nil, NewForbiddenError("Access denied")
	}

	answers, err := s.store.ListAnswersByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	answered := make(map[string]bool, len(answers))
	for _, ans := range answers {
		answered[ans.QuestionID] = true
	}

	next, err := s.firstUnanswered(ModuleCore, answered)
	if err != nil {
		return nil, err
	}
	if next == nil {
		for _, mod := range OptionalModules {
			next, err = s.firstUnanswered(mod, answered)
			if err != nil {
				return nil, err
			}
			if next != nil {
				break
			}
		}
	}

	if next == nil {
		return &NextQuestionResult{
			Completed: true,
			Progress:  Progress{Answered: len(answered), Total: len(answered)},
		}, nil
	}

	total, err := s.store.CountQuestionsByModule(ModuleCore)
	if err != nil || total == 0 {
		total = CoreQuestionCount
	}
	return &NextQuestionResult{
		Question: next,
		Progress: Progress{Answered: len(answered), Total: total},
	}, nil
}

// firstUnanswered scans a module in creation order. An empty answered set
// excludes nothing.
func (s *QuestionFlowService) firstUnanswered(mod Module, answered map[string]bool) (*Question, error) {
	qs, err := s.store.ListQuestionsByModule(mod)
	if err != nil {
		return nil, err
	}
	for _, q := range qs {
		if !answered[q.ID] {
			return q, nil
		}
	}
	return nil, nil
}
