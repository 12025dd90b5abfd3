package services

import (
	"time"

	"github.com/google/uuid"
)

// AnswerStore abstracts persistence operations required by AnswerService.
// UpsertAnswer must be keyed on (assessment_id, question_id): resubmitting
// overwrites the stored value instead of appending history.
type AnswerStore interface {
	GetAssessment(id string) (*Assessment, error)
	GetQuestion(id string) (*Question, error)
	UpsertAnswer(a *Answer) (*Answer, error)
}

type SubmitAnswerRequest struct {
	QuestionID string
	Value      string
	Metadata   map[string]any
}

type AnswerService struct {
	store AnswerStore
	now   func() time.Time
	idGen func() string
}

func NewAnswerService(store AnswerStore) *AnswerService {
	return &AnswerService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Submit records one answer for one question in an in_progress assessment,
// creating or overwriting as needed, and returns the stored answer.
func (s *AnswerService) Submit(callerID, assessmentID string, req SubmitAnswerRequest) (*Answer, error) {
	if callerID == "" {
		return nil, NewUnauthorizedError("Authentication required")
	}
	if req.QuestionID == "" || req.Value == "" {
		return nil, NewValidationError("Question ID and answer value are required")
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
	if a.Status != StatusInProgress {
		return nil, NewInvalidStateError("Cannot modify completed assessment")
	}
	q, err := s.store.GetQuestion(req.QuestionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, NewNotFoundError("Question not found")
	}

	now := s.now()
	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return s.store.UpsertAnswer(&Answer{
		ID:           s.idGen(),
		AssessmentID: assessmentID,
		QuestionID:   req.QuestionID,
		Value:        req.Value,
		Metadata:     metadata,
		CreatedBy:    callerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
