package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorValidation   ErrorCode = "validation"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorInvalidState ErrorCode = "invalid_state"
	ErrorDatabase     ErrorCode = "database"
	ErrorInternal     ErrorCode = "internal"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewValidationError(msg string) error { return &ServiceError{Code: ErrorValidation, Message: msg} }
func NewForbiddenError(msg string) error  { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error   { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error   { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &ServiceError{Code: ErrorInvalidState, Message: msg}
}

func NewDatabaseError(msg string) error { return &ServiceError{Code: ErrorDatabase, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AssessmentStore abstracts persistence operations required by AssessmentService.
type AssessmentStore interface {
	GetUser(id string) (*User, error)
	FindUserByEmail(email string) (*User, error)
	InsertAssessment(a *Assessment) (*Assessment, error)
	GetAssessment(id string) (*Assessment, error)
	ListAssessments(filter AssessmentFilter) ([]*Assessment, error)
	ListAnswersByAssessment(assessmentID string) ([]*Answer, error)
	ListQuestions() ([]*Question, error)
	// CompleteAssessment applies the completion update only while the
	// assessment is still in_progress. The bool reports whether the
	// transition happened; false means a concurrent caller won the race or
	// the assessment already left in_progress.
	CompleteAssessment(id string, upd *CompletionUpdate) (*Assessment, bool, error)
}

// CompletionUpdate carries the fields set atomically when an assessment
// transitions to completed.
type CompletionUpdate struct {
	CompletedAt     time.Time
	OverallScore    int
	DimensionScores map[string]int
	Recommendations []Recommendation
}

type CreateAssessmentRequest struct {
	CompanyName  string
	FounderEmail string
	Modules      []Module
}

type CompletionResult struct {
	Assessment      *Assessment
	OverallScore    int
	DimensionScores map[string]int
	Recommendations []Recommendation
}

type AssessmentService struct {
	store AssessmentStore
	now   func() time.Time
	idGen func() string
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Create opens a new in_progress assessment owned by the calling advisor. A
// founder email that matches no founder account is ignored rather than
// rejected; the founder can be linked later.
func (s *AssessmentService) Create(callerID string, req CreateAssessmentRequest) (*Assessment, error) {
	if callerID == "" {
		return nil, NewUnauthorizedError("Authentication required")
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, NewValidationError("Company name is required")
	}
	caller, err := s.store.GetUser(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil || caller.Role != RoleAdvisor {
		return nil, NewForbiddenError("Only advisors can create assessments")
	}

	founderID := ""
	if email := strings.TrimSpace(req.FounderEmail); email != "" {
		founder, err := s.store.FindUserByEmail(email)
		if err != nil {
			return nil, err
		}
		if founder != nil && founder.Role == RoleFounder {
			founderID = founder.ID
		}
	}

	now := s.now()
	a := &Assessment{
		ID:          s.idGen(),
		CompanyName: req.CompanyName,
		AdvisorID:   callerID,
		FounderID:   founderID,
		Status:      StatusInProgress,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.store.InsertAssessment(a)
}

// List returns the assessments visible to the caller under the role policy:
// advisors and founders see their own, admins see everything.
func (s *AssessmentService) List(callerID string) ([]*Assessment, error) {
	if callerID == "" {
		return nil, NewUnauthorizedError("Authentication required")
	}
	caller, err := s.store.GetUser(callerID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, NewNotFoundError("User profile not found")
	}
	return s.store.ListAssessments(ListScope(caller))
}

// Complete runs the scoring engine over the assessment's answers and moves it
// to the completed state. Only the owning advisor may complete. The state
// transition is conditional on the assessment still being in_progress, so two
// concurrent completions cannot both succeed.
func (s *AssessmentService) Complete(callerID, assessmentID string) (*CompletionResult, error) {
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
	caller := &User{ID: callerID}
	if !CanComplete(caller, a) {
		return nil, NewForbiddenError("Only assessment advisor can complete assessment")
	}
	if a.Status != StatusInProgress {
		return nil, NewInvalidStateError("Assessment is not in progress")
	}

	answers, err := s.store.ListAnswersByAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, NewValidationError("No answers found for assessment")
	}
	questions, err := s.store.ListQuestions()
	if err != nil {
		return nil, err
	}

	dimScores := CalculateDimensionScores(answers, questions)
	if len(dimScores) == 0 {
		return nil, NewValidationError("Answers do not reference any known questions")
	}
	overall := OverallScore(dimScores)
	recs := GenerateRecommendations(dimScores)

	byDim := make(map[string]int, len(dimScores))
	for _, ds := range dimScores {
		byDim[ds.Dimension] = ds.Score
	}

	completed, ok, err := s.store.CompleteAssessment(assessmentID, &CompletionUpdate{
		CompletedAt:     s.now(),
		OverallScore:    overall,
		DimensionScores: byDim,
		Recommendations: recs,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewInvalidStateError("Assessment is not in progress")
	}

	return &CompletionResult{
		Assessment:      completed,
		OverallScore:    overall,
		DimensionScores: byDim,
		Recommendations: recs,
	}, nil
}
