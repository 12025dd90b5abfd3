package api

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyName string    `json:"company_name,omitempty"`
	PassHash    []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type Assessment struct {
	ID              string           `json:"id"`
	CompanyName     string           `json:"company_name"`
	AdvisorID       string           `json:"advisor_id"`
	FounderID       string           `json:"founder_id,omitempty"`
	Status          string           `json:"status"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	OverallScore    *int             `json:"overall_readiness_score,omitempty"`
	DimensionScores map[string]int   `json:"dimension_scores,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type Question struct {
	ID        string         `json:"id"`
	Text      string         `json:"question_text"`
	Type      string         `json:"question_type"`
	Dimension string         `json:"dimension"`
	Module    string         `json:"module"`
	Weight    float64        `json:"weight"`
	Branching map[string]any `json:"branching_conditions,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Answer struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessment_id"`
	QuestionID   string         `json:"question_id"`
	Value        string         `json:"answer_value"`
	Metadata     map[string]any `json:"answer_metadata,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type Recommendation struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Dimension   string `json:"dimension"`
	Impact      string `json:"impact"`
	Effort      string `json:"effort"`
	Timeline    string `json:"timeline"`
}

// CompletionUpdate carries the fields applied when an assessment moves to
// completed. The store applies it only while the row is still in_progress.
type CompletionUpdate struct {
	CompletedAt     time.Time
	OverallScore    int
	DimensionScores map[string]int
	Recommendations []Recommendation
}

type memoryStore struct {
	mu            sync.RWMutex
	users         map[string]*User
	usersByEmail  map[string]*User
	assessments   map[string]*Assessment
	questions     map[string]*Question
	questionOrder []string           // catalog creation order
	answers       map[string]*Answer // keyed by (assessment_id, question_id)
	answerOrder   map[string][]string
}

// NewMemoryStore returns a Store backed by process memory, used in tests and
// as the dev default when no database path is configured.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*User{},
		usersByEmail: map[string]*User{},
		assessments:  map[string]*Assessment{},
		questions:    map[string]*Question{},
		answers:      map[string]*Answer{},
		answerOrder:  map[string][]string{},
	}
}

func (s *memoryStore) AddUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[cp.ID] = &cp
	s.usersByEmail[strings.ToLower(cp.Email)] = &cp
	return nil
}

func (s *memoryStore) GetUser(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) InsertAssessment(a *Assessment) (*Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.assessments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memoryStore) GetAssessment(id string) (*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.assessments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) ListAssessments(advisorID, founderID string) ([]*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Assessment{}
	for _, a := range s.assessments {
		if advisorID != "" && a.AdvisorID != advisorID {
			continue
		}
		if founderID != "" && a.FounderID != founderID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	// newest first, matching the dashboard listing
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) CompleteAssessment(id string, upd *CompletionUpdate) (*Assessment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[id]
	if !ok || a.Status != "in_progress" {
		return nil, false, nil
	}
	completedAt := upd.CompletedAt
	overall := upd.OverallScore
	a.Status = "completed"
	a.CompletedAt = &completedAt
	a.OverallScore = &overall
	a.DimensionScores = upd.DimensionScores
	a.Recommendations = upd.Recommendations
	a.UpdatedAt = upd.CompletedAt
	cp := *a
	return &cp, true, nil
}

func (s *memoryStore) AddQuestion(q *Question) (*Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.questions[q.ID]; !exists {
		s.questionOrder = append(s.questionOrder, q.ID)
	}
	cp := *q
	s.questions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memoryStore) GetQuestion(id string) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) ListQuestions() ([]*Question, error) {
	return s.ListQuestionsByModule("")
}

// ListQuestionsByModule returns catalog questions in creation order; an empty
// module matches everything.
func (s *memoryStore) ListQuestionsByModule(module string) ([]*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Question{}
	for _, id := range s.questionOrder {
		q := s.questions[id]
		if module != "" && q.Module != module {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memoryStore) CountQuestionsByModule(module string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if module == "" || q.Module == module {
			n++
		}
	}
	return n, nil
}

func answerKey(assessmentID, questionID string) string {
	return assessmentID + "\x00" + questionID
}

// UpsertAnswer creates or overwrites the answer for (assessment, question).
// An overwrite keeps the original row identity and creation time.
func (s *memoryStore) UpsertAnswer(a *Answer) (*Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := answerKey(a.AssessmentID, a.QuestionID)
	if prev, ok := s.answers[key]; ok {
		prev.Value = a.Value
		prev.Metadata = a.Metadata
		prev.CreatedBy = a.CreatedBy
		prev.UpdatedAt = a.UpdatedAt
		cp := *prev
		return &cp, nil
	}
	cp := *a
	s.answers[key] = &cp
	s.answerOrder[a.AssessmentID] = append(s.answerOrder[a.AssessmentID], key)
	out := cp
	return &out, nil
}

func (s *memoryStore) ListAnswersByAssessment(assessmentID string) ([]*Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Answer{}
	for _, key := range s.answerOrder[assessmentID] {
		cp := *s.answers[key]
		out = append(out, &cp)
	}
	return out, nil
}
