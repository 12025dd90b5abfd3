package services

import (
	"testing"
	"time"
)

type stubAssessmentStore struct {
	users        map[string]*User
	usersByEmail map[string]*User
	assessments  map[string]*Assessment
	answers      map[string][]*Answer
	questions    []*Question
	listedFilter *AssessmentFilter
	completeOK   bool
	completeUpd  *CompletionUpdate
}

func newAssessmentStore() *stubAssessmentStore {
	return &stubAssessmentStore{
		users:        map[string]*User{},
		usersByEmail: map[string]*User{},
		assessments:  map[string]*Assessment{},
		answers:      map[string][]*Answer{},
		completeOK:   true,
	}
}

func (s *stubAssessmentStore) addUser(u *User) {
	s.users[u.ID] = u
	s.usersByEmail[u.Email] = u
}

func (s *stubAssessmentStore) GetUser(id string) (*User, error) { return s.users[id], nil }

func (s *stubAssessmentStore) FindUserByEmail(email string) (*User, error) {
	return s.usersByEmail[email], nil
}

func (s *stubAssessmentStore) InsertAssessment(a *Assessment) (*Assessment, error) {
	cp := *a
	s.assessments[a.ID] = &cp
	return &cp, nil
}

func (s *stubAssessmentStore) GetAssessment(id string) (*Assessment, error) {
	return s.assessments[id], nil
}

func (s *stubAssessmentStore) ListAssessments(filter AssessmentFilter) ([]*Assessment, error) {
	s.listedFilter = &filter
	out := []*Assessment{}
	for _, a := range s.assessments {
		if filter.AdvisorID != "" && a.AdvisorID != filter.AdvisorID {
			continue
		}
		if filter.FounderID != "" && a.FounderID != filter.FounderID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *stubAssessmentStore) ListAnswersByAssessment(id string) ([]*Answer, error) {
	return s.answers[id], nil
}

func (s *stubAssessmentStore) ListQuestions() ([]*Question, error) { return s.questions, nil }

func (s *stubAssessmentStore) CompleteAssessment(id string, upd *CompletionUpdate) (*Assessment, bool, error) {
	if !s.completeOK {
		return nil, false, nil
	}
	s.completeUpd = upd
	a := s.assessments[id]
	a.Status = StatusCompleted
	completedAt := upd.CompletedAt
	a.CompletedAt = &completedAt
	overall := upd.OverallScore
	a.OverallScore = &overall
	a.DimensionScores = upd.DimensionScores
	a.Recommendations = upd.Recommendations
	return a, true, nil
}

func seedUsers(s *stubAssessmentStore) {
	s.addUser(&User{ID: "adv1", Email: "adv@x.co", Role: RoleAdvisor})
	s.addUser(&User{ID: "fnd1", Email: "founder@x.co", Role: RoleFounder})
	s.addUser(&User{ID: "adm1", Email: "admin@x.co", Role: RoleAdmin})
}

func TestCreateAssessment(t *testing.T) {
	store := newAssessmentStore()
	seedUsers(store)
	svc := NewAssessmentService(store)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.idGen = func() string { return "A1" }

	a, err := svc.Create("adv1", CreateAssessmentRequest{CompanyName: "Acme GmbH", FounderEmail: "founder@x.co"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.Status != StatusInProgress {
		t.Fatalf("status = %s, want in_progress", a.Status)
	}
	if !a.StartedAt.Equal(fixed) {
		t.Fatalf("started_at = %v, want %v", a.StartedAt, fixed)
	}
	if a.FounderID != "fnd1" {
		t.Fatalf("founder not linked: %+v", a)
	}
	if a.AdvisorID != "adv1" {
		t.Fatalf("advisor = %s, want adv1", a.AdvisorID)
	}
}

func TestCreateAssessmentUnmatchedFounderEmailIsSilent(t *testing.T) {
	store := newAssessmentStore()
	seedUsers(store)
	svc := NewAssessmentService(store)

	a, err := svc.Create("adv1", CreateAssessmentRequest{CompanyName: "Acme", FounderEmail: "nobody@x.co"})
	if err != nil {
		t.Fatalf("unmatched founder email must not fail creation: %v", err)
	}
	if a.FounderID != "" {
		t.Fatalf("founder id = %q, want unset", a.FounderID)
	}

	// An email belonging to a non-founder account is also not linked.
	a, err = svc.Create("adv1", CreateAssessmentRequest{CompanyName: "Acme", FounderEmail: "admin@x.co"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if a.FounderID != "" {
		t.Fatalf("non-founder email was linked: %+v", a)
	}
}

func TestCreateAssessmentFailures(t *testing.T) {
	store := newAssessmentStore()
	seedUsers(store)
	svc := NewAssessmentService(store)

	cases := []struct {
		name     string
		caller   string
		req      CreateAssessmentRequest
		wantCode ErrorCode
	}{
		{"unauthorized", "", CreateAssessmentRequest{CompanyName: "Acme"}, ErrorUnauthorized},
		{"missing company name", "adv1", CreateAssessmentRequest{}, ErrorValidation},
		{"blank company name", "adv1", CreateAssessmentRequest{CompanyName: "   "}, ErrorValidation},
		{"founder caller", "fnd1", CreateAssessmentRequest{CompanyName: "Acme"}, ErrorForbidden},
		{"admin caller", "adm1", CreateAssessmentRequest{CompanyName: "Acme"}, ErrorForbidden},
		{"unknown caller", "ghost", CreateAssessmentRequest{CompanyName: "Acme"}, ErrorForbidden},
	}
	for _, c := range cases {
		_, err := svc.Create(c.caller, c.req)
		se, ok := AsServiceError(err)
		if !ok || se.Code != c.wantCode {
			t.Fatalf("%s: got %v, want code %s", c.name, err, c.wantCode)
		}
	}
}

func TestListAssessmentsScoping(t *testing.T) {
	store := newAssessmentStore()
	seedUsers(store)
	store.assessments["A1"] = &Assessment{ID: "A1", AdvisorID: "adv1", FounderID: "fnd1"}
	store.assessments["A2"] = &Assessment{ID: "A2", AdvisorID: "adv2"}
	svc := NewAssessmentService(store)

	got, err := svc.List("adv1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "A1" {
		t.Fatalf("advisor scope = %+v, want only A1", got)
	}

	got, _ = svc.List("fnd1")
	if len(got) != 1 || got[0].ID != "A1" {
		t.Fatalf("founder scope = %+v, want only A1", got)
	}

	got, _ = svc.List("adm1")
	if len(got) != 2 {
		t.Fatalf("admin scope = %+v, want all", got)
	}

	if _, err := svc.List("ghost"); err == nil {
		t.Fatalf("expected user-not-found error")
	} else if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("got %v, want not_found", err)
	}
}

func completableStore() *stubAssessmentStore {
	store := newAssessmentStore()
	seedUsers(store)
	store.assessments["A1"] = &Assessment{ID: "A1", AdvisorID: "adv1", FounderID: "fnd1", Status: StatusInProgress}
	store.questions = []*Question{
		{ID: "Q1", Type: QuestionNumber, Dimension: "Financial", Module: ModuleCore, Weight: 1},
	}
	store.answers["A1"] = []*Answer{{ID: "ans1", AssessmentID: "A1", QuestionID: "Q1", Value: "-5"}}
	return store
}

func TestCompleteAssessment(t *testing.T) {
	store := completableStore()
	svc := NewAssessmentService(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	res, err := svc.Complete("adv1", "A1")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if res.OverallScore != 25 {
		t.Fatalf("overall = %d, want 25", res.OverallScore)
	}
	if res.DimensionScores["Financial"] != 25 {
		t.Fatalf("dimension scores = %+v", res.DimensionScores)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].ID != "financial_critical" {
		t.Fatalf("recommendations = %+v", res.Recommendations)
	}
	if res.Assessment.Status != StatusCompleted || res.Assessment.CompletedAt == nil {
		t.Fatalf("assessment not completed: %+v", res.Assessment)
	}
	if store.completeUpd == nil || !store.completeUpd.CompletedAt.Equal(fixed) {
		t.Fatalf("completion update = %+v", store.completeUpd)
	}
}

func TestCompleteAssessmentOnlyAdvisorOwner(t *testing.T) {
	store := completableStore()
	svc := NewAssessmentService(store)

	for _, caller := range []string{"fnd1", "adm1", "adv2"} {
		_, err := svc.Complete(caller, "A1")
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorForbidden {
			t.Fatalf("caller %s: got %v, want forbidden", caller, err)
		}
	}
}

func TestCompleteAssessmentNoAnswers(t *testing.T) {
	store := completableStore()
	store.answers["A1"] = nil
	svc := NewAssessmentService(store)

	_, err := svc.Complete("adv1", "A1")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorValidation {
		t.Fatalf("got %v, want validation failure before scoring", err)
	}
	if store.completeUpd != nil {
		t.Fatalf("scoring must not run with zero answers")
	}
}

func TestCompleteAssessmentAllAnswersUnknownQuestions(t *testing.T) {
	store := completableStore()
	store.answers["A1"] = []*Answer{{ID: "ans1", AssessmentID: "A1", QuestionID: "GHOST", Value: "yes"}}
	svc := NewAssessmentService(store)

	_, err := svc.Complete("adv1", "A1")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorValidation {
		t.Fatalf("got %v, want validation failure when no dimension can be scored", err)
	}
}

func TestCompleteAssessmentInvalidState(t *testing.T) {
	store := completableStore()
	store.assessments["A1"].Status = StatusCompleted
	svc := NewAssessmentService(store)

	_, err := svc.Complete("adv1", "A1")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalidState {
		t.Fatalf("got %v, want invalid_state", err)
	}
}

// A concurrent completion that wins the conditional update leaves the loser
// with an invalid-state error instead of double-running scoring.
func TestCompleteAssessmentLostRace(t *testing.T) {
	store := completableStore()
	store.completeOK = false
	svc := NewAssessmentService(store)

	_, err := svc.Complete("adv1", "A1")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalidState {
		t.Fatalf("got %v, want invalid_state after lost race", err)
	}
}

func TestCompleteAssessmentNotFound(t *testing.T) {
	store := completableStore()
	svc := NewAssessmentService(store)

	_, err := svc.Complete("adv1", "missing")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorNotFound {
		t.Fatalf("got %v, want not_found", err)
	}
}
