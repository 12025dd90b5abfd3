package api

type Store interface {
	AddUser(u *User) error
	GetUser(id string) (*User, error)
	FindUserByEmail(email string) (*User, error)

	InsertAssessment(a *Assessment) (*Assessment, error)
	GetAssessment(id string) (*Assessment, error)
	ListAssessments(advisorID, founderID string) ([]*Assessment, error)
	CompleteAssessment(id string, upd *CompletionUpdate) (*Assessment, bool, error)

	AddQuestion(q *Question) (*Question, error)
	GetQuestion(id string) (*Question, error)
	ListQuestions() ([]*Question, error)
	ListQuestionsByModule(module string) ([]*Question, error)
	CountQuestionsByModule(module string) (int, error)

	UpsertAnswer(a *Answer) (*Answer, error)
	ListAnswersByAssessment(assessmentID string) ([]*Answer, error)
}

var _ Store = (*memoryStore)(nil)
