package services

import "time"

type Role string

const (
	RoleAdvisor Role = "advisor"
	RoleFounder Role = "founder"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdvisor, RoleFounder, RoleAdmin:
		return true
	}
	return false
}

type AssessmentStatus string

const (
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusArchived   AssessmentStatus = "archived"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionNumber         QuestionType = "number"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFileUpload     QuestionType = "file_upload"
)

type Module string

const (
	ModuleCore       Module = "core"
	ModuleMarketing  Module = "marketing"
	ModuleTechnology Module = "technology"
	ModuleInvestor   Module = "investor"
)

// OptionalModules lists the add-on modules in the order the question flow
// serves them once the core module is exhausted.
var OptionalModules = []Module{ModuleMarketing, ModuleTechnology, ModuleInvestor}

// Dimensions are the canonical readiness dimensions questions score against.
// The dimension field on a question is free text, so scoring does not assume
// membership in this list.
var Dimensions = []string{
	"Financial",
	"Operational",
	"Strategic",
	"Technology",
	"Human Capital",
	"Market Position",
}

const (
	// CoreQuestionCount is the expected size of the core catalog, used as a
	// progress-total fallback when the live count is unavailable.
	CoreQuestionCount = 30

	// HighRiskThreshold and MediumRiskThreshold split dimension scores into
	// critical / important / no-action bands.
	HighRiskThreshold   = 40
	MediumRiskThreshold = 60

	MinScore = 0
	MaxScore = 100
)

type Priority string

const (
	PriorityCritical  Priority = "Critical"
	PriorityImportant Priority = "Important"
	PriorityOptional  Priority = "Optional"
)

type Effort string

const (
	EffortLow    Effort = "Low"
	EffortMedium Effort = "Medium"
	EffortHigh   Effort = "High"
)

type User struct {
	ID          string
	Email       string
	Role        Role
	CompanyName string
	PassHash    []byte
	CreatedAt   time.Time
}

type Assessment struct {
	ID              string
	CompanyName     string
	AdvisorID       string
	FounderID       string
	Status          AssessmentStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	OverallScore    *int
	DimensionScores map[string]int
	Recommendations []Recommendation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Question struct {
	ID        string
	Text      string
	Type      QuestionType
	Dimension string
	Module    Module
	Weight    float64
	Branching map[string]any
	CreatedAt time.Time
}

type Answer struct {
	ID           string
	AssessmentID string
	QuestionID   string
	Value        string
	Metadata     map[string]any
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Recommendation struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Dimension   string   `json:"dimension"`
	Impact      string   `json:"impact"`
	Effort      Effort   `json:"effort"`
	Timeline    string   `json:"timeline"`
}

// DimensionScore pairs a dimension with its aggregated 0-100 score. The
// scoring engine returns these in first-appearance order so recommendation
// generation stays deterministic.
type DimensionScore struct {
	Dimension string
	Score     int
}

type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}
