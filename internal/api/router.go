package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cispa-hq/cispa/internal/middleware"
	"github.com/cispa-hq/cispa/internal/services"
)

type Router struct {
	store       Store
	log         *logrus.Logger
	auth        *services.AuthService
	assessments *services.AssessmentService
	flow        *services.QuestionFlowService
	answers     *services.AnswerService
}

func NewRouter(store Store, log *logrus.Logger) *Router {
	if log == nil {
		log = logrus.New()
	}
	return &Router{
		store:       store,
		log:         log,
		auth:        services.NewAuthService(newAuthStoreAdapter(store), middleware.SignToken),
		assessments: services.NewAssessmentService(newAssessmentStoreAdapter(store)),
		flow:        services.NewQuestionFlowService(newQuestionFlowAdapter(store)),
		answers:     services.NewAnswerService(newAnswerStoreAdapter(store)),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/assessments", rt.handleAssessments)
	mux.HandleFunc("/api/assessments/", rt.handleAssessmentScoped)
	mux.HandleFunc("/api/seed", rt.handleSeed) // POST
}

type wireError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

// writeError maps a failure onto exactly one wire code. Database and internal
// failures are logged with request context and returned in sanitized form.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, status, msg := "INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error"
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorUnauthorized:
			code, status, msg = "UNAUTHORIZED", http.StatusUnauthorized, se.Message
		case services.ErrorForbidden:
			code, status, msg = "FORBIDDEN", http.StatusForbidden, se.Message
		case services.ErrorNotFound:
			code, status, msg = "NOT_FOUND", http.StatusNotFound, se.Message
		case services.ErrorValidation:
			code, status, msg = "VALIDATION_ERROR", http.StatusBadRequest, se.Message
		case services.ErrorInvalidState:
			code, status, msg = "INVALID_STATE", http.StatusBadRequest, se.Message
		case services.ErrorConflict:
			code, status, msg = "CONFLICT", http.StatusConflict, se.Message
		case services.ErrorDatabase:
			code, status, msg = "DATABASE_ERROR", http.StatusInternalServerError, "Database operation failed"
		}
	} else {
		// Unclassified errors only come from the persistence collaborator.
		code, status, msg = "DATABASE_ERROR", http.StatusInternalServerError, "Database operation failed"
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		rt.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"code":       code,
		}).Error(err)
	}

	writeJSON(w, status, map[string]any{"error": wireError{
		Code:      code,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Role        string `json:"role"`
		CompanyName string `json:"company_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, r, services.NewValidationError("invalid request body"))
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, services.Role(req.Role), req.CompanyName)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":   res.Token,
		"user_id": res.UserID,
		"role":    res.Role,
	})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, r, services.NewValidationError("invalid request body"))
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":   res.Token,
		"user_id": res.UserID,
		"role":    res.Role,
	})
}

// GET  /api/assessments lists assessments visible to the caller.
// POST /api/assessments creates a new assessment.
func (rt *Router) handleAssessments(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())
	switch r.Method {
	case http.MethodGet:
		rows, err := rt.assessments.List(callerID)
		if err != nil {
			rt.writeError(w, r, err)
			return
		}
		out := make([]*Assessment, 0, len(rows))
		for _, a := range rows {
			out = append(out, convertServiceAssessment(a))
		}
		writeJSON(w, http.StatusOK, map[string]any{"assessments": out})
	case http.MethodPost:
		var req struct {
			CompanyName  string   `json:"company_name"`
			FounderEmail string   `json:"founder_email"`
			Modules      []string `json:"modules"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			rt.writeError(w, r, services.NewValidationError("invalid request body"))
			return
		}
		modules := make([]services.Module, 0, len(req.Modules))
		for _, m := range req.Modules {
			modules = append(modules, services.Module(m))
		}
		a, err := rt.assessments.Create(callerID, services.CreateAssessmentRequest{
			CompanyName:  req.CompanyName,
			FounderEmail: req.FounderEmail,
			Modules:      modules,
		})
		if err != nil {
			rt.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"assessment": convertServiceAssessment(a)})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Dispatches /api/assessments/{id}/questions, /answers and /complete.
func (rt *Router) handleAssessmentScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	switch parts[1] {
	case "questions":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.handleNextQuestion(w, r, id)
	case "answers":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.handleSubmitAnswer(w, r, id)
	case "complete":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.handleComplete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (rt *Router) handleNextQuestion(w http.ResponseWriter, r *http.Request, assessmentID string) {
	callerID := middleware.UserIDFromContext(r.Context())
	res, err := rt.flow.NextQuestion(callerID, assessmentID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"question":  convertServiceQuestion(res.Question),
		"completed": res.Completed,
		"progress":  res.Progress,
	})
}

func (rt *Router) handleSubmitAnswer(w http.ResponseWriter, r *http.Request, assessmentID string) {
	callerID := middleware.UserIDFromContext(r.Context())
	var req struct {
		QuestionID string          `json:"question_id"`
		Value      json.RawMessage `json:"answer_value"`
		Metadata   map[string]any  `json:"answer_metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.writeError(w, r, services.NewValidationError("invalid request body"))
		return
	}
	ans, err := rt.answers.Submit(callerID, assessmentID, services.SubmitAnswerRequest{
		QuestionID: req.QuestionID,
		Value:      coerceScalar(req.Value),
		Metadata:   req.Metadata,
	})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"answer": convertServiceAnswer(ans)})
}

func (rt *Router) handleComplete(w http.ResponseWriter, r *http.Request, assessmentID string) {
	callerID := middleware.UserIDFromContext(r.Context())
	res, err := rt.assessments.Complete(callerID, assessmentID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assessment": convertServiceAssessment(res.Assessment),
		"scores": map[string]any{
			"overall":    res.OverallScore,
			"dimensions": res.DimensionScores,
		},
		"recommendations": convertServiceRecommendations(res.Recommendations),
	})
}

// coerceScalar renders a JSON scalar as the stored answer text: strings keep
// their value, numbers and booleans keep their literal form. Absent or null
// values become the empty string, which submission rejects.
func coerceScalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}
