package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cispa-hq/cispa/internal/api"
)

// SQLiteStore persists the assessment data in a single sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Open opens the sqlite file at path, applies the pragmas and migrations, and
// returns a ready Store.
func Open(path, migrationsDir string) (api.Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	store, err := NewSQLiteStore(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := RunMigrations(conn, migrationsDir); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func encodeJSON(v any) (string, error) {
	if v == nil {
		return "{}", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeInto(raw string, v any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func (s *SQLiteStore) AddUser(u *api.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, role, company_name, pass_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Role, u.CompanyName, u.PassHash, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(id string) (*api.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, role, company_name, pass_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *SQLiteStore) FindUserByEmail(email string) (*api.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, email, role, company_name, pass_hash, created_at FROM users WHERE email = ?`, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*api.User, error) {
	var u api.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.CompanyName, &u.PassHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) InsertAssessment(a *api.Assessment) (*api.Assessment, error) {
	scores, err := encodeJSON(a.DimensionScores)
	if err != nil {
		return nil, fmt.Errorf("encode dimension scores: %w", err)
	}
	recs, err := encodeJSON(a.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("encode recommendations: %w", err)
	}
	if a.Recommendations == nil {
		recs = "[]"
	}
	_, err = s.db.Exec(
		`INSERT INTO assessments
		   (id, company_name, advisor_id, founder_id, status, started_at, completed_at,
		    overall_score, dimension_scores, recommendations, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CompanyName, a.AdvisorID, a.FounderID, a.Status, a.StartedAt,
		a.CompletedAt, nullableInt(a.OverallScore), scores, recs, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assessment: %w", err)
	}
	return s.GetAssessment(a.ID)
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

const assessmentCols = `id, company_name, advisor_id, founder_id, status, started_at,
	completed_at, overall_score, dimension_scores, recommendations, created_at, updated_at`

func (s *SQLiteStore) GetAssessment(id string) (*api.Assessment, error) {
	rows, err := s.db.Query(`SELECT `+assessmentCols+` FROM assessments WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanAssessment(rows)
}

func (s *SQLiteStore) ListAssessments(advisorID, founderID string) ([]*api.Assessment, error) {
	query := `SELECT ` + assessmentCols + ` FROM assessments`
	var (
		where []string
		args  []any
	)
	if advisorID != "" {
		where = append(where, "advisor_id = ?")
		args = append(args, advisorID)
	}
	if founderID != "" {
		where = append(where, "founder_id = ?")
		args = append(args, founderID)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	out := []*api.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssessment(rows *sql.Rows) (*api.Assessment, error) {
	var (
		a           api.Assessment
		completedAt sql.NullTime
		overall     sql.NullInt64
		scoresRaw   string
		recsRaw     string
	)
	err := rows.Scan(&a.ID, &a.CompanyName, &a.AdvisorID, &a.FounderID, &a.Status,
		&a.StartedAt, &completedAt, &overall, &scoresRaw, &recsRaw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan assessment: %w", err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	if overall.Valid {
		v := int(overall.Int64)
		a.OverallScore = &v
	}
	scores := map[string]int{}
	if err := decodeInto(scoresRaw, &scores); err != nil {
		return nil, fmt.Errorf("decode dimension scores: %w", err)
	}
	if len(scores) > 0 {
		a.DimensionScores = scores
	}
	var recs []api.Recommendation
	if err := decodeInto(recsRaw, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(recs) > 0 {
		a.Recommendations = recs
	}
	return &a, nil
}

// CompleteAssessment flips the row to completed only while it is still
// in_progress. The guard lives in the WHERE clause so two racing completions
// cannot both win.
func (s *SQLiteStore) CompleteAssessment(id string, upd *api.CompletionUpdate) (*api.Assessment, bool, error) {
	scores, err := encodeJSON(upd.DimensionScores)
	if err != nil {
		return nil, false, fmt.Errorf("encode dimension scores: %w", err)
	}
	recs, err := encodeJSON(upd.Recommendations)
	if err != nil {
		return nil, false, fmt.Errorf("encode recommendations: %w", err)
	}
	if upd.Recommendations == nil {
		recs = "[]"
	}
	res, err := s.db.Exec(
		`UPDATE assessments
		    SET status = 'completed', completed_at = ?, overall_score = ?,
		        dimension_scores = ?, recommendations = ?, updated_at = ?
		  WHERE id = ? AND status = 'in_progress'`,
		upd.CompletedAt, upd.OverallScore, scores, recs, upd.CompletedAt, id,
	)
	if err != nil {
		return nil, false, fmt.Errorf("complete assessment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("complete assessment: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}
	a, err := s.GetAssessment(id)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func (s *SQLiteStore) AddQuestion(q *api.Question) (*api.Question, error) {
	branching, err := encodeJSON(q.Branching)
	if err != nil {
		return nil, fmt.Errorf("encode branching: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO questions (id, question_text, question_type, dimension, module, weight, branching_conditions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   question_text = excluded.question_text,
		   question_type = excluded.question_type,
		   dimension = excluded.dimension,
		   module = excluded.module,
		   weight = excluded.weight,
		   branching_conditions = excluded.branching_conditions`,
		q.ID, q.Text, q.Type, q.Dimension, q.Module, q.Weight, branching, q.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert question: %w", err)
	}
	return s.GetQuestion(q.ID)
}

const questionCols = `id, question_text, question_type, dimension, module, weight, branching_conditions, created_at`

func (s *SQLiteStore) GetQuestion(id string) (*api.Question, error) {
	rows, err := s.db.Query(`SELECT `+questionCols+` FROM questions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanQuestion(rows)
}

func (s *SQLiteStore) ListQuestions() ([]*api.Question, error) {
	return s.queryQuestions(`SELECT ` + questionCols + ` FROM questions ORDER BY created_at ASC, id ASC`)
}

func (s *SQLiteStore) ListQuestionsByModule(module string) ([]*api.Question, error) {
	return s.queryQuestions(
		`SELECT `+questionCols+` FROM questions WHERE module = ? ORDER BY created_at ASC, id ASC`, module)
}

func (s *SQLiteStore) CountQuestionsByModule(module string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE module = ?`, module).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryQuestions(query string, args ...any) ([]*api.Question, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	out := []*api.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*api.Question, error) {
	var (
		q            api.Question
		branchingRaw string
	)
	err := rows.Scan(&q.ID, &q.Text, &q.Type, &q.Dimension, &q.Module, &q.Weight, &branchingRaw, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	branching := map[string]any{}
	if err := decodeInto(branchingRaw, &branching); err != nil {
		return nil, fmt.Errorf("decode branching: %w", err)
	}
	if len(branching) > 0 {
		q.Branching = branching
	}
	return &q, nil
}

// UpsertAnswer keeps the original row identity on resubmission: id and
// created_at survive, value and metadata take the latest write.
func (s *SQLiteStore) UpsertAnswer(a *api.Answer) (*api.Answer, error) {
	metadata, err := encodeJSON(a.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode answer metadata: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO answers (id, assessment_id, question_id, answer_value, answer_metadata, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(assessment_id, question_id) DO UPDATE SET
		   answer_value = excluded.answer_value,
		   answer_metadata = excluded.answer_metadata,
		   created_by = excluded.created_by,
		   updated_at = excluded.updated_at`,
		a.ID, a.AssessmentID, a.QuestionID, a.Value, metadata, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT `+answerCols+` FROM answers WHERE assessment_id = ? AND question_id = ?`,
		a.AssessmentID, a.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("reload answer: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("answer vanished after upsert")
	}
	return scanAnswer(rows)
}

const answerCols = `id, assessment_id, question_id, answer_value, answer_metadata, created_by, created_at, updated_at`

func (s *SQLiteStore) ListAnswersByAssessment(assessmentID string) ([]*api.Answer, error) {
	rows, err := s.db.Query(
		`SELECT `+answerCols+` FROM answers WHERE assessment_id = ? ORDER BY created_at ASC, rowid ASC`,
		assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()
	out := []*api.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnswer(rows *sql.Rows) (*api.Answer, error) {
	var (
		a           api.Answer
		metadataRaw string
	)
	err := rows.Scan(&a.ID, &a.AssessmentID, &a.QuestionID, &a.Value, &metadataRaw,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan answer: %w", err)
	}
	metadata := map[string]any{}
	if err := decodeInto(metadataRaw, &metadata); err != nil {
		return nil, fmt.Errorf("decode answer metadata: %w", err)
	}
	a.Metadata = metadata
	return &a, nil
}

var _ api.Store = (*SQLiteStore)(nil)
