package api

import (
	"net/http"
	"time"
)

// seedQuestion is a compact row in the built-in question catalog.
type seedQuestion struct {
	id        string
	text      string
	qtype     string
	dimension string
	module    string
	weight    float64
}

// Seeding with fixed IDs and timestamps keeps the catalog idempotent and the
// question order stable across reseeds.
var seedBase = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// The core module carries five questions per readiness dimension, thirty in
// total, matching the progress fallback used while the catalog is loading.
var seedCatalog = []seedQuestion{
	// Core: Financial
	{"core-fin-001", "What was your revenue over the last 12 months (in USD)?", "number", "Financial", "core", 2.0},
	{"core-fin-002", "How many months of runway do you have at current burn?", "number", "Financial", "core", 2.0},
	{"core-fin-003", "Do you have audited or reviewed financial statements?", "multiple_choice", "Financial", "core", 1.5},
	{"core-fin-004", "Describe your gross margin structure and how it has evolved.", "text", "Financial", "core", 1.0},
	{"core-fin-005", "Are your books closed monthly and reconciled?", "multiple_choice", "Financial", "core", 1.0},

	// Core: Operational
	{"core-ops-001", "Are your key business processes documented and repeatable?", "multiple_choice", "Operational", "core", 1.5},
	{"core-ops-002", "How many days does your month-end close take?", "number", "Operational", "core", 1.0},
	{"core-ops-003", "Describe your supply chain or delivery pipeline and its risks.", "text", "Operational", "core", 1.0},
	{"core-ops-004", "Do you track operational KPIs on a regular cadence?", "multiple_choice", "Operational", "core", 1.0},
	{"core-ops-005", "Describe your customer support operation and response times.", "text", "Operational", "core", 1.0},

	// Core: Strategic
	{"core-str-001", "Do you have a written strategic plan covering the next two years?", "multiple_choice", "Strategic", "core", 2.0},
	{"core-str-002", "Describe your expansion strategy into new segments or regions.", "text", "Strategic", "core", 1.0},
	{"core-str-003", "What was your year-over-year revenue growth (percent)?", "number", "Strategic", "core", 1.5},
	{"core-str-004", "Do you have a defensible differentiation against competitors?", "multiple_choice", "Strategic", "core", 1.5},
	{"core-str-005", "Describe the largest constraint on your growth today.", "text", "Strategic", "core", 1.0},

	// Core: Technology
	{"core-tech-001", "Is your product generally available in production?", "multiple_choice", "Technology", "core", 2.0},
	{"core-tech-002", "How many production incidents did you have in the last quarter?", "number", "Technology", "core", 1.0},
	{"core-tech-003", "Describe your architecture and its main scaling limits.", "text", "Technology", "core", 1.0},
	{"core-tech-004", "Is customer data encrypted at rest and in transit?", "multiple_choice", "Technology", "core", 1.5},
	{"core-tech-005", "Do you run automated tests on every change before release?", "multiple_choice", "Technology", "core", 1.0},

	// Core: Human Capital
	{"core-hc-001", "How many full-time employees do you have?", "number", "Human Capital", "core", 1.0},
	{"core-hc-002", "Do all key employees have vesting agreements in place?", "multiple_choice", "Human Capital", "core", 2.0},
	{"core-hc-003", "Describe the experience of your founding team in this market.", "text", "Human Capital", "core", 1.5},
	{"core-hc-004", "Is there a documented succession plan for key roles?", "multiple_choice", "Human Capital", "core", 1.0},
	{"core-hc-005", "Describe your hiring plan for the next 12 months.", "text", "Human Capital", "core", 1.0},

	// Core: Market Position
	{"core-mkt-001", "What is your estimated market share (percent)?", "number", "Market Position", "core", 1.0},
	{"core-mkt-002", "How many paying customers do you have?", "number", "Market Position", "core", 1.5},
	{"core-mkt-003", "Describe your top three competitors and how you win against them.", "text", "Market Position", "core", 1.5},
	{"core-mkt-004", "Describe your customer concentration risk.", "text", "Market Position", "core", 1.0},
	{"core-mkt-005", "Do customers renew or repurchase without heavy discounting?", "multiple_choice", "Market Position", "core", 1.5},

	// Marketing module
	{"mkt-001", "Do you track customer acquisition cost per channel?", "multiple_choice", "Market Position", "marketing", 1.5},
	{"mkt-002", "What is your blended customer acquisition cost (in USD)?", "number", "Market Position", "marketing", 1.0},
	{"mkt-003", "Describe your brand positioning and how it is communicated.", "text", "Market Position", "marketing", 1.0},
	{"mkt-004", "Is your marketing pipeline attributable to closed revenue?", "multiple_choice", "Market Position", "marketing", 1.0},

	// Technology module
	{"tech-001", "Do you maintain a documented disaster recovery plan?", "multiple_choice", "Technology", "technology", 1.5},
	{"tech-002", "What share of your codebase is covered by automated tests (percent)?", "number", "Technology", "technology", 1.0},
	{"tech-003", "Describe your technical debt and the plan to retire it.", "text", "Technology", "technology", 1.0},
	{"tech-004", "Are third-party dependencies audited for vulnerabilities?", "multiple_choice", "Technology", "technology", 1.5},

	// Investor module
	{"inv-001", "Do you have a current data room prepared for diligence?", "multiple_choice", "Strategic", "investor", 2.0},
	{"inv-002", "How many institutional investors are on your cap table?", "number", "Financial", "investor", 1.0},
	{"inv-003", "Describe your fundraising history and use of proceeds.", "text", "Financial", "investor", 1.0},
	{"inv-004", "Are your board minutes and consents complete and signed?", "multiple_choice", "Strategic", "investor", 1.5},
}

// SeedQuestions loads the built-in catalog into the store. Existing rows with
// the same IDs are overwritten, so repeated calls converge on the same state.
func SeedQuestions(store Store) (int, error) {
	for i, sq := range seedCatalog {
		q := &Question{
			ID:        sq.id,
			Text:      sq.text,
			Type:      sq.qtype,
			Dimension: sq.dimension,
			Module:    sq.module,
			Weight:    sq.weight,
			CreatedAt: seedBase.Add(time.Duration(i) * time.Minute),
		}
		if _, err := store.AddQuestion(q); err != nil {
			return i, err
		}
	}
	return len(seedCatalog), nil
}

// POST /api/seed
func (rt *Router) handleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	n, err := SeedQuestions(rt.store)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seeded": true, "questions": n})
}
