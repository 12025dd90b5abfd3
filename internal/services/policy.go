package services

// AssessmentFilter narrows an assessment listing to the rows a caller may
// see. The zero value means no restriction (admin scope).
type AssessmentFilter struct {
	AdvisorID string
	FounderID string
}

// ListScope returns the row filter for the caller's role. Advisors see
// assessments they run, founders see assessments about their company, and
// any other role sees everything.
func ListScope(u *User) AssessmentFilter {
	switch u.Role {
	case RoleAdvisor:
		return AssessmentFilter{AdvisorID: u.ID}
	case RoleFounder:
		return AssessmentFilter{FounderID: u.ID}
	default:
		return AssessmentFilter{}
	}
}

// CanView reports whether the caller is a party to the assessment. Access is
// by membership, not role: even admins read individual assessments through
// the parties recorded on the row.
func CanView(u *User, a *Assessment) bool {
	if u == nil || a == nil {
		return false
	}
	return a.AdvisorID == u.ID || (a.FounderID != "" && a.FounderID == u.ID)
}

// CanComplete is stricter than CanView: only the owning advisor may move an
// assessment to completed.
func CanComplete(u *User, a *Assessment) bool {
	if u == nil || a == nil {
		return false
	}
	return a.AdvisorID == u.ID
}
