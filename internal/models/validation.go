// internal/models/validation.go
package models

// IssueType categorizes a validation finding.
type IssueType string

const (
	IssueSchema     IssueType = "SCHEMA"
	IssueScientific IssueType = "SCIENTIFIC"
	IssueStructural IssueType = "STRUCTURAL"
)

// Severity ranks how strongly a finding should block trust in a program.
// CRITICAL and HIGH flip IsValid; MEDIUM findings are recorded as warnings.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// IssueLocation points at the program position a finding refers to.
// Indices are 1-based; zero means unknown at that depth.
type IssueLocation struct {
	Phase int `json:"phase,omitempty"`
	Week  int `json:"week,omitempty"`
	Day   int `json:"day,omitempty"`
}

// ValidationIssue is a single actionable finding from the guardian.
type ValidationIssue struct {
	Type         IssueType      `json:"type"`
	Severity     Severity       `json:"severity"`
	Message      string         `json:"message"`
	Location     *IssueLocation `json:"location,omitempty"`
	SuggestedFix string         `json:"suggestedFix,omitempty"`
}

// ValidationResult aggregates one validation pass. Created fresh per call
// and never mutated after return.
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// Add routes an issue into errors or warnings and updates IsValid.
func (r *ValidationResult) Add(issue ValidationIssue) {
	if issue.Severity == SeverityMedium {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
	r.IsValid = false
}

// HasCritical reports whether any finding is CRITICAL. The orchestrator
// treats a critical result as fatal for the attempt.
func (r *ValidationResult) HasCritical() bool {
	for _, issue := range r.Errors {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
