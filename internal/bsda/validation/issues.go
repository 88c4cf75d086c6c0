package validation

import (
	"fmt"
	"strings"
)

// Issue is one reported problem: a stable field path (empty for document
// level rules) and a user-facing message.
type Issue struct {
	Path    string
	Message string
}

// collector accumulates issues across stages so that every applicable check
// reports, none short-circuits. It is flushed into a typed error at stage
// boundaries.
type collector struct {
	issues []Issue
}

func (c *collector) add(path, message string) {
	c.issues = append(c.issues, Issue{Path: path, Message: message})
}

func (c *collector) addf(path, format string, args ...any) {
	c.add(path, fmt.Sprintf(format, args...))
}

func (c *collector) empty() bool { return len(c.issues) == 0 }

func joinIssues(issues []Issue) string {
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, "\n")
}

// ShapeError reports the fields that failed primitive shape constraints. All
// offending fields are listed, not just the first.
type ShapeError struct {
	Issues []Issue
}

func (e *ShapeError) Error() string {
	return joinIssues(e.Issues)
}

// ValidationError reports business-rule failures, aggregated across the sync
// and async rule groups.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	return joinIssues(e.Issues)
}

// SealedFieldError is raised only by the merge entry point, when a partial
// update tries to change data frozen by a prior signature. The merge is all
// or nothing: a single aggregated error lists every violation.
type SealedFieldError struct {
	Violations []string
}

func (e *SealedFieldError) Error() string {
	return "Des champs ont été verrouillés via signature et ne peuvent plus être modifiés : " +
		strings.Join(e.Violations, " ")
}
