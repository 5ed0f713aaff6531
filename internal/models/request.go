package models

// AskRequest for POST /api/v1/ask. Clarification carries the user's answer
// to an earlier clarify_question; the original query must be resubmitted
// unchanged alongside it.
type AskRequest struct {
	Query         string `json:"query"`
	Clarification string `json:"clarification,omitempty"`
}
