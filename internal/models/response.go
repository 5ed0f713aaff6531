package models

// AskResponse is returned by POST /api/v1/ask. When ClarifyQuestion is set
// Widgets is always empty: the caller must re-prompt the user and resubmit
// with clarification filled in.
type AskResponse struct {
	AssistantMessage string   `json:"assistant_message"`
	ClarifyQuestion  string   `json:"clarify_question,omitempty"`
	Widgets          []Widget `json:"widgets"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// LocationsResponse lists the canonical location names known to the store.
type LocationsResponse struct {
	Locations []string `json:"locations"`
}

// DateRangeResponse is the inclusive range of dates with data.
type DateRangeResponse struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}
