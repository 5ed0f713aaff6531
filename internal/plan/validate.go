package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const maxLocations = 5

// Parse decodes raw model output into a Plan and validates it. Unknown
// fields are rejected so the planner escalates instead of silently
// accepting drift in the generation contract.
func Parse(raw []byte) (*Plan, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate enforces the plan schema. Malformed dates are scrubbed to empty
// rather than rejected: a bad date means "no date", never a user-facing
// parse error. Location lists are capped at five entries.
func (p *Plan) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("plan schema: %w", err)
	}
	for i := range p.Actions {
		a := &p.Actions[i]
		if a.QueryID != "" && !KnownQueryID(a.QueryID) {
			return fmt.Errorf("plan schema: action %d has unknown query_id %q", i, a.QueryID)
		}
		if a.QueryID == "" && a.RecommendedWidget == "" {
			return fmt.Errorf("plan schema: action %d has neither query_id nor recommended_widget", i)
		}
		a.Params.OrderDate = ScrubDate(a.Params.OrderDate)
		a.Params.StartDate = ScrubDate(a.Params.StartDate)
		a.Params.EndDate = ScrubDate(a.Params.EndDate)
		if len(a.Params.Locations) > maxLocations {
			a.Params.Locations = a.Params.Locations[:maxLocations]
		}
	}
	return nil
}

// ScrubDate returns s when it matches YYYY-MM-DD and "" otherwise.
func ScrubDate(s string) string {
	if isoDate.MatchString(s) {
		return s
	}
	return ""
}
