package plan_test

import (
	"strings"
	"testing"

	"github.com/omcar04/clave-take-home/internal/plan"
)

func TestParseValidPlan(t *testing.T) {
	raw := `{
		"assistant_message": "Here are sales for January 3rd.",
		"intent": "single_value",
		"actions": [
			{
				"intent": "single_value",
				"recommended_widget": "metric",
				"query_id": "metric_total",
				"params": {"metric": "revenue", "order_date": "2025-01-03"}
			}
		]
	}`
	p, err := plan.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(p.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(p.Actions))
	}
	if p.Actions[0].QueryID != plan.QueryMetricTotal {
		t.Errorf("query_id = %q", p.Actions[0].QueryID)
	}
	if p.Actions[0].Params.OrderDate != "2025-01-03" {
		t.Errorf("order_date = %q", p.Actions[0].Params.OrderDate)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	raw := `{"assistant_message": "hi", "actions": [], "surprise": true}`
	if _, err := plan.Parse([]byte(raw)); err == nil {
		t.Fatal("expected unknown-field rejection")
	}
}

func TestParseRejectsUnknownQueryID(t *testing.T) {
	raw := `{"assistant_message": "x", "actions": [{"intent": "trend", "query_id": "drop_tables"}]}`
	_, err := plan.Parse([]byte(raw))
	if err == nil {
		t.Fatal("expected unknown query_id rejection")
	}
	if !strings.Contains(err.Error(), "drop_tables") {
		t.Errorf("error should name the offending id, got %v", err)
	}
}

func TestParseRejectsBadEnums(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad intent", `{"assistant_message":"x","actions":[{"intent":"guess","recommended_widget":"bar"}]}`},
		{"bad widget", `{"assistant_message":"x","actions":[{"intent":"trend","recommended_widget":"sparkline"}]}`},
		{"bad metric", `{"assistant_message":"x","actions":[{"intent":"trend","recommended_widget":"bar","params":{"metric":"profit"}}]}`},
		{"no query_id or widget", `{"assistant_message":"x","actions":[{"intent":"trend"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := plan.Parse([]byte(tt.raw)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateScrubsBadDates(t *testing.T) {
	raw := `{"assistant_message":"x","actions":[{"intent":"trend","recommended_widget":"line","params":{"order_date":"Jan 3rd","start_date":"2025-01-01","end_date":"01/04/2025"}}]}`
	p, err := plan.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got := p.Actions[0].Params
	if got.OrderDate != "" {
		t.Errorf("order_date should be scrubbed, got %q", got.OrderDate)
	}
	if got.StartDate != "2025-01-01" {
		t.Errorf("start_date = %q, want kept", got.StartDate)
	}
	if got.EndDate != "" {
		t.Errorf("end_date should be scrubbed, got %q", got.EndDate)
	}
}

func TestValidateCapsLocations(t *testing.T) {
	raw := `{"assistant_message":"x","actions":[{"intent":"comparison","recommended_widget":"bar","params":{"locations":["A","B","C","D","E","F","G"]}}]}`
	p, err := plan.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := len(p.Actions[0].Params.Locations); n != 5 {
		t.Errorf("locations capped to %d, want 5", n)
	}
}

func TestParseClarifyPlan(t *testing.T) {
	raw := `{"assistant_message":"", "clarify_question":"Which location do you mean?", "actions":[]}`
	p, err := plan.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.ClarifyQuestion == "" {
		t.Error("clarify_question should survive validation")
	}
}
