// Package guardrail enforces fixed domain invariants over the planned
// action list, independent of whatever the model produced.
package guardrail

import (
	"strings"
	"time"

	"github.com/omcar04/clave-take-home/internal/plan"
)

// MaxActions is the hard cap on actions executed per request. Excess
// actions are silently dropped.
const MaxActions = 3

// ResolveRelativeDates fills order_date on actions that carry no date at
// all, when the question says "yesterday" or "today". Resolved against the
// store's max available date, applied once, only when missing.
func ResolveRelativeDates(userText, maxDate string, actions []plan.Action) []plan.Action {
	if maxDate == "" {
		return actions
	}
	lower := strings.ToLower(userText)

	var date string
	switch {
	case strings.Contains(lower, "yesterday"):
		date = shiftDate(maxDate, -1)
	case strings.Contains(lower, "today"):
		date = maxDate
	default:
		return actions
	}
	if date == "" {
		return actions
	}

	for i := range actions {
		p := &actions[i].Params
		if p.OrderDate == "" && p.StartDate == "" && p.EndDate == "" {
			p.OrderDate = date
		}
	}
	return actions
}

// PairDailyTotals enforces the single-day invariant: a single-day total
// always travels with an hourly breakdown of the same scope, and the
// total renders before its chart. Missing counterparts are synthesized.
func PairDailyTotals(actions []plan.Action) []plan.Action {
	out := make([]plan.Action, 0, len(actions)+2)

	for _, a := range actions {
		if a.QueryID == plan.QueryHourlySales && a.Params.OrderDate != "" &&
			findPair(actions, plan.QueryMetricTotal, a) == -1 &&
			findPair(out, plan.QueryMetricTotal, a) == -1 {
			out = append(out, counterpart(a, plan.QueryMetricTotal, plan.HintMetric, plan.IntentSingle))
		}
		out = append(out, a)
	}

	for _, a := range actions {
		if a.QueryID == plan.QueryMetricTotal && a.Params.OrderDate != "" &&
			findPair(out, plan.QueryHourlySales, a) == -1 {
			out = append(out, counterpart(a, plan.QueryHourlySales, plan.HintLine, plan.IntentBreakdown))
		}
	}
	return out
}

// Cap truncates the action list to MaxActions.
func Cap(actions []plan.Action) []plan.Action {
	if len(actions) > MaxActions {
		return actions[:MaxActions]
	}
	return actions
}

func findPair(actions []plan.Action, id plan.QueryID, ref plan.Action) int {
	for i, a := range actions {
		if a.QueryID == id && sameScope(a, ref) {
			return i
		}
	}
	return -1
}

// sameScope means exact equality of resolved date, single-location string
// (case-insensitive) and ordered location list (case-insensitive,
// order-sensitive).
func sameScope(a, b plan.Action) bool {
	if a.Params.OrderDate != b.Params.OrderDate {
		return false
	}
	if !strings.EqualFold(a.Params.Location, b.Params.Location) {
		return false
	}
	if len(a.Params.Locations) != len(b.Params.Locations) {
		return false
	}
	for i := range a.Params.Locations {
		if !strings.EqualFold(a.Params.Locations[i], b.Params.Locations[i]) {
			return false
		}
	}
	return true
}

func counterpart(a plan.Action, id plan.QueryID, widget plan.WidgetHint, intent plan.Intent) plan.Action {
	return plan.Action{
		Intent:            intent,
		RecommendedWidget: widget,
		QueryID:           id,
		Params: plan.Params{
			Metric:    a.Params.Metric,
			Location:  a.Params.Location,
			Locations: a.Params.Locations,
			OrderDate: a.Params.OrderDate,
		},
	}
}

func shiftDate(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}
