// Package normalize resolves a raw plan action into a concrete query id
// and the widget that query renders as. The inference runs over the user
// text and the action fields only, never the model's reasoning, because
// the model's text-derived hints are unreliable.
package normalize

import "github.com/omcar04/clave-take-home/internal/plan"

// expectedWidget is the widget each query id renders as. The model's
// suggestion is overridden by this table; category_breakdown is absent
// because both bar and table are legitimate there, so a bar/table choice
// from the model is honoured.
var expectedWidget = map[plan.QueryID]plan.WidgetHint{
	plan.QueryMetricTotal:        plan.HintMetric,
	plan.QueryDoorDashTotal:      plan.HintMetric,
	plan.QuerySalesByLocation:    plan.HintBar,
	plan.QueryDoorDashByLocation: plan.HintBar,
	plan.QueryAOVByLocation:      plan.HintTable,
	plan.QueryTopItems:           plan.HintTable,
	plan.QueryHourlySales:        plan.HintLine,
	plan.QuerySalesByDay:         plan.HintLine,
	plan.QueryChannelSplit:       plan.HintPie,
	plan.QueryTakeoutOrders:      plan.HintBar,
}

// Normalize returns the action with QueryID always set and
// RecommendedWidget set to the widget the resolved query actually renders
// as. A non-empty category parameter is folded into the canonical set.
func Normalize(userText string, a plan.Action) plan.Action {
	q := newQuestion(userText)

	if a.QueryID == "" {
		for _, r := range rules {
			if r.match(q, a) {
				a.QueryID = r.infer(q, a)
				break
			}
		}
	}

	if a.QueryID == plan.QueryCategoryBreakdown {
		if a.Params.Category == "" && q.category != "" {
			a.Params.Category = q.category
		}
	}
	if a.Params.Category != "" {
		a.Params.Category = CanonicalCategory(a.Params.Category)
	}

	a.RecommendedWidget = widgetFor(a)
	return a
}

func widgetFor(a plan.Action) plan.WidgetHint {
	if want, ok := expectedWidget[a.QueryID]; ok {
		return want
	}
	// category_breakdown: honour a bar/table choice, otherwise pick from
	// the action shape the executor will resolve to.
	if a.RecommendedWidget == plan.HintBar || a.RecommendedWidget == plan.HintTable {
		return a.RecommendedWidget
	}
	if a.Params.Category != "" {
		return plan.HintBar
	}
	return plan.HintTable
}
