package normalize

import (
	"regexp"
	"strings"

	"github.com/omcar04/clave-take-home/internal/plan"
)

// question is the pre-computed view of the user text the rules match on.
type question struct {
	lower    string
	category string // canonical category named in the text, "" if none
}

func newQuestion(text string) question {
	lower := strings.ToLower(text)
	return question{lower: lower, category: detectCategoryTerm(lower)}
}

var reRankLocation = regexp.MustCompile(`\b(top|best|highest|worst|lowest)\b[^.?!]*\blocations?\b`)

func (q question) mentionsRanking() bool {
	return strings.Contains(q.lower, "which location") ||
		strings.Contains(q.lower, "what location") ||
		strings.Contains(q.lower, "rank") ||
		reRankLocation.MatchString(q.lower)
}

func (q question) mentionsCategory() bool {
	return strings.Contains(q.lower, "categor") || q.category != ""
}

func (q question) mentionsDoorDash() bool {
	return strings.Contains(q.lower, "doordash") || strings.Contains(q.lower, "door dash")
}

func (q question) mentionsAOV() bool {
	return strings.Contains(q.lower, "average order value") ||
		strings.Contains(q.lower, "avg order") ||
		strings.Contains(q.lower, "aov")
}

func (q question) mentionsOrders() bool {
	return strings.Contains(q.lower, "orders") ||
		strings.Contains(q.lower, "takeout") ||
		strings.Contains(q.lower, "take-out") ||
		strings.Contains(q.lower, "pickup") ||
		strings.Contains(q.lower, "pick up") ||
		strings.Contains(q.lower, "pick-up")
}

// rule infers a query id from the question and the action fields. Rules
// are evaluated in slice order and the first match wins; specific textual
// signals deliberately outrank the widget-type defaults, because the
// model's recommended_widget is coarser than the user's actual intent.
type rule struct {
	name  string
	match func(q question, a plan.Action) bool
	infer func(q question, a plan.Action) plan.QueryID
}

var rules = []rule{
	{
		name: "location_ranking",
		match: func(q question, a plan.Action) bool {
			return q.mentionsRanking() && !q.mentionsCategory()
		},
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QuerySalesByLocation },
	},
	{
		name:  "category",
		match: func(q question, a plan.Action) bool { return q.mentionsCategory() },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryCategoryBreakdown },
	},
	{
		name: "metric_widget",
		match: func(q question, a plan.Action) bool {
			return a.RecommendedWidget == plan.HintMetric
		},
		infer: func(q question, a plan.Action) plan.QueryID {
			if q.mentionsDoorDash() {
				return plan.QueryDoorDashTotal
			}
			return plan.QueryMetricTotal
		},
	},
	{
		name:  "pie_widget",
		match: func(q question, a plan.Action) bool { return a.RecommendedWidget == plan.HintPie },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryChannelSplit },
	},
	{
		name:  "table_widget",
		match: func(q question, a plan.Action) bool { return a.RecommendedWidget == plan.HintTable },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryTopItems },
	},
	{
		name:  "line_widget",
		match: func(q question, a plan.Action) bool { return a.RecommendedWidget == plan.HintLine },
		infer: func(q question, a plan.Action) plan.QueryID {
			if a.Params.OrderDate != "" {
				return plan.QueryHourlySales
			}
			return plan.QuerySalesByDay
		},
	},
	{
		name:  "average_order_value",
		match: func(q question, a plan.Action) bool { return q.mentionsAOV() },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryAOVByLocation },
	},
	{
		name:  "doordash",
		match: func(q question, a plan.Action) bool { return q.mentionsDoorDash() },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryDoorDashByLocation },
	},
	{
		name:  "takeout_orders",
		match: func(q question, a plan.Action) bool { return q.mentionsOrders() },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QueryTakeoutOrders },
	},
	{
		name:  "fallback",
		match: func(q question, a plan.Action) bool { return true },
		infer: func(q question, a plan.Action) plan.QueryID { return plan.QuerySalesByLocation },
	},
}
