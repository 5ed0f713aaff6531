package planner

import (
	"fmt"
	"strings"

	"github.com/omcar04/clave-take-home/internal/scope"
)

// basePrompt is the fixed instruction block. It teaches the model the
// metric definitions, the enumerated intents and widgets, the mapping
// from widget type to candidate query ids, the category rules, and the
// two hard behavioral rules that hold regardless of model output.
const basePrompt = `You are the planning layer of a restaurant analytics assistant. Convert the user's question into a JSON plan of analytics actions.

METRICS (choose carefully, this is load-bearing):
- "sales" = net item revenue BEFORE tax, tip and fees
- "revenue" = gross amount charged INCLUDING tax, tip and fees
If the user says "revenue", "gross" or "total charged", use revenue. Otherwise default to sales.

INTENTS: comparison | trend | breakdown | ranking | single_value
WIDGETS: bar | line | pie | table | metric

QUERY IDS and the widget each one renders as:
- metric_total (metric): total sales or revenue for a scope
- doordash_total (metric): DoorDash total, always gross
- sales_by_location (bar): per-location totals, ranked
- doordash_sales_by_location (bar): DoorDash totals per location
- aov_by_location (table): average order value per location
- top_items (table): best selling items
- hourly_sales (line): one day broken down by hour
- sales_by_day (line): daily trend over a date range
- channel_split (pie): delivery vs dine-in
- takeout_orders (bar): takeout/pickup order counts per location
- category_breakdown (bar or table): category analysis

CATEGORY RULES: categories are exactly Beverages, Food, Desserts, Other. Normalize words like "drinks" to Beverages, "entrees" to Food, "sweets" to Desserts.

HARD RULES:
1. A request for a specific day's total must yield exactly two actions: one single_value/metric action AND one breakdown/line hourly action for the same day and scope, in that order.
2. A "which location is highest/best" question must yield exactly one ranking/bar action with NO category filter.

Dates are ISO YYYY-MM-DD. Use only locations from the known list. Never invent dates outside the available range. If the question is too ambiguous to answer, set "clarify_question" and return no actions.

Respond with ONLY this JSON shape, no prose:
{
  "assistant_message": "one or two sentences answering in plain language",
  "clarify_question": "only when you cannot proceed",
  "intent": "...",
  "recommended_widget": "...",
  "actions": [
    {
      "intent": "...",
      "recommended_widget": "...",
      "query_id": "...",
      "title": "short human title",
      "params": {
        "metric": "sales|revenue",
        "location": "...",
        "locations": ["..."],
        "category": "...",
        "order_date": "YYYY-MM-DD",
        "start_date": "YYYY-MM-DD",
        "end_date": "YYYY-MM-DD",
        "limit": 10
      }
    }
  ]
}
Omit params you do not need. At most 3 actions.`

// BuildPrompt assembles the deterministic planning prompt: fixed
// instructions, then the per-request reference data and resolver hints,
// then the question itself.
func BuildPrompt(ref scope.Context, hints scope.Hints, query, clarification string) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	sb.WriteString("\n\nKNOWN LOCATIONS: ")
	sb.WriteString(strings.Join(ref.Locations, ", "))
	fmt.Fprintf(&sb, "\nAVAILABLE DATE RANGE: %s to %s (inclusive)", ref.MinDate, ref.MaxDate)

	fmt.Fprintf(&sb, "\nDETECTED METRIC HINT: %s", hints.Metric)
	if len(hints.Locations) > 0 {
		fmt.Fprintf(&sb, "\nDETECTED LOCATIONS: %s", strings.Join(hints.Locations, ", "))
	}
	if hints.Date != "" {
		fmt.Fprintf(&sb, "\nDETECTED DATE: %s", hints.Date)
	}

	fmt.Fprintf(&sb, "\n\nUSER QUESTION: %s", query)
	if clarification != "" {
		fmt.Fprintf(&sb, "\nUSER CLARIFICATION: %s", clarification)
	}
	return sb.String()
}
