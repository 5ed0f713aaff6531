package plan

// Metric selects which monetary column an aggregation reads.
// Sales is net item revenue before tax, tip and fees; revenue is the gross
// amount charged including all of them.
type Metric string

const (
	MetricSales   Metric = "sales"
	MetricRevenue Metric = "revenue"
)

// Intent classifies the kind of analytical question being asked.
type Intent string

const (
	IntentComparison Intent = "comparison"
	IntentTrend      Intent = "trend"
	IntentBreakdown  Intent = "breakdown"
	IntentRanking    Intent = "ranking"
	IntentSingle     Intent = "single_value"
)

// WidgetHint is the rendering shape the planner may suggest for an action.
type WidgetHint string

const (
	HintBar    WidgetHint = "bar"
	HintLine   WidgetHint = "line"
	HintPie    WidgetHint = "pie"
	HintTable  WidgetHint = "table"
	HintMetric WidgetHint = "metric"
)

// QueryID is the closed allow-list of supported aggregations. The executor
// never runs model-generated query logic, only one of these, parameterised
// by validated filters.
type QueryID string

const (
	QueryMetricTotal        QueryID = "metric_total"
	QueryDoorDashTotal      QueryID = "doordash_total"
	QuerySalesByLocation    QueryID = "sales_by_location"
	QueryDoorDashByLocation QueryID = "doordash_sales_by_location"
	QueryAOVByLocation      QueryID = "aov_by_location"
	QueryTopItems           QueryID = "top_items"
	QueryHourlySales        QueryID = "hourly_sales"
	QuerySalesByDay         QueryID = "sales_by_day"
	QueryChannelSplit       QueryID = "channel_split"
	QueryTakeoutOrders      QueryID = "takeout_orders"
	QueryCategoryBreakdown  QueryID = "category_breakdown"
)

// KnownQueryIDs reports whether id is in the allow-list.
func KnownQueryID(id QueryID) bool {
	_, ok := knownQueryIDs[id]
	return ok
}

var knownQueryIDs = map[QueryID]struct{}{
	QueryMetricTotal:        {},
	QueryDoorDashTotal:      {},
	QuerySalesByLocation:    {},
	QueryDoorDashByLocation: {},
	QueryAOVByLocation:      {},
	QueryTopItems:           {},
	QueryHourlySales:        {},
	QuerySalesByDay:         {},
	QueryChannelSplit:       {},
	QueryTakeoutOrders:      {},
	QueryCategoryBreakdown:  {},
}

// Params are the validated filters an action may carry. Dates are ISO
// calendar dates (YYYY-MM-DD); anything else is treated as "no date".
type Params struct {
	Metric    Metric   `json:"metric,omitempty" validate:"omitempty,oneof=sales revenue"`
	Location  string   `json:"location,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Category  string   `json:"category,omitempty"`
	OrderDate string   `json:"order_date,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// Action is one unit of analytical work. At least one of QueryID and
// RecommendedWidget must be present so the normalizer has something to
// infer from.
type Action struct {
	Intent            Intent     `json:"intent" validate:"omitempty,oneof=comparison trend breakdown ranking single_value"`
	RecommendedWidget WidgetHint `json:"recommended_widget,omitempty" validate:"omitempty,oneof=bar line pie table metric"`
	QueryID           QueryID    `json:"query_id,omitempty"`
	Title             string     `json:"title,omitempty"`
	Note              string     `json:"note,omitempty"`
	Params            Params     `json:"params"`
}

// Plan is the complete planner output. If ClarifyQuestion is set the
// actions are ignored entirely and nothing is queried.
type Plan struct {
	AssistantMessage  string     `json:"assistant_message"`
	ClarifyQuestion   string     `json:"clarify_question,omitempty"`
	Intent            Intent     `json:"intent,omitempty" validate:"omitempty,oneof=comparison trend breakdown ranking single_value"`
	RecommendedWidget WidgetHint `json:"recommended_widget,omitempty" validate:"omitempty,oneof=bar line pie table metric"`
	Actions           []Action   `json:"actions" validate:"dive"`
}
