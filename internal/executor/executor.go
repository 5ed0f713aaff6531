// Package executor maps each normalized action to one aggregation over
// the data store. All monetary aggregation happens in integer cents, never
// floating point; results are deterministically sorted (descending by
// value, ties broken ascending by label).
package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/observability"
	"github.com/omcar04/clave-take-home/internal/plan"
	"github.com/omcar04/clave-take-home/internal/scope"
	"github.com/omcar04/clave-take-home/internal/store"
)

const (
	defaultItemLimit = 10
	maxItemLimit     = 50
	maxLocations     = 5
)

type Executor struct {
	store store.Store
}

func New(st store.Store) *Executor {
	return &Executor{store: st}
}

// Run resolves one action into a widget. Dates outside the reference
// range fail with a ScopeError; an unknown query id is an internal bug.
func (e *Executor) Run(ctx context.Context, a plan.Action, ref scope.Context, hint plan.Metric) (models.Widget, error) {
	if !plan.KnownQueryID(a.QueryID) {
		return models.Widget{}, fmt.Errorf("%w: %q", ErrUnsupportedQuery, a.QueryID)
	}

	metric := a.Params.Metric
	if metric == "" {
		metric = hint
	}
	if metric == "" {
		metric = plan.MetricSales
	}

	f, err := buildFilter(a.Params, ref)
	if err != nil {
		return models.Widget{}, err
	}

	observability.ExecutorQuery(string(a.QueryID))

	switch a.QueryID {
	case plan.QueryMetricTotal:
		return e.metricTotal(ctx, a, f, metric)
	case plan.QueryDoorDashTotal:
		return e.doordashTotal(ctx, a, f)
	case plan.QuerySalesByLocation:
		return e.salesByLocation(ctx, a, f, metric)
	case plan.QueryDoorDashByLocation:
		return e.doordashByLocation(ctx, a, f)
	case plan.QueryAOVByLocation:
		return e.aovByLocation(ctx, a, f)
	case plan.QueryTopItems:
		return e.topItems(ctx, a, f)
	case plan.QueryHourlySales:
		return e.hourlySales(ctx, a, f, metric)
	case plan.QuerySalesByDay:
		return e.salesByDay(ctx, a, f, metric)
	case plan.QueryChannelSplit:
		return e.channelSplit(ctx, a, f, metric)
	case plan.QueryTakeoutOrders:
		return e.takeoutOrders(ctx, a, f)
	case plan.QueryCategoryBreakdown:
		return e.categoryBreakdown(ctx, a, f, metric)
	default:
		return models.Widget{}, fmt.Errorf("%w: %q", ErrUnsupportedQuery, a.QueryID)
	}
}

// buildFilter canonicalizes locations against the reference set and
// validates every date against the available range. An unmatched location
// passes through verbatim rather than erroring; the store filter is then
// a no-op-safe string comparison.
func buildFilter(p plan.Params, ref scope.Context) (store.Filter, error) {
	var f store.Filter

	f.Date = plan.ScrubDate(p.OrderDate)
	f.StartDate = plan.ScrubDate(p.StartDate)
	f.EndDate = plan.ScrubDate(p.EndDate)
	for _, d := range []string{f.Date, f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if d < ref.MinDate || d > ref.MaxDate {
			return store.Filter{}, &ScopeError{Date: d, MinDate: ref.MinDate, MaxDate: ref.MaxDate}
		}
	}

	if p.Location != "" {
		f.Location = canonicalLocation(p.Location, ref.Locations)
	}
	locs := p.Locations
	if len(locs) > maxLocations {
		locs = locs[:maxLocations]
	}
	for _, loc := range locs {
		f.Locations = append(f.Locations, canonicalLocation(loc, ref.Locations))
	}
	return f, nil
}

func canonicalLocation(raw string, known []string) string {
	for _, name := range known {
		if strings.EqualFold(raw, name) {
			return name
		}
	}
	return raw
}

func metricCents(o store.OrderRow, m plan.Metric) int64 {
	if m == plan.MetricRevenue {
		return o.TotalCents
	}
	return o.ItemSalesCents
}

func metricNoun(m plan.Metric) string {
	if m == plan.MetricRevenue {
		return "revenue"
	}
	return "sales"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func titleOr(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	return fallback
}

// widgetID composes the stable identifier: query id plus every resolved
// scope parameter that shaped the result, in fixed key order.
func widgetID(q plan.QueryID, kv ...string) string {
	parts := []string{string(q)}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			parts = append(parts, kv[i]+"="+kv[i+1])
		}
	}
	return strings.Join(parts, "|")
}

func scopeKV(f store.Filter) []string {
	return []string{
		"date", f.Date,
		"start", f.StartDate,
		"end", f.EndDate,
		"loc", f.Location,
		"locs", strings.Join(f.Locations, "+"),
	}
}

func sortRowsDesc(rows []models.Row) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Label < rows[j].Label
	})
}

func rowsFromMap(sums map[string]int64) []models.Row {
	rows := make([]models.Row, 0, len(sums))
	for label, v := range sums {
		rows = append(rows, models.Row{Label: label, Value: v})
	}
	sortRowsDesc(rows)
	return rows
}

func scopeSuffix(f store.Filter) string {
	switch {
	case f.Location != "":
		return " at " + f.Location
	case len(f.Locations) > 0:
		return " at " + strings.Join(f.Locations, ", ")
	}
	return ""
}

func (e *Executor) metricTotal(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	var total int64
	for _, o := range orders {
		total += metricCents(o, metric)
	}

	title := "Total " + metricNoun(metric)
	if f.Date != "" {
		title = fmt.Sprintf("%s on %s", titleCase(metricNoun(metric)), f.Date)
	}
	title += scopeSuffix(f)

	return models.Widget{
		ID:        widgetID(a.QueryID, append([]string{"metric", string(metric)}, scopeKV(f)...)...),
		Kind:      models.WidgetMetric,
		Title:     titleOr(a.Title, title),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Metric:    &models.MetricPayload{Value: total},
	}, nil
}

// doordashTotal is always gross: platform totals are defined as the full
// charged amount regardless of the requested metric.
func (e *Executor) doordashTotal(ctx context.Context, a plan.Action, f store.Filter) (models.Widget, error) {
	f.DoorDashOnly = true
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	var total int64
	for _, o := range orders {
		total += o.TotalCents
	}

	title := "DoorDash revenue"
	if f.Date != "" {
		title += " on " + f.Date
	}
	title += scopeSuffix(f)

	return models.Widget{
		ID:        widgetID(a.QueryID, scopeKV(f)...),
		Kind:      models.WidgetMetric,
		Title:     titleOr(a.Title, title),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Metric:    &models.MetricPayload{Value: total},
	}, nil
}

func (e *Executor) salesByLocation(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	sums := make(map[string]int64)
	for _, o := range orders {
		sums[o.Location] += metricCents(o, metric)
	}

	return models.Widget{
		ID:        widgetID(a.QueryID, append([]string{"metric", string(metric)}, scopeKV(f)...)...),
		Kind:      models.WidgetBar,
		Title:     titleOr(a.Title, titleCase(metricNoun(metric))+" by location"),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Rows:      rowsFromMap(sums),
	}, nil
}

func (e *Executor) doordashByLocation(ctx context.Context, a plan.Action, f store.Filter) (models.Widget, error) {
	f.DoorDashOnly = true
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	sums := make(map[string]int64)
	for _, o := range orders {
		sums[o.Location] += o.TotalCents
	}

	return models.Widget{
		ID:        widgetID(a.QueryID, scopeKV(f)...),
		Kind:      models.WidgetBar,
		Title:     titleOr(a.Title, "DoorDash revenue by location"),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Rows:      rowsFromMap(sums),
	}, nil
}

func (e *Executor) aovByLocation(ctx context.Context, a plan.Action, f store.Filter) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	totals := make(map[string]int64)
	counts := make(map[string]int64)
	for _, o := range orders {
		totals[o.Location] += o.TotalCents
		counts[o.Location]++
	}

	rows := make([]models.AOVRow, 0, len(totals))
	for loc, total := range totals {
		n := counts[loc]
		rows = append(rows, models.AOVRow{
			Location: loc,
			AOVCents: (total + n/2) / n, // round to nearest cent
			Orders:   n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AOVCents != rows[j].AOVCents {
			return rows[i].AOVCents > rows[j].AOVCents
		}
		return rows[i].Location < rows[j].Location
	})

	return models.Widget{
		ID:        widgetID(a.QueryID, scopeKV(f)...),
		Kind:      models.WidgetAOV,
		Title:     titleOr(a.Title, "Average order value by location"),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		AOV:       rows,
	}, nil
}

func (e *Executor) topItems(ctx context.Context, a plan.Action, f store.Filter) (models.Widget, error) {
	items, err := e.store.OrderItems(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	sums := make(map[string]int64)
	for _, it := range items {
		sums[it.NormalizedName] += it.LineTotalCents
	}
	rows := rowsFromMap(sums)

	limit := a.Params.Limit
	if limit == 0 {
		limit = defaultItemLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxItemLimit {
		limit = maxItemLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	return models.Widget{
		ID:        widgetID(a.QueryID, append(scopeKV(f), "limit", fmt.Sprintf("%d", limit))...),
		Kind:      models.WidgetTable,
		Title:     titleOr(a.Title, fmt.Sprintf("Top %d items", limit)),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Rows:      rows,
	}, nil
}

// hourlySales emits all 24 hours even when zero, so charts never show
// gaps.
func (e *Executor) hourlySales(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	var hours [24]int64
	for _, o := range orders {
		if o.OrderHour >= 0 && o.OrderHour < 24 {
			hours[o.OrderHour] += metricCents(o, metric)
		}
	}
	points := make([]models.Point, 24)
	for h := range hours {
		points[h] = models.Point{Label: fmt.Sprintf("%02d:00", h), Value: hours[h]}
	}

	title := "Hourly " + metricNoun(metric)
	if f.Date != "" {
		title += " on " + f.Date
	}
	title += scopeSuffix(f)

	return models.Widget{
		ID:        widgetID(a.QueryID, append([]string{"metric", string(metric)}, scopeKV(f)...)...),
		Kind:      models.WidgetLine,
		Title:     titleOr(a.Title, title),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Points:    points,
	}, nil
}

// salesByDay emits only dates with data, ascending. A sparse series,
// unlike the dense hourly one.
func (e *Executor) salesByDay(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	sums := make(map[string]int64)
	for _, o := range orders {
		sums[o.OrderDate] += metricCents(o, metric)
	}
	points := make([]models.Point, 0, len(sums))
	for date, v := range sums {
		points = append(points, models.Point{Label: date, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })

	title := "Daily " + metricNoun(metric)
	if f.StartDate != "" && f.EndDate != "" {
		title += fmt.Sprintf(" %s to %s", f.StartDate, f.EndDate)
	}
	title += scopeSuffix(f)

	return models.Widget{
		ID:        widgetID(a.QueryID, append([]string{"metric", string(metric)}, scopeKV(f)...)...),
		Kind:      models.WidgetLine,
		Title:     titleOr(a.Title, title),
		Note:      a.Note,
		ValueKind: models.ValueCents,
		Points:    points,
	}, nil
}

func (e *Executor) channelSplit(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	sums := map[string]int64{"Delivery": 0, "Dine-in": 0, "Unknown": 0}
	for _, o := range orders {
		switch o.Channel {
		case "Delivery", "Dine-in":
			sums[o.Channel] += metricCents(o, metric)
		default:
			sums["Unknown"] += metricCents(o, metric)
		}
	}
	// zero buckets are dropped from pie output
	for label, v := range sums {
		if v == 0 {
			delete(sums, label)
		}
	}

	note := "Using net sales (before tax, tip and fees)."
	if metric == plan.MetricRevenue {
		note = "Using gross revenue (including tax, tip and fees)."
	}

	return models.Widget{
		ID:        widgetID(a.QueryID, append([]string{"metric", string(metric)}, scopeKV(f)...)...),
		Kind:      models.WidgetPie,
		Title:     titleOr(a.Title, "Delivery vs dine-in"),
		Note:      note,
		ValueKind: models.ValueCents,
		Rows:      rowsFromMap(sums),
	}, nil
}

// takeoutOrders counts orders, it does not sum money; the widget is
// labelled accordingly.
func (e *Executor) takeoutOrders(ctx context.Context, a plan.Action, f store.Filter) (models.Widget, error) {
	f.TakeoutOnly = true
	orders, err := e.store.Orders(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}
	counts := make(map[string]int64)
	for _, o := range orders {
		counts[o.Location]++
	}

	return models.Widget{
		ID:        widgetID(a.QueryID, scopeKV(f)...),
		Kind:      models.WidgetBar,
		Title:     titleOr(a.Title, "Takeout orders by location"),
		Note:      a.Note,
		ValueKind: models.ValueCount,
		Rows:      rowsFromMap(counts),
	}, nil
}

// categoryBreakdown joins line items (tagged with a canonical category) to
// their parent orders' location and date scope. Three output modes:
// a specific category gives per-location sums; a ranking intent with no
// category ranks the categories themselves; anything else falls back to a
// flattened location-by-category table, so this query id is never a dead
// end even when planning was ambiguous.
func (e *Executor) categoryBreakdown(ctx context.Context, a plan.Action, f store.Filter, metric plan.Metric) (models.Widget, error) {
	items, err := e.store.OrderItems(ctx, f)
	if err != nil {
		return models.Widget{}, err
	}

	category := a.Params.Category
	id := widgetID(a.QueryID, append([]string{"metric", string(metric), "cat", category}, scopeKV(f)...)...)

	switch {
	case category != "":
		sums := make(map[string]int64)
		for _, it := range items {
			if it.Category == category {
				sums[it.Location] += it.LineTotalCents
			}
		}
		kind := models.WidgetBar
		if a.RecommendedWidget == plan.HintTable {
			kind = models.WidgetTable
		}
		return models.Widget{
			ID:        id,
			Kind:      kind,
			Title:     titleOr(a.Title, category+" sales by location"),
			Note:      a.Note,
			ValueKind: models.ValueCents,
			Rows:      rowsFromMap(sums),
		}, nil

	case a.Intent == plan.IntentRanking:
		sums := make(map[string]int64)
		for _, it := range items {
			sums[it.Category] += it.LineTotalCents
		}
		return models.Widget{
			ID:        id,
			Kind:      models.WidgetTable,
			Title:     titleOr(a.Title, "Sales by category"),
			Note:      a.Note,
			ValueKind: models.ValueCents,
			Rows:      rowsFromMap(sums),
		}, nil

	default:
		sums := make(map[string]int64)
		for _, it := range items {
			sums[it.Location+" · "+it.Category] += it.LineTotalCents
		}
		return models.Widget{
			ID:        id,
			Kind:      models.WidgetTable,
			Title:     titleOr(a.Title, "Sales by location and category"),
			Note:      a.Note,
			ValueKind: models.ValueCents,
			Rows:      rowsFromMap(sums),
		}, nil
	}
}
