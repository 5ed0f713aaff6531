package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/plan"
	"github.com/omcar04/clave-take-home/internal/scope"
	"github.com/omcar04/clave-take-home/internal/store"
)

// fakeStore filters in memory the same way the SQL views do.
type fakeStore struct {
	orders []store.OrderRow
	items  []store.ItemRow
}

func (s *fakeStore) Locations(context.Context) ([]string, error) {
	return []string{"Downtown", "Airport", "Mall", "University"}, nil
}

func (s *fakeStore) DateRange(context.Context) (string, string, error) {
	return "2025-01-01", "2025-01-31", nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func matchLocation(loc string, f store.Filter) bool {
	if f.Location != "" && loc != f.Location {
		return false
	}
	if len(f.Locations) > 0 {
		found := false
		for _, l := range f.Locations {
			if l == loc {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchDate(date string, f store.Filter) bool {
	if f.Date != "" && date != f.Date {
		return false
	}
	if f.StartDate != "" && date < f.StartDate {
		return false
	}
	if f.EndDate != "" && date > f.EndDate {
		return false
	}
	return true
}

func (s *fakeStore) Orders(_ context.Context, f store.Filter) ([]store.OrderRow, error) {
	var out []store.OrderRow
	for _, o := range s.orders {
		if !matchLocation(o.Location, f) || !matchDate(o.OrderDate, f) {
			continue
		}
		if f.DoorDashOnly && !o.IsDoorDash {
			continue
		}
		if f.TakeoutOnly && !o.IsTakeout {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeStore) OrderItems(_ context.Context, f store.Filter) ([]store.ItemRow, error) {
	var out []store.ItemRow
	for _, it := range s.items {
		if !matchLocation(it.Location, f) || !matchDate(it.OrderDate, f) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

var testRef = scope.Context{
	Locations: []string{"Downtown", "Airport", "Mall", "University"},
	MinDate:   "2025-01-01",
	MaxDate:   "2025-01-31",
}

func testStore() *fakeStore {
	return &fakeStore{
		orders: []store.OrderRow{
			{Location: "Downtown", OrderDate: "2025-01-03", OrderHour: 12, ItemSalesCents: 2000, TotalCents: 2500, Channel: "Dine-in"},
			{Location: "Downtown", OrderDate: "2025-01-03", OrderHour: 18, ItemSalesCents: 3000, TotalCents: 3600, Channel: "Delivery", IsDoorDash: true, IsTakeout: true},
			{Location: "Airport", OrderDate: "2025-01-03", OrderHour: 12, ItemSalesCents: 4000, TotalCents: 4700, Channel: "Dine-in"},
			{Location: "Airport", OrderDate: "2025-01-04", OrderHour: 9, ItemSalesCents: 1000, TotalCents: 1200, Channel: "Unknown", IsTakeout: true},
			{Location: "Mall", OrderDate: "2025-01-31", OrderHour: 20, ItemSalesCents: 5000, TotalCents: 6000, Channel: "Delivery", IsDoorDash: true},
		},
		items: []store.ItemRow{
			{Location: "Downtown", OrderDate: "2025-01-03", NormalizedName: "Latte", Category: "Beverages", LineTotalCents: 900},
			{Location: "Downtown", OrderDate: "2025-01-03", NormalizedName: "Burger", Category: "Food", LineTotalCents: 1100},
			{Location: "Airport", OrderDate: "2025-01-03", NormalizedName: "Latte", Category: "Beverages", LineTotalCents: 1800},
			{Location: "Airport", OrderDate: "2025-01-03", NormalizedName: "Cake", Category: "Desserts", LineTotalCents: 2200},
			{Location: "Mall", OrderDate: "2025-01-31", NormalizedName: "Burger", Category: "Food", LineTotalCents: 5000},
		},
	}
}

func action(q plan.QueryID, p plan.Params) plan.Action {
	return plan.Action{QueryID: q, Params: p}
}

func TestMetricTotalSalesVsRevenue(t *testing.T) {
	e := New(testStore())

	w, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{OrderDate: "2025-01-03"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetMetric || w.Metric == nil {
		t.Fatalf("kind = %q, metric = %v", w.Kind, w.Metric)
	}
	if w.Metric.Value != 9000 {
		t.Errorf("sales total = %d, want 9000", w.Metric.Value)
	}
	if w.Title != "Sales on 2025-01-03" {
		t.Errorf("title = %q", w.Title)
	}

	w, err = e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{Metric: plan.MetricRevenue, OrderDate: "2025-01-03"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Metric.Value != 10800 {
		t.Errorf("revenue total = %d, want 10800", w.Metric.Value)
	}
}

func TestMetricHintUsedWhenParamAbsent(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{OrderDate: "2025-01-03"}), testRef, plan.MetricRevenue)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Metric.Value != 10800 {
		t.Errorf("total = %d, want revenue 10800", w.Metric.Value)
	}
}

func TestDoorDashTotalIsAlwaysGross(t *testing.T) {
	e := New(testStore())
	// metric=sales must not downgrade a platform total to net
	w, err := e.Run(context.Background(), action(plan.QueryDoorDashTotal, plan.Params{Metric: plan.MetricSales}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Metric.Value != 3600+6000 {
		t.Errorf("doordash total = %d, want 9600", w.Metric.Value)
	}
}

func TestSalesByLocationSortedDesc(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QuerySalesByLocation, plan.Params{}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []models.Row{
		{Label: "Downtown", Value: 5000},
		{Label: "Airport", Value: 5000},
		{Label: "Mall", Value: 5000},
	}
	// ties broken ascending by label
	wantOrder := []string{"Airport", "Downtown", "Mall"}
	if len(w.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(w.Rows), len(want))
	}
	for i, label := range wantOrder {
		if w.Rows[i].Label != label {
			t.Errorf("rows[%d] = %q, want %q", i, w.Rows[i].Label, label)
		}
		if w.Rows[i].Value != 5000 {
			t.Errorf("rows[%d].Value = %d, want 5000", i, w.Rows[i].Value)
		}
	}
}

func TestMetricTotalEqualsSumOfLocationRows(t *testing.T) {
	e := New(testStore())
	total, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	byLoc, err := e.Run(context.Background(), action(plan.QuerySalesByLocation, plan.Params{}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var sum int64
	for _, r := range byLoc.Rows {
		sum += r.Value
	}
	if sum != total.Metric.Value {
		t.Errorf("sum(by location) = %d, total = %d", sum, total.Metric.Value)
	}
}

func TestAOVByLocationRounding(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryAOVByLocation, plan.Params{}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetAOV {
		t.Fatalf("kind = %q", w.Kind)
	}
	got := make(map[string]models.AOVRow)
	for _, r := range w.AOV {
		got[r.Location] = r
	}
	// Downtown: (2500+3600)/2 = 3050 exact; Airport: (4700+1200+1)/2 = 2950 rounded
	if r := got["Downtown"]; r.AOVCents != 3050 || r.Orders != 2 {
		t.Errorf("Downtown = %+v", r)
	}
	if r := got["Airport"]; r.AOVCents != 2950 || r.Orders != 2 {
		t.Errorf("Airport = %+v", r)
	}
	if r := got["Mall"]; r.AOVCents != 6000 || r.Orders != 1 {
		t.Errorf("Mall = %+v", r)
	}
	if w.AOV[0].Location != "Mall" {
		t.Errorf("AOV not sorted desc, first = %q", w.AOV[0].Location)
	}
}

func TestTopItemsLimitClamped(t *testing.T) {
	e := New(testStore())
	tests := []struct {
		limit     int
		wantRows  int
		wantTitle string
	}{
		{0, 3, "Top 10 items"},
		{2, 2, "Top 2 items"},
		{-3, 1, "Top 1 items"},
		{500, 3, "Top 50 items"},
	}
	for _, tt := range tests {
		w, err := e.Run(context.Background(), action(plan.QueryTopItems, plan.Params{Limit: tt.limit}), testRef, "")
		if err != nil {
			t.Fatalf("Run(limit=%d) error = %v", tt.limit, err)
		}
		if len(w.Rows) != tt.wantRows {
			t.Errorf("limit %d: rows = %d, want %d", tt.limit, len(w.Rows), tt.wantRows)
		}
		if w.Title != tt.wantTitle {
			t.Errorf("limit %d: title = %q, want %q", tt.limit, w.Title, tt.wantTitle)
		}
	}
}

func TestTopItemsAggregatesAcrossLocations(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryTopItems, plan.Params{Limit: 1}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Rows[0].Label != "Burger" || w.Rows[0].Value != 6100 {
		t.Errorf("top item = %+v, want Burger 6100", w.Rows[0])
	}
}

func TestHourlySalesDense24Points(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryHourlySales, plan.Params{OrderDate: "2025-01-03", Location: "Downtown"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetLine {
		t.Fatalf("kind = %q", w.Kind)
	}
	if len(w.Points) != 24 {
		t.Fatalf("points = %d, want 24", len(w.Points))
	}
	if w.Points[0].Label != "00:00" || w.Points[23].Label != "23:00" {
		t.Errorf("labels = %q..%q", w.Points[0].Label, w.Points[23].Label)
	}
	if w.Points[12].Value != 2000 || w.Points[18].Value != 3000 {
		t.Errorf("hour values = %d@12 %d@18", w.Points[12].Value, w.Points[18].Value)
	}
	if w.Points[3].Value != 0 {
		t.Errorf("empty hour should be zero, got %d", w.Points[3].Value)
	}
	if w.Title != "Hourly sales on 2025-01-03 at Downtown" {
		t.Errorf("title = %q", w.Title)
	}
}

func TestSalesByDaySparseAscending(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QuerySalesByDay, plan.Params{StartDate: "2025-01-01", EndDate: "2025-01-31"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantLabels := []string{"2025-01-03", "2025-01-04", "2025-01-31"}
	if len(w.Points) != len(wantLabels) {
		t.Fatalf("points = %d, want %d (no zero-fill)", len(w.Points), len(wantLabels))
	}
	for i, l := range wantLabels {
		if w.Points[i].Label != l {
			t.Errorf("points[%d] = %q, want %q", i, w.Points[i].Label, l)
		}
	}
}

func TestChannelSplitDropsZeroAndNotes(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryChannelSplit, plan.Params{OrderDate: "2025-01-03"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetPie {
		t.Fatalf("kind = %q", w.Kind)
	}
	// only Dine-in and Delivery have data on the 3rd; Unknown is dropped
	if len(w.Rows) != 2 {
		t.Fatalf("rows = %+v, want 2 buckets", w.Rows)
	}
	if w.Rows[0].Label != "Dine-in" || w.Rows[0].Value != 6000 {
		t.Errorf("rows[0] = %+v", w.Rows[0])
	}
	if w.Rows[1].Label != "Delivery" || w.Rows[1].Value != 3000 {
		t.Errorf("rows[1] = %+v", w.Rows[1])
	}
	if !strings.Contains(w.Note, "net sales") {
		t.Errorf("note must state the metric definition, got %q", w.Note)
	}
}

func TestTakeoutOrdersCountsNotCents(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryTakeoutOrders, plan.Params{}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.ValueKind != models.ValueCount {
		t.Errorf("value_kind = %q, want count", w.ValueKind)
	}
	got := make(map[string]int64)
	for _, r := range w.Rows {
		got[r.Label] = r.Value
	}
	if got["Downtown"] != 1 || got["Airport"] != 1 {
		t.Errorf("counts = %v", got)
	}
}

func TestCategoryBreakdownModes(t *testing.T) {
	e := New(testStore())

	// specific category: per-location bar
	w, err := e.Run(context.Background(), plan.Action{
		QueryID: plan.QueryCategoryBreakdown,
		Params:  plan.Params{Category: "Beverages"},
	}, testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetBar {
		t.Errorf("kind = %q, want bar", w.Kind)
	}
	if w.Rows[0].Label != "Airport" || w.Rows[0].Value != 1800 {
		t.Errorf("rows[0] = %+v", w.Rows[0])
	}
	if w.Title != "Beverages sales by location" {
		t.Errorf("title = %q", w.Title)
	}

	// ranking without category: ranks categories, always a table
	w, err = e.Run(context.Background(), plan.Action{
		QueryID:           plan.QueryCategoryBreakdown,
		Intent:            plan.IntentRanking,
		RecommendedWidget: plan.HintBar,
	}, testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Kind != models.WidgetTable {
		t.Errorf("kind = %q, want table", w.Kind)
	}
	var sum int64
	for _, r := range w.Rows {
		sum += r.Value
	}
	if sum != 11000 {
		t.Errorf("category sum = %d, want 11000", sum)
	}
	if w.Rows[0].Label != "Food" || w.Rows[0].Value != 6100 {
		t.Errorf("top category = %+v", w.Rows[0])
	}
}

func TestScopeErrorOutsideDateRange(t *testing.T) {
	e := New(testStore())
	_, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{OrderDate: "2025-02-01"}), testRef, "")
	var scErr *ScopeError
	if !errors.As(err, &scErr) {
		t.Fatalf("err = %v, want ScopeError", err)
	}
	msg := scErr.Error()
	for _, part := range []string{"2025-02-01", "2025-01-01", "2025-01-31"} {
		if !strings.Contains(msg, part) {
			t.Errorf("error %q missing %q", msg, part)
		}
	}
}

func TestBoundaryDatesAccepted(t *testing.T) {
	e := New(testStore())
	for _, date := range []string{"2025-01-01", "2025-01-31"} {
		if _, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{OrderDate: date}), testRef, ""); err != nil {
			t.Errorf("Run(%s) error = %v, boundary dates are in range", date, err)
		}
	}
}

func TestLocationCanonicalizedCaseInsensitively(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{Location: "downtown", OrderDate: "2025-01-03"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Metric.Value != 5000 {
		t.Errorf("total = %d, want 5000 (lowercase name must still match)", w.Metric.Value)
	}
}

func TestUnknownLocationPassesThroughEmpty(t *testing.T) {
	e := New(testStore())
	w, err := e.Run(context.Background(), action(plan.QueryMetricTotal, plan.Params{Location: "Moonbase"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v, unknown locations are not errors", err)
	}
	if w.Metric.Value != 0 {
		t.Errorf("total = %d, want 0 rows matched", w.Metric.Value)
	}
}

func TestUnknownQueryIDRejected(t *testing.T) {
	e := New(testStore())
	_, err := e.Run(context.Background(), action("drop_tables", plan.Params{}), testRef, "")
	if !errors.Is(err, ErrUnsupportedQuery) {
		t.Fatalf("err = %v, want ErrUnsupportedQuery", err)
	}
}

func TestWidgetIDsDeterministic(t *testing.T) {
	e := New(testStore())
	a := action(plan.QuerySalesByLocation, plan.Params{OrderDate: "2025-01-03"})
	w1, err := e.Run(context.Background(), a, testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	w2, err := e.Run(context.Background(), a, testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w1.ID != w2.ID {
		t.Errorf("ids differ: %q vs %q", w1.ID, w2.ID)
	}
	other, err := e.Run(context.Background(), action(plan.QuerySalesByLocation, plan.Params{OrderDate: "2025-01-04"}), testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if other.ID == w1.ID {
		t.Errorf("different scopes must not collide: %q", other.ID)
	}
}

func TestExplicitTitlePreserved(t *testing.T) {
	e := New(testStore())
	a := action(plan.QuerySalesByLocation, plan.Params{})
	a.Title = "Where the money comes from"
	w, err := e.Run(context.Background(), a, testRef, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.Title != "Where the money comes from" {
		t.Errorf("title = %q", w.Title)
	}
}
