package store

import "context"

// OrderRow is one order from the enriched orders view.
type OrderRow struct {
	Location       string
	OrderDate      string // YYYY-MM-DD
	OrderHour      int    // 0-23
	ItemSalesCents int64
	TotalCents     int64
	Channel        string // Delivery | Dine-in | Unknown
	IsDoorDash     bool
	IsTakeout      bool
}

// ItemRow is one order line item from the derived items view, already
// joined to its parent order so it carries that order's location and date.
type ItemRow struct {
	Location       string
	OrderDate      string
	NormalizedName string
	Category       string
	LineTotalCents int64
}

// Filter is the set of predicates pushed down to the store. Zero values
// mean "no filter". Location matching is plain string equality against
// view data, so an uncanonicalised name simply matches nothing.
type Filter struct {
	Location     string
	Locations    []string
	Date         string
	StartDate    string
	EndDate      string
	DoorDashOnly bool
	TakeoutOnly  bool
}

// Store is the read-only query surface the analytics pipeline runs
// against. Aggregation happens in the executor over filtered rows; the
// store only filters.
type Store interface {
	Locations(ctx context.Context) ([]string, error)
	DateRange(ctx context.Context) (min, max string, err error)
	Orders(ctx context.Context, f Filter) ([]OrderRow, error)
	OrderItems(ctx context.Context, f Filter) ([]ItemRow, error)
	Ping(ctx context.Context) error
}
