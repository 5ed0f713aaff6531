package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Postgres reads the analytics views over database/sql using the pgx
// driver. All methods are read-only.
type Postgres struct {
	db *sql.DB
}

// Open connects to the database behind the given DSN.
func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing handle. Used by tests with sqlmock.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

func (p *Postgres) Locations(ctx context.Context) ([]string, error) {
	query := `
SELECT name
FROM locations
ORDER BY name`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return names, nil
}

func (p *Postgres) DateRange(ctx context.Context) (string, string, error) {
	query := `
SELECT COALESCE(MIN(order_date)::text, ''), COALESCE(MAX(order_date)::text, '')
FROM orders_enriched`
	var min, max string
	if err := p.db.QueryRowContext(ctx, query).Scan(&min, &max); err != nil {
		return "", "", fmt.Errorf("date range: %w", err)
	}
	return min, max, nil
}

func (p *Postgres) Orders(ctx context.Context, f Filter) ([]OrderRow, error) {
	query := `
SELECT location, order_date::text, order_hour, item_sales_cents, total_cents, channel, is_doordash, is_takeout
FROM orders_enriched` + whereClause(f, true)
	rows, err := p.db.QueryContext(ctx, query, whereArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.Location, &o.OrderDate, &o.OrderHour, &o.ItemSalesCents, &o.TotalCents, &o.Channel, &o.IsDoorDash, &o.IsTakeout); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return out, nil
}

func (p *Postgres) OrderItems(ctx context.Context, f Filter) ([]ItemRow, error) {
	query := `
SELECT location, order_date::text, normalized_name, category, line_total_cents
FROM order_items_derived` + whereClause(f, false)
	rows, err := p.db.QueryContext(ctx, query, whereArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var out []ItemRow
	for rows.Next() {
		var it ItemRow
		if err := rows.Scan(&it.Location, &it.OrderDate, &it.NormalizedName, &it.Category, &it.LineTotalCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	return out, nil
}

// whereClause builds predicates in a fixed order so generated SQL is
// deterministic. The flag predicates only exist on the orders view.
func whereClause(f Filter, withFlags bool) string {
	var conds []string
	n := 1
	next := func() string {
		ph := fmt.Sprintf("$%d", n)
		n++
		return ph
	}

	if f.Location != "" {
		conds = append(conds, "location = "+next())
	}
	if len(f.Locations) > 0 {
		phs := make([]string, len(f.Locations))
		for i := range f.Locations {
			phs[i] = next()
		}
		conds = append(conds, "location IN ("+strings.Join(phs, ", ")+")")
	}
	if f.Date != "" {
		conds = append(conds, "order_date = "+next())
	}
	if f.StartDate != "" {
		conds = append(conds, "order_date >= "+next())
	}
	if f.EndDate != "" {
		conds = append(conds, "order_date <= "+next())
	}
	if withFlags {
		if f.DoorDashOnly {
			conds = append(conds, "is_doordash")
		}
		if f.TakeoutOnly {
			conds = append(conds, "is_takeout")
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(conds, " AND ")
}

func whereArgs(f Filter) []any {
	var args []any
	if f.Location != "" {
		args = append(args, f.Location)
	}
	for _, loc := range f.Locations {
		args = append(args, loc)
	}
	if f.Date != "" {
		args = append(args, f.Date)
	}
	if f.StartDate != "" {
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		args = append(args, f.EndDate)
	}
	return args
}
