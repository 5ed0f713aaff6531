package scope

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/omcar04/clave-take-home/internal/store"
)

// Provider fetches the reference Context from the store. There is no
// cache: every request sees fresh data. Concurrent requests share one
// in-flight fetch via singleflight, which dedupes load without any
// staleness window.
type Provider struct {
	store store.Store
	sf    singleflight.Group
}

func NewProvider(st store.Store) *Provider {
	return &Provider{store: st}
}

func (p *Provider) Fetch(ctx context.Context) (Context, error) {
	v, err, _ := p.sf.Do("reference", func() (any, error) {
		locations, err := p.store.Locations(ctx)
		if err != nil {
			return Context{}, fmt.Errorf("fetch locations: %w", err)
		}
		min, max, err := p.store.DateRange(ctx)
		if err != nil {
			return Context{}, fmt.Errorf("fetch date range: %w", err)
		}
		return Context{Locations: locations, MinDate: min, MaxDate: max}, nil
	})
	if err != nil {
		return Context{}, err
	}
	return v.(Context), nil
}
