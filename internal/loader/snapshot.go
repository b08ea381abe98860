package loader

import (
	"context"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"enterprise-audit-dashboard/internal/fixtures"
)

// UnitSource fetches one business unit's snapshot. The Loader itself is the
// default source (fixture files); the warehouse connector is the alternate.
type UnitSource interface {
	FetchUnit(ctx context.Context, slug, quarter string) (*fixtures.UnitFixture, error)
}

// FetchUnit implements UnitSource over the fixture files.
func (l *Loader) FetchUnit(ctx context.Context, slug, quarter string) (*fixtures.UnitFixture, error) {
	var unit fixtures.UnitFixture
	if err := l.Load(ctx, fixtures.UnitPath(slug, quarter), &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Snapshot is everything one reporting quarter needs for aggregation.
type Snapshot struct {
	Quarter    string
	Enterprise *fixtures.EnterpriseDashboard
	Units      []fixtures.UnitFixture
	Missing    []string
	Trends     *fixtures.HistoricalTrends
}

// LoadSnapshot fans out over the enterprise fixture and the fifteen unit
// fixtures and joins the results. The enterprise fixture is mandatory; its
// failure aborts the snapshot. Unit failures are logged, recorded in Missing,
// and the unit is simply absent from every aggregate. The historical-trends
// fixture is optional; views fall back to the synthetic series without it.
func (l *Loader) LoadSnapshot(ctx context.Context, quarter string, units UnitSource) (*Snapshot, error) {
	if units == nil {
		units = l
	}

	var enterprise fixtures.EnterpriseDashboard
	if err := l.Load(ctx, fixtures.EnterprisePath(quarter), &enterprise); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Quarter:    quarter,
		Enterprise: &enterprise,
	}

	var (
		mu     sync.Mutex
		loaded = make(map[string]fixtures.UnitFixture, len(fixtures.UnitSlugs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.fanout)
	for _, slug := range fixtures.UnitSlugs {
		slug := slug
		g.Go(func() error {
			unit, err := units.FetchUnit(gctx, slug, quarter)
			if err != nil {
				log.Printf("loader: skipping unit %s for %s: %v", slug, quarter, err)
				mu.Lock()
				snap.Missing = append(snap.Missing, slug)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			loaded[slug] = *unit
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Catalog order keeps aggregate output and top-N tie-breaks stable.
	for _, slug := range fixtures.UnitSlugs {
		if unit, ok := loaded[slug]; ok {
			snap.Units = append(snap.Units, unit)
		}
	}
	sort.Strings(snap.Missing)

	var trends fixtures.HistoricalTrends
	if err := l.Load(ctx, fixtures.TrendsPath, &trends); err != nil {
		log.Printf("loader: historical trends unavailable: %v", err)
	} else {
		snap.Trends = &trends
	}

	return snap, nil
}
