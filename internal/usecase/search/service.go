// Package search fans one query out across every catalog resource and
// assembles the combined result set.
package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	domcatalog "example.com/dukatech/client/internal/domain/catalog"
	cataloguc "example.com/dukatech/client/internal/usecase/catalog"
)

// Resource names, in the fixed order results are presented. Assembly is by
// name, never by network arrival order.
const (
	Smartphones       = "smartphones"
	Tablets           = "tablets"
	Reallaptops       = "reallaptops"
	Televisions       = "televisions"
	Audio             = "audio"
	Accessories       = "accessories"
	Storages          = "storages"
	Mkopa             = "mkopa"
	LatestOffers      = "latest-offers"
	BudgetSmartphones = "budget-smartphones"
	DialPhones        = "dial-phones"
	NewIphones        = "new-iphones"
)

// Names lists every searched resource in presentation order.
func Names() []string {
	return []string{
		Smartphones, Tablets, Reallaptops, Televisions, Audio, Accessories,
		Storages, Mkopa, LatestOffers, BudgetSmartphones, DialPhones, NewIphones,
	}
}

// Results maps resource name to the matching items. Every name in Names()
// is present, possibly with an empty slice.
type Results map[string][]domcatalog.Item

// Lister is the one catalog operation search needs.
type Lister interface {
	List(ctx context.Context, f cataloguc.Filter) (domcatalog.Page, error)
}

type source struct {
	name   string
	lister Lister
	// optional resources are newer catalog types whose failure must not
	// sink the whole search; they degrade to an empty result.
	optional bool
}

type Service struct {
	sources []source
}

func NewService(c *cataloguc.Client) *Service {
	return &Service{sources: []source{
		{name: Smartphones, lister: c.Smartphones},
		{name: Tablets, lister: c.Tablets},
		{name: Reallaptops, lister: c.Reallaptops},
		{name: Televisions, lister: c.Televisions},
		{name: Audio, lister: c.Audio},
		{name: Accessories, lister: c.Accessories},
		{name: Storages, lister: c.Storages},
		{name: Mkopa, lister: c.Mkopa, optional: true},
		{name: LatestOffers, lister: c.LatestOffers, optional: true},
		{name: BudgetSmartphones, lister: c.BudgetSmartphones, optional: true},
		{name: DialPhones, lister: c.DialPhones, optional: true},
		{name: NewIphones, lister: c.NewIphones, optional: true},
	}}
}

// All runs one list call per resource concurrently and gathers the
// results. A core resource error fails the whole search; an optional
// resource error is swallowed and its slot comes back empty.
func (s *Service) All(ctx context.Context, query string, limit int) (Results, error) {
	g, ctx := errgroup.WithContext(ctx)
	gathered := make([][]domcatalog.Item, len(s.sources))

	for i, src := range s.sources {
		g.Go(func() error {
			page, err := src.lister.List(ctx, cataloguc.Filter{Search: query, PageSize: limit})
			if err != nil {
				if src.optional {
					gathered[i] = []domcatalog.Item{}
					return nil
				}
				return fmt.Errorf("search %s: %w", src.name, err)
			}
			gathered[i] = page.Results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(Results, len(s.sources))
	for i, src := range s.sources {
		items := gathered[i]
		if items == nil {
			items = []domcatalog.Item{}
		}
		out[src.name] = items
	}
	return out, nil
}
