// Package catalog exposes one thin list/get client per storefront
// resource. Every call is a fresh network request; nothing is cached.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	domcatalog "example.com/dukatech/client/internal/domain/catalog"
	"example.com/dukatech/client/internal/infra/rest"
)

// Filter carries the named query filters a list call may send. Zero values
// mean "no filter" and are omitted from the query string; the "All" choice
// some pickers show must be translated to a zero value before it gets
// here, it never goes on the wire.
type Filter struct {
	Brand      string
	Category   string
	Badge      string
	Label      string
	Panel      string
	Resolution string
	MinSize    int
	MaxSize    int
	Search     string
	Ordering   string
	Page       int
	PageSize   int
}

func (f Filter) params() map[string]string {
	p := map[string]string{
		"brand":      f.Brand,
		"category":   f.Category,
		"badge":      f.Badge,
		"label":      f.Label,
		"panel":      f.Panel,
		"resolution": f.Resolution,
		"search":     f.Search,
		"ordering":   f.Ordering,
	}
	if f.MinSize > 0 {
		p["min_size"] = strconv.Itoa(f.MinSize)
	}
	if f.MaxSize > 0 {
		p["max_size"] = strconv.Itoa(f.MaxSize)
	}
	if f.Page > 0 {
		p["page"] = strconv.Itoa(f.Page)
	}
	if f.PageSize > 0 {
		p["page_size"] = strconv.Itoa(f.PageSize)
	}
	return p
}

// Resource is the uniform list/get client for one catalog entity type.
// accepts lists the filter params the endpoint understands; anything else
// set on the Filter is dropped rather than sent to an endpoint that would
// reject or ignore it.
type Resource struct {
	rc      *rest.Client
	path    string
	accepts []string
}

func newResource(rc *rest.Client, path string, accepts ...string) Resource {
	return Resource{rc: rc, path: path, accepts: accepts}
}

// List fetches one page of the resource. Both response shapes the API
// uses, bare array and paginated envelope, come back as a Page.
func (r Resource) List(ctx context.Context, f Filter) (domcatalog.Page, error) {
	all := f.params()
	send := make(map[string]string, len(r.accepts))
	for _, key := range r.accepts {
		send[key] = all[key]
	}
	var page domcatalog.Page
	if err := r.rc.Get(ctx, r.path+rest.Query(send), &page); err != nil {
		return domcatalog.Page{}, err
	}
	if page.Results == nil {
		page.Results = []domcatalog.Item{}
	}
	return page, nil
}

// Get fetches a single record by id.
func (r Resource) Get(ctx context.Context, id int64) (domcatalog.Item, error) {
	var item domcatalog.Item
	if err := r.rc.Get(ctx, fmt.Sprintf("%s%d/", r.path, id), &item); err != nil {
		return domcatalog.Item{}, err
	}
	return item, nil
}

// Client bundles the per-resource clients.
type Client struct {
	Products          Resource
	Tablets           Resource
	Reallaptops       Resource
	Smartphones       Resource
	Storages          Resource
	Audio             Resource
	Accessories       Resource
	Televisions       Resource
	Mkopa             Resource
	LatestOffers      Resource
	BudgetSmartphones Resource
	DialPhones        Resource
	NewIphones        Resource
	Heroes            Resource

	rc *rest.Client
}

func New(rc *rest.Client) *Client {
	paged := []string{"search", "ordering", "page", "page_size"}
	withBrand := append([]string{"brand"}, paged...)
	withBrandCategory := append([]string{"brand", "category"}, paged...)
	withBadge := append([]string{"badge"}, paged...)

	return &Client{
		Products:          newResource(rc, "/api/products/"),
		Tablets:           newResource(rc, "/api/tablets/", withBrand...),
		Reallaptops:       newResource(rc, "/api/reallaptops/", withBrand...),
		Smartphones:       newResource(rc, "/api/smartphones/", withBrand...),
		Storages:          newResource(rc, "/api/storages/", withBrand...),
		Audio:             newResource(rc, "/api/audio-devices/", withBrandCategory...),
		Accessories:       newResource(rc, "/api/mobile-accessories/", withBrandCategory...),
		Televisions:       newResource(rc, "/api/televisions/", append([]string{"brand", "panel", "resolution", "min_size", "max_size"}, paged...)...),
		Mkopa:             newResource(rc, "/api/mkopa-items/", withBrandCategory...),
		LatestOffers:      newResource(rc, "/api/latest-offers/", append([]string{"brand", "label"}, paged...)...),
		BudgetSmartphones: newResource(rc, "/api/budget-smartphones/", append([]string{"brand"}, withBadge...)...),
		DialPhones:        newResource(rc, "/api/dial-phones/", append([]string{"brand"}, withBadge...)...),
		NewIphones:        newResource(rc, "/api/new-iphones/", withBadge...),
		Heroes:            newResource(rc, "/api/heroes/"),
		rc:                rc,
	}
}

// NewIphonesBanner fetches the promotional banner sub-resource.
func (c *Client) NewIphonesBanner(ctx context.Context) (domcatalog.Page, error) {
	var page domcatalog.Page
	if err := c.rc.Get(ctx, "/api/new-iphones-banner/", &page); err != nil {
		return domcatalog.Page{}, err
	}
	if page.Results == nil {
		page.Results = []domcatalog.Item{}
	}
	return page, nil
}
