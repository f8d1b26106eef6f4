package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"example.com/dukatech/client/internal/infra/rest"
)

func newCatalogClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rc, err := rest.NewClient(srv.URL, nil, srv.Client())
	require.NoError(t, err)
	return New(rc)
}

func TestList_SendsOnlyNonEmptyAcceptedFilters(t *testing.T) {
	var got url.Values
	r := chi.NewRouter()
	r.Get("/api/tablets/", func(w http.ResponseWriter, req *http.Request) {
		got = req.URL.Query()
		_, _ = w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
	})
	c := newCatalogClient(t, r)

	_, err := c.Tablets.List(context.Background(), Filter{
		Brand:    "Samsung",
		Category: "Smartphones", // tablets endpoint does not take category
		Search:   "",
		Page:     2,
	})
	require.NoError(t, err)

	require.Equal(t, "Samsung", got.Get("brand"))
	require.Equal(t, "2", got.Get("page"))
	require.False(t, got.Has("search"), "empty filters stay off the wire")
	require.False(t, got.Has("category"), "filters the endpoint does not accept are dropped")
	require.False(t, got.Has("page_size"))
}

func TestList_TelevisionFiltersIncludeSizeBounds(t *testing.T) {
	var got url.Values
	r := chi.NewRouter()
	r.Get("/api/televisions/", func(w http.ResponseWriter, req *http.Request) {
		got = req.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})
	c := newCatalogClient(t, r)

	_, err := c.Televisions.List(context.Background(), Filter{
		Brand:      "LG",
		Panel:      "OLED",
		Resolution: "UHD",
		MinSize:    43,
		MaxSize:    65,
		Ordering:   "-price_min_ksh",
	})
	require.NoError(t, err)

	require.Equal(t, "LG", got.Get("brand"))
	require.Equal(t, "OLED", got.Get("panel"))
	require.Equal(t, "UHD", got.Get("resolution"))
	require.Equal(t, "43", got.Get("min_size"))
	require.Equal(t, "65", got.Get("max_size"))
	require.Equal(t, "-price_min_ksh", got.Get("ordering"))
}

func TestList_NormalizesBothResponseShapes(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/heroes/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Mega Sale"},{"id":2,"name":"New Arrivals"}]`))
	})
	r.Get("/api/smartphones/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count":120,"next":"/api/smartphones/?page=2","previous":null,"results":[{"id":9,"name":"Galaxy"}]}`))
	})
	c := newCatalogClient(t, r)

	heroes, err := c.Heroes.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Equal(t, 2, heroes.Count)
	require.Len(t, heroes.Results, 2)

	phones, err := c.Smartphones.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Equal(t, 120, phones.Count)
	require.Equal(t, "/api/smartphones/?page=2", phones.Next)
	require.Len(t, phones.Results, 1)
}

func TestGet_FetchesSingleItem(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/reallaptops/7/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"name":"ThinkPad X1","brand":"Lenovo","product_id":70}`))
	})
	c := newCatalogClient(t, r)

	item, err := c.Reallaptops.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "ThinkPad X1", item.Name)
	require.True(t, item.Purchasable())
	require.Equal(t, int64(70), *item.ProductID)
}

func TestGet_NotFoundSurfacesDetailMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/tablets/99/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "No Tablet matches the given query."}`))
	})
	c := newCatalogClient(t, r)

	_, err := c.Tablets.Get(context.Background(), 99)
	var apiErr *rest.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "No Tablet matches the given query.", apiErr.Message)
}

func TestNewIphonesBanner(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/new-iphones-banner/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"iPhone 16 Pro launch"}]`))
	})
	c := newCatalogClient(t, r)

	page, err := c.NewIphonesBanner(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
}

func TestList_EveryCallHitsTheNetwork(t *testing.T) {
	var calls int
	r := chi.NewRouter()
	r.Get("/api/storages/", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[]`))
	})
	c := newCatalogClient(t, r)

	for i := 0; i < 3; i++ {
		_, err := c.Storages.List(context.Background(), Filter{})
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls, "no client-side caching")
}
