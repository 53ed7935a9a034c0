package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/casklist/casklist/pkg/models"
)

const beerFeed = `{
	"producers": [
		{
			"id": "brew-1",
			"name": "Oakham Ales",
			"location": "Peterborough",
			"products": [
				{"id": "p1", "name": "Citra", "style": "Golden Ale", "abv": "4.2", "status_text": "Plenty left"},
				{"id": "p2", "name": "Green Devil", "style": "IPA", "abv": 6.0, "status_text": "Sold out"}
			]
		},
		{
			"id": "brew-2",
			"name": "Elgood's",
			"products": [
				{"id": "p3", "name": "Black Dog", "abv": 3.6}
			]
		}
	]
}`

func testFestival(base string) models.Festival {
	return models.Festival{ID: "fest-1", Name: "Test Festival", DataBaseURL: base}
}

func newTestClient() *Client {
	return NewClient(5*time.Second, 0, zap.NewNop())
}

func TestFetchCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/beer.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(beerFeed))
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchCategory(context.Background(), testFestival(srv.URL), "beer")
	require.NoError(t, err)
	require.Len(t, drinks, 3)

	first := drinks[0]
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, "Citra", first.Name)
	assert.Equal(t, "Golden Ale", first.Style)
	assert.Equal(t, 4.2, first.ABV)
	assert.Equal(t, "Oakham Ales", first.Brewery.Name)
	assert.Equal(t, "brew-1", first.Brewery.ID)
	assert.Equal(t, "fest-1", first.FestivalID)
	assert.Equal(t, models.AvailabilityPlenty, first.Availability())

	// Defaults applied when the feed omits category and dispense.
	assert.Equal(t, models.CategoryBeer, first.Category)
	assert.Equal(t, "cask", first.Dispense)

	assert.Equal(t, models.AvailabilityOut, drinks[1].Availability())
	assert.Equal(t, "Elgood's", drinks[2].Brewery.Name)
}

func TestFetchCategory_404MeansNotOffered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchCategory(context.Background(), testFestival(srv.URL), "mead")
	require.NoError(t, err)
	assert.Empty(t, drinks)
	assert.NotNil(t, drinks)
}

func TestFetchCategory_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchCategory(context.Background(), testFestival(srv.URL), "beer")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
}

func TestFetchCategory_MissingProducersArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"producers": null}`))
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchCategory(context.Background(), testFestival(srv.URL), "beer")
	require.NoError(t, err)
	assert.Empty(t, drinks)
}

func TestFetchCategory_UTF8IgnoresCharsetHeader(t *testing.T) {
	// Feed bytes are UTF-8 but the server lies about the charset. The
	// parser must decode the raw bytes as UTF-8 regardless.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=iso-8859-1")
		_, _ = w.Write([]byte(`{"producers":[{"id":"b1","name":"Brasserie Dupont","products":[{"id":"p1","name":"Rosé de Gambrinus","abv":5.0}]}]}`))
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchCategory(context.Background(), testFestival(srv.URL), "beer")
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Rosé de Gambrinus", drinks[0].Name)
}

func TestFetchCategory_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(20*time.Millisecond, 0, zap.NewNop())
	_, err := client.FetchCategory(context.Background(), testFestival(srv.URL), "beer")
	require.Error(t, err)

	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestFetchAll_MergesCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/beer.json":
			_, _ = w.Write([]byte(beerFeed))
		case "/cider.json":
			_, _ = w.Write([]byte(`{"producers":[{"id":"c1","name":"Burrow Hill","products":[{"id":"p9","name":"Stoke Red","category":"cider","abv":"6.0"}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchAll(context.Background(), testFestival(srv.URL),
		[]string{"beer", "cider", "mead"})
	require.NoError(t, err)

	// 3 beers + 1 cider; mead 404s into an empty slice. Merge preserves
	// the configured category order.
	require.Len(t, drinks, 4)
	assert.Equal(t, "p1", drinks[0].ID)
	assert.Equal(t, "p9", drinks[3].ID)
	assert.Equal(t, models.CategoryCider, drinks[3].Category)
}

func TestFetchAll_PartialFailureDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/beer.json" {
			_, _ = w.Write([]byte(beerFeed))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	drinks, err := newTestClient().FetchAll(context.Background(), testFestival(srv.URL),
		[]string{"beer", "cider"})
	require.NoError(t, err)
	assert.Len(t, drinks, 3)
}

func TestFetchAll_AllFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchAll(context.Background(), testFestival(srv.URL),
		[]string{"beer", "cider"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAllCategoriesFailed))

	// The underlying status survives the wrap for classification.
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestFetchRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"festivals": [
				{"id": "f1", "name": "Fest One", "data_base_url": "https://example.com/f1", "is_active": true},
				{"id": "f2", "name": "Fest Two", "data_base_url": "https://example.com/f2"}
			],
			"default_festival_id": "f1",
			"version": "3"
		}`))
	}))
	defer srv.Close()

	reg, err := newTestClient().FetchRegistry(context.Background(), srv.URL+"/festivals.json")
	require.NoError(t, err)
	require.Len(t, reg.Festivals, 2)
	assert.Equal(t, "f1", reg.DefaultFestivalID)

	f, ok := reg.Find("f2")
	require.True(t, ok)
	assert.Equal(t, "Fest Two", f.Name)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestFetchRegistry_404IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient().FetchRegistry(context.Background(), srv.URL+"/festivals.json")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}
