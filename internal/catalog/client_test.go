package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageOf builds a /pokemon page with sequential ids starting at offset+1.
func pageOf(baseURL string, count, offset, limit int) PageResponse {
	resp := PageResponse{Count: count}
	for i := 0; i < limit && offset+i < count; i++ {
		id := offset + i + 1
		resp.Results = append(resp.Results, NamedResource{
			Name: fmt.Sprintf("mon-%d", id),
			URL:  fmt.Sprintf("%s/pokemon/%d/", baseURL, id),
		})
	}
	return resp
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithRateLimit(0), WithHTTPClient(srv.Client())), srv
}

func TestTimeoutLeavesSharedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	for _, opts := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(2 * time.Second)},
		{WithTimeout(2 * time.Second), WithHTTPClient(shared)},
	} {
		c := NewClient("http://example.invalid", opts...)
		assert.Equal(t, 2*time.Second, c.client.Timeout)
		assert.NotSame(t, shared, c.client)
	}
	assert.Equal(t, time.Minute, shared.Timeout, "caller's client must keep its timeout")

	other := NewClient("http://example.invalid", WithHTTPClient(shared))
	assert.Same(t, shared, other.client)
	assert.Equal(t, time.Minute, other.client.Timeout)
}

func TestGetPage(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(pageOf("https://pokeapi.co/api/v2", 1302, 0, 20))
	})

	page, err := c.GetPage(context.Background(), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, "limit=20&offset=0", gotQuery)
	assert.Equal(t, 1302, page.Count)
	assert.Len(t, page.Results, 20)
	assert.Equal(t, "mon-1", page.Results[0].Name)
}

func TestGetAllUsesLargeLimit(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10000", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(pageOf("x", 3, 0, 10000))
	})

	all, err := c.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.Results, 3)
}

func TestGetCategories(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/type", r.URL.Path)
		fmt.Fprint(w, `{"count":3,"results":[{"name":"normal","url":"u/1/"},{"name":"fire","url":"u/10/"},{"name":"shadow","url":"u/10002/"}]}`)
	})

	cats, err := c.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"normal", "fire", "shadow"}, cats.Names())
}

func TestGetTypeMembers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/type/fire", r.URL.Path)
		fmt.Fprint(w, `{"id":10,"name":"fire","pokemon":[
			{"pokemon":{"name":"charmander","url":"https://pokeapi.co/api/v2/pokemon/4/"},"slot":1},
			{"pokemon":{"name":"charizard","url":"https://pokeapi.co/api/v2/pokemon/6/"},"slot":1}
		]}`)
	})

	members, err := c.GetTypeMembers(context.Background(), "fire")
	require.NoError(t, err)
	refs := MapRefs(members.Members())
	assert.Equal(t, []EntityRef{{ID: 4, Name: "charmander"}, {ID: 6, Name: "charizard"}}, refs)
}

func TestGetTypeMembersEmptyCategory(t *testing.T) {
	c := NewClient("http://unused.invalid", WithRateLimit(0))
	_, err := c.GetTypeMembers(context.Background(), "")
	assert.Error(t, err)
}

func TestGetDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon/pikachu", r.URL.Path)
		fmt.Fprint(w, `{
			"id": 25, "name": "pikachu", "height": 4, "weight": 60,
			"sprites": {"other": {"official-artwork": {"front_default": null}}},
			"stats": [{"base_stat": 35, "stat": {"name": "hp"}}, {"base_stat": 255, "stat": {"name": "special-attack"}}],
			"types": [{"slot": 1, "type": {"name": "electric"}}],
			"abilities": [{"ability": {"name": "static"}, "is_hidden": false}, {"ability": {"name": "lightning-rod"}, "is_hidden": true}]
		}`)
	})

	d, err := c.GetDetail(context.Background(), "Pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, d.ID)
	assert.InDelta(t, 0.4, d.HeightMeters(), 1e-9)
	assert.InDelta(t, 6.0, d.WeightKg(), 1e-9)
	assert.Equal(t, []string{"electric"}, d.TypeNames())
	assert.Equal(t, 35, d.Stats[0].BarValue())
	assert.Equal(t, 200, d.Stats[1].BarValue(), "bars are capped at 200")
	assert.True(t, d.Abilities[1].IsHidden)
	assert.Equal(t, ArtworkURL(25), d.Artwork(), "null artwork falls back to the CDN")
}

func TestTransportError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})

	_, err := c.GetPage(context.Background(), 0, 20)
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
	assert.Equal(t, "/pokemon", te.Path)
	assert.Equal(t, "request failed with status 503", err.Error())
	assert.Equal(t, 503, StatusOf(err))
	assert.Equal(t, 0, StatusOf(errors.New("other")))
}

func TestNoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetCategories(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"count": "lots"`)
	})

	_, err := c.GetPage(context.Background(), 0, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /pokemon")
	assert.Equal(t, 0, StatusOf(err))
}

func TestContextCanceled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetPage(ctx, 0, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserAgentHeader(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "test-agent"))
		fmt.Fprint(w, `{"results":[]}`)
	})
	c = NewClient(srv.URL+"/", WithRateLimit(0), WithUserAgent("test-agent/1"))

	_, err := c.GetCategories(context.Background())
	require.NoError(t, err)
}
