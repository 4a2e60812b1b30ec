package httpfinder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/rescache"
	pr "github.com/unkn0wn-root/rescache/provider"
	"github.com/unkn0wn-root/rescache/provider/memory"
)

func widgetsAPI(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/widgets":
			list := []map[string]any{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}}
			if r.URL.Query().Get("color") == "red" {
				list = list[:1]
			}
			_ = json.NewEncoder(w).Encode(list)
		case "/v1/widgets/1":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "a"})
		case "/v1/widgets/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/v1/widgets/blue steel":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "blue steel"})
		default:
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:  srv.URL + "/v1/",
		Resource: "widgets",
		Headers:  map[string]string{"X-Api-Key": "secret"},
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresAbsoluteBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoBaseURL)

	_, err = New(Config{BaseURL: "/relative"})
	assert.Error(t, err)
}

func TestFindShapes(t *testing.T) {
	ctx := context.Background()
	var hits atomic.Int32
	c := newClient(t, widgetsAPI(t, &hits))

	all, err := c.Find(ctx, rescache.Args{rescache.All})
	require.NoError(t, err)
	require.True(t, all.IsCollection())
	require.Equal(t, 2, all.Len())
	for _, r := range all.Records() {
		assert.True(t, r.IsPersisted())
	}

	red, err := c.Find(ctx, rescache.Args{rescache.All, rescache.Opts{"color": "red"}})
	require.NoError(t, err)
	assert.Equal(t, 1, red.Len())

	one, err := c.Find(ctx, rescache.Args{1})
	require.NoError(t, err)
	r, ok := one.Single()
	require.True(t, ok)
	assert.Equal(t, float64(1), r.PrimaryKey())
	name, _ := r.Get("name")
	assert.Equal(t, "a", name)

	spaced, err := c.Find(ctx, rescache.Args{"blue steel"})
	require.NoError(t, err)
	assert.Equal(t, 1, spaced.Len())

	empty, err := c.Find(ctx, rescache.Args{"empty"})
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, int32(5), hits.Load())
}

func TestStatusError(t *testing.T) {
	var hits atomic.Int32
	c := newClient(t, widgetsAPI(t, &hits))

	_, err := c.Find(context.Background(), rescache.Args{404})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.NotFound())
	assert.NotEmpty(t, se.RequestID)
	assert.Contains(t, se.Body, "not found")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(Config{BaseURL: srv.URL, Resource: "widgets"})
	require.NoError(t, err)
	srv.Close()

	_, err = c.Find(context.Background(), rescache.Args{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "httpfinder: GET")
	assert.NotNil(t, errors.Cause(err))
}

func TestCachedClientHitsRemoteOnce(t *testing.T) {
	ctx := context.Background()
	var hits atomic.Int32
	c := newClient(t, widgetsAPI(t, &hits))

	widgets, err := rescache.New[*Resource](c, rescache.Options[*Resource]{
		Store:                 pr.NewStore(memory.New(memory.Config{})),
		ResourceType:          "widgets",
		CollectionSynchronize: true,
	})
	require.NoError(t, err)

	first, err := widgets.Find(ctx, rescache.Args{rescache.All})
	require.NoError(t, err)
	second, err := widgets.Find(ctx, rescache.Args{rescache.All})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Len(), second.Len())

	one, err := widgets.Find(ctx, rescache.Args{2})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "member cached by the synchronizer")
	r, _ := one.Single()
	assert.True(t, r.IsPersisted())
	name, _ := r.Get("name")
	assert.Equal(t, "b", name)
}
