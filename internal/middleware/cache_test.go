package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/roamstay/spot-booking/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Multi", "a")
	hdr.Add("X-Multi", "b")
	body := []byte(`{"spots":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, []string{"a", "b"}, gotHdr["X-Multi"])
	require.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		_, _, _, ok := decodePayload(bs)
		if len(bs) == 8 {
			// Minimal valid frame: zero status, empty header, empty body.
			require.True(t, ok)
			continue
		}
		require.False(t, ok)
	}

	// Header length pointing past the buffer.
	bad, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("body"))
	require.NoError(t, err)
	_, _, _, ok := decodePayload(bad[:10])
	require.False(t, ok)
}

func newCtx(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/spots/:id")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	k1 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7?page=1"))
	k2 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7?page=1"))
	require.Equal(t, k1, k2, "same request must map to the same key")

	k3 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7?page=2"))
	require.NotEqual(t, k1, k3, "query string participates in route_query keys")

	cfg.KeyStrategy = "route"
	k4 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7?page=1"))
	k5 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7?page=2"))
	require.Equal(t, k4, k5, "route strategy ignores the query string")
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	// Two spots matching the same route pattern must never share an entry,
	// whatever the strategy: a collision would replay one spot's detail for
	// every other.
	for _, strategy := range []string{"route", "method_route", "method_route_query", "route_query"} {
		cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: strategy}
		k7 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/7"))
		k8 := cacheKeyFrom(cfg, newCtx(http.MethodGet, "/v1/spots/8"))
		require.NotEqual(t, k7, k8, "strategy %s must key on the concrete path", strategy)
	}
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 5}

	n, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.Equal(t, 10, n)

	// The client sees the full body, the capture buffer is truncated.
	require.Equal(t, "0123456789", rec.Body.String())
	require.Equal(t, "01234", cw.buf.String())
}

func TestCacheableSkipsOversizedBodies(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 5}

	_, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.False(t, cacheable(cw), "a truncated capture must never be stored")

	within := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 5}
	_, err = within.Write([]byte("01234"))
	require.NoError(t, err)
	require.True(t, cacheable(within))

	unlimited := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, err = unlimited.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.True(t, unlimited.limit <= 0)
	require.True(t, cacheable(unlimited))

	failed := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusInternalServerError, limit: 5}
	require.False(t, cacheable(failed))
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/spots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)
	require.True(t, called)
	require.Empty(t, rec.Header().Get("X-Cache"))
}
