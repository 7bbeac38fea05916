package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func countingHandler(calls *int32, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "N", string(rune('0'+n)))))
	})
}

func post(h http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	rdb, _ := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusOK, `{"call":N}`))

	first := post(h, "/sessions/s1/actions", "k1")
	second := post(h, "/sessions/s1/actions", "k1")

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, `{"call":1}`, first.Body.String())
	assert.Equal(t, `{"call":1}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyHitHeader))
	assert.Empty(t, first.Header().Get(IdempotencyHitHeader))
}

func TestIdempotency_KeysAreScopedByPath(t *testing.T) {
	rdb, _ := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusOK, `{}`))

	post(h, "/sessions/s1/actions", "k1")
	post(h, "/sessions/s2/actions", "k1")

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	rdb, mr := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusOK, `{}`))

	post(h, "/x", "")
	post(h, "/x", "")

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, mr.Keys())
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	rdb, _ := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusBadRequest, `{"error":"contract_violation"}`))

	post(h, "/x", "k1")
	rec := post(h, "/x", "k1")

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdempotency_ConflictWhileLocked(t *testing.T) {
	rdb, mr := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusOK, `{}`))

	require.NoError(t, mr.Set(LockKeyPrefix+"/x:k1", "processing"))
	rec := post(h, "/x", "k1")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"conflict","message":"A request with this idempotency key is currently being processed"}`, rec.Body.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestIdempotency_ReleasesLock(t *testing.T) {
	rdb, mr := newRedis(t)
	var calls int32
	h := Idempotency(rdb, nil)(countingHandler(&calls, http.StatusOK, `{}`))

	post(h, "/x", "k1")

	assert.False(t, mr.Exists(LockKeyPrefix+"/x:k1"))
	assert.True(t, mr.Exists(RedisKeyPrefix+"/x:k1"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var calls int32
	h := RequestLogger(zap.New(core))(countingHandler(&calls, http.StatusCreated, `{}`))

	post(h, "/sessions", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/sessions", fields["path"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
}
