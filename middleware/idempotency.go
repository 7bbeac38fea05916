package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yashasviy/split-payments-api/models"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	// IdempotencyHitHeader is set to "true" on replayed responses.
	IdempotencyHitHeader = "X-Idempotency-Hit"

	IdempotencyCacheTTL = 24 * time.Hour

	// LockTimeout bounds how long a crashed request can hold its key.
	LockTimeout = 10 * time.Second

	RedisKeyPrefix = "split:idempotency:"
	LockKeyPrefix  = "split:idempotency-lock:"
)

// responseWriterWrapper records the status and body handed to the client.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency makes a non-idempotent endpoint safe to retry. Form actions such
// as TOGGLE_ACCOUNT flip state, so a client retrying after a timeout must get
// the first response back instead of toggling twice.
//
// Keys are scoped to the request path, so the same key may be reused across
// sessions. Only 2xx responses are replayed; a request arriving while the
// first is still in flight gets 409.
func Idempotency(rdb *redis.Client, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("idempotency")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			idempotencyKey := r.Header.Get(IdempotencyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			scope := r.URL.Path + ":" + idempotencyKey
			cacheKey := RedisKeyPrefix + scope
			lockKey := LockKeyPrefix + scope

			cachedResponse, err := rdb.Get(ctx, cacheKey).Result()
			if err == nil {
				logger.Debug("cache hit", zap.String("key", idempotencyKey), zap.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(IdempotencyHitHeader, "true")
				w.Write([]byte(cachedResponse))
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "processing", LockTimeout).Result()
			if err != nil {
				logger.Error("lock acquisition failed", zap.String("key", idempotencyKey), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
				return
			}

			if !acquired {
				logger.Info("concurrent request rejected", zap.String("key", idempotencyKey), zap.String("path", r.URL.Path))
				writeError(w, http.StatusConflict, "conflict", "A request with this idempotency key is currently being processed")
				return
			}

			defer func() {
				if err := rdb.Del(context.WithoutCancel(ctx), lockKey).Err(); err != nil {
					logger.Error("failed to release lock", zap.String("key", idempotencyKey), zap.Error(err))
				}
			}()

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(wrapper, r)

			if wrapper.statusCode >= 200 && wrapper.statusCode < 300 {
				if err := rdb.Set(context.WithoutCancel(ctx), cacheKey, wrapper.body.String(), IdempotencyCacheTTL).Err(); err != nil {
					logger.Error("failed to cache response", zap.String("key", idempotencyKey), zap.Error(err))
				} else {
					logger.Debug("cached response", zap.String("key", idempotencyKey), zap.Duration("ttl", IdempotencyCacheTTL))
				}
			}
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: code, Message: message})
}
