package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	idempotencyKeyPrefix = "idempotency:"
	idempotencyTTL       = 24 * time.Hour

	// IdempotentReplayHeader marks responses served from the cache.
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// cachedResponse is a stored checkout response.
type cachedResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// captureWriter copies the response body while it is written.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays the first response for a repeated
// POST carrying the same Idempotency-Key. Only successful responses and
// client errors are cached. Any Redis failure lets the request through
// uncached; a nil client disables the middleware.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyKeyPrefix + c.FullPath() + ":" + key

		cached, err := getCachedResponse(ctx, client, cacheKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("[%s] idempotency lookup failed, continuing uncached: %v", c.GetString(RequestIDKey), err)
			c.Next()
			return
		}

		if cached != nil {
			c.Header(IdempotentReplayHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusInternalServerError {
			return
		}
		resp := cachedResponse{
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := setCachedResponse(context.WithoutCancel(ctx), client, cacheKey, &resp); err != nil {
			log.Printf("[%s] idempotency store failed: %v", c.GetString(RequestIDKey), err)
		}
	}
}

func getCachedResponse(ctx context.Context, client *redis.Client, key string) (*cachedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func setCachedResponse(ctx context.Context, client *redis.Client, key string, resp *cachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
