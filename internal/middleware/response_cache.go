package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/metrics"
)

// CacheHeader reports whether a response came from the response cache.
const CacheHeader = "X-Cache"

// Values of CacheHeader.
const (
	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// ResponseCacheConfig configures CacheResponse.
type ResponseCacheConfig struct {
	// TTL of stored responses. Zero means the medium tier.
	TTL time.Duration
	// Condition decides per request whether the cache applies. Nil means always.
	Condition func(c *gin.Context) bool
}

// cachedResponse is what CacheResponse stores per key.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body into a buffer.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves GET and HEAD requests from the cache when an entry
// exists for the request path, query and body. On a miss the handler runs and
// a 2xx response is stored for cfg.TTL. Every cached route carries an X-Cache
// header; nothing else about the response changes.
func CacheResponse(m *cache.Manager, cfg ResponseCacheConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = cache.TTLMedium
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if !m.Enabled() || (method != http.MethodGet && method != http.MethodHead) {
			c.Next()
			return
		}
		if cfg.Condition != nil && !cfg.Condition(c) {
			c.Next()
			return
		}

		route := c.FullPath()
		key := responseKey(c)

		var hit cachedResponse
		if m.Get(c.Request.Context(), key, &hit) {
			metrics.RecordResponseCache(route, "hit")
			c.Header(CacheHeader, CacheHit)
			c.Data(hit.Status, hit.ContentType, hit.Body)
			c.Abort()
			return
		}

		metrics.RecordResponseCache(route, "miss")
		c.Header(CacheHeader, CacheMiss)

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		status := writer.Status()
		if method != http.MethodGet || status < 200 || status >= 300 || len(c.Errors) > 0 {
			return
		}

		m.Set(c.Request.Context(), key, cachedResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}, ttl)
	}
}

// responseKey derives the cache key from the path and a hash of the query
// and body. The body is restored for the handler.
func responseKey(c *gin.Context) string {
	return cache.APIResponseKey(c.Request.URL.Path, cache.GenerateHash(map[string]any{
		"query": c.Request.URL.Query(),
		"body":  peekBody(c),
	}))
}

// peekBody reads the request body and puts it back. JSON bodies are decoded
// so the result does not depend on formatting.
func peekBody(c *gin.Context) any {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var decoded any
	if json.Unmarshal(raw, &decoded) == nil {
		return decoded
	}
	return string(raw)
}
