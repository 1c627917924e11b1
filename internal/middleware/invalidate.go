package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/internal/cache"
)

const (
	invalidationTargetsKey = "cache_invalidation_targets"
	partialMutationKey     = "cache_partial_mutation"
)

// invalidationTarget is one (kind, id) pair to invalidate.
type invalidationTarget struct {
	kind cache.EntityKind
	id   string
}

// InvalidateOption configures InvalidateCache.
type InvalidateOption func(*invalidateConfig)

type invalidateConfig struct {
	param      string
	bodyFields []string
}

// WithIDParam sets the route parameter holding the entity id.
func WithIDParam(name string) InvalidateOption {
	return func(cfg *invalidateConfig) {
		cfg.param = name
	}
}

// WithBodyFields sets the JSON body fields searched for entity ids, in order.
func WithBodyFields(fields ...string) InvalidateOption {
	return func(cfg *invalidateConfig) {
		cfg.bodyFields = fields
	}
}

// defaultInvalidateConfig returns where ids of kind are looked up by default.
func defaultInvalidateConfig(kind cache.EntityKind) invalidateConfig {
	switch kind {
	case cache.EntityCustomer:
		return invalidateConfig{param: CustomerIDParam, bodyFields: []string{"id", "customerId", "email"}}
	default:
		return invalidateConfig{param: CompanyIDParam, bodyFields: []string{"id", "companyId"}}
	}
}

// AddInvalidationTarget registers another entity the current mutation makes
// stale. Targets are invalidated together with the route's own entity once the
// handler has answered 2xx.
func AddInvalidationTarget(c *gin.Context, kind cache.EntityKind, id string) {
	if id == "" {
		return
	}
	var targets []invalidationTarget
	if v, ok := c.Get(invalidationTargetsKey); ok {
		targets, _ = v.([]invalidationTarget)
	}
	c.Set(invalidationTargetsKey, append(targets, invalidationTarget{kind: kind, id: id}))
}

// MarkPartialMutation records that the current mutation failed after it had
// already changed upstream data, so its entities are invalidated even though
// the response is not 2xx.
func MarkPartialMutation(c *gin.Context) {
	c.Set(partialMutationKey, true)
}

// InvalidateCache wraps a mutation endpoint. After a 2xx response it
// invalidates every cache entry related to the changed entities: targets added
// with AddInvalidationTarget, the id in the route parameter and ids found in
// the JSON request body. Failed mutations invalidate nothing unless the handler
// called MarkPartialMutation. The response is never altered.
func InvalidateCache(m *cache.Manager, kind cache.EntityKind, opts ...InvalidateOption) gin.HandlerFunc {
	cfg := defaultInvalidateConfig(kind)
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		body := readJSONBody(c)

		c.Next()

		if status := c.Writer.Status(); (status < 200 || status >= 300) && !c.GetBool(partialMutationKey) {
			return
		}

		targets := collectTargets(c, kind, cfg, body)
		if len(targets) == 0 {
			log.Debug().
				Str("request_id", GetRequestID(c)).
				Str("entity", string(kind)).
				Str("path", c.Request.URL.Path).
				Msg("No entity id found, nothing invalidated")
			return
		}

		for _, t := range targets {
			m.InvalidateRelated(c.Request.Context(), t.kind, t.id)
		}
	}
}

func collectTargets(c *gin.Context, kind cache.EntityKind, cfg invalidateConfig, body map[string]any) []invalidationTarget {
	var targets []invalidationTarget
	seen := make(map[invalidationTarget]bool)
	add := func(t invalidationTarget) {
		if t.id == "" || seen[t] {
			return
		}
		seen[t] = true
		targets = append(targets, t)
	}

	if v, ok := c.Get(invalidationTargetsKey); ok {
		extra, _ := v.([]invalidationTarget)
		for _, t := range extra {
			add(t)
		}
	}
	if cfg.param != "" {
		add(invalidationTarget{kind: kind, id: c.Param(cfg.param)})
	}
	for _, field := range cfg.bodyFields {
		id, _ := body[field].(string)
		if field == "email" {
			id = cache.NormalizeEmail(id)
		}
		add(invalidationTarget{kind: kind, id: id})
	}
	return targets
}

// readJSONBody decodes a JSON object body and restores it for the handler.
// Anything else yields nil.
func readJSONBody(c *gin.Context) map[string]any {
	if c.Request.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		return nil
	}

	var body map[string]any
	if json.Unmarshal(raw, &body) != nil {
		return nil
	}
	return body
}
