package cache

import (
	"context"
	"strings"
)

// EntityKind names an upstream record type whose changes invalidate cached data.
type EntityKind string

const (
	EntityCustomer EntityKind = "customer"
	EntityCompany  EntityKind = "company"
	EntityExpenses EntityKind = "expenses"
)

// idPlaceholder is replaced by the glob-escaped entity id.
const idPlaceholder = "{id}"

// Relationships maps each entity kind to the key patterns cleared when a
// record of that kind changes. Adding a cached namespace derived from an
// entity only needs a new pattern here.
var Relationships = map[EntityKind][]string{
	EntityCustomer: {
		"customer:*:" + idPlaceholder,
		NamespaceCompanyCustomer + KeyDelimiter + idPlaceholder,
		NamespaceDocsStatus + KeyDelimiter + idPlaceholder,
		NamespaceAPI + KeyDelimiter + "/api/customers/" + idPlaceholder + KeyDelimiter + "*",
		NamespaceAPI + KeyDelimiter + "/api/customers/" + idPlaceholder + "/*",
	},
	EntityCompany: {
		"company:*:" + idPlaceholder,
		NamespaceExpensesCompany + KeyDelimiter + idPlaceholder,
		NamespaceWagesCompany + KeyDelimiter + idPlaceholder,
		NamespaceAPI + KeyDelimiter + "/api/companies/" + idPlaceholder + KeyDelimiter + "*",
		NamespaceAPI + KeyDelimiter + "/api/companies/" + idPlaceholder + "/*",
	},
	EntityExpenses: {
		NamespaceExpensesCompany + KeyDelimiter + idPlaceholder,
		NamespaceWagesCompany + KeyDelimiter + idPlaceholder,
		NamespaceAPI + KeyDelimiter + "/api/companies/" + idPlaceholder + "/expenses*",
		NamespaceAPI + KeyDelimiter + "/api/companies/" + idPlaceholder + "/wages*",
	},
}

// RelatedPatterns returns the concrete patterns for kind and id, or nil when
// the kind is unknown or the id empty.
func (m *Manager) RelatedPatterns(kind EntityKind, id string) []string {
	if id == "" {
		return nil
	}
	templates, ok := m.relationships[kind]
	if !ok {
		return nil
	}

	escaped := EscapeGlob(id)
	patterns := make([]string, len(templates))
	for i, t := range templates {
		patterns[i] = strings.ReplaceAll(t, idPlaceholder, escaped)
	}
	return patterns
}

// InvalidateRelated deletes every cached entry derived from the entity. An
// unknown kind or an empty id is a no-op.
func (m *Manager) InvalidateRelated(ctx context.Context, kind EntityKind, id string) {
	if !m.Enabled() {
		return
	}
	patterns := m.RelatedPatterns(kind, id)
	if len(patterns) == 0 {
		m.logger.Debug().
			Str("entity", string(kind)).
			Str("id", id).
			Msg("Nothing to invalidate")
		return
	}

	for _, p := range patterns {
		m.DeletePattern(ctx, p)
	}
	m.logger.Debug().
		Str("entity", string(kind)).
		Str("id", id).
		Int("patterns", len(patterns)).
		Msg("Invalidated related cache entries")
}
