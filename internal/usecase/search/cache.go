package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/morainelabs/dataseek/internal/domain"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
)

const cacheKeyPrefix = domain.SearchCacheKeyPrefix

// cacheKey derives a deterministic key from every request parameter that
// shapes the response.
func cacheKey(q query.Query) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%d|%g",
		q.Text(), q.Mode(), renderFilters(q.Filters()), q.Limit(), q.Offset(), q.MinScore(),
	)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// renderFilters serializes a filter expression into a stable string form.
// Conditions keep their declaration order.
func renderFilters(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Conditions()))
	for _, c := range expr.Conditions() {
		switch {
		case len(c.Values()) > 0:
			parts = append(parts, fmt.Sprintf("%s %s [%s]",
				c.Field(), c.Op(), strings.Join(c.Values(), ",")))
		case c.Field().IsTemporal():
			parts = append(parts, fmt.Sprintf("%s %s %d", c.Field(), c.Op(), c.Timestamp().Unix()))
		default:
			parts = append(parts, fmt.Sprintf("%s %s %s", c.Field(), c.Op(), c.Value()))
		}
	}
	return strings.Join(parts, ";")
}
