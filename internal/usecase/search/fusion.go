package search

import (
	"sort"

	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
)

// keywordBoost weights the keyword contribution during hybrid fusion.
// Text-index relevance tends to be better calibrated than the naive
// similarity scores, so it carries more weight.
const keywordBoost = 1.2

// fuse merges the keyword and semantic candidate sets by record id. The
// keyword contribution is boosted; when a record appears in both sets the
// contributions accumulate, so fused scores may exceed 1.0. The merged pool
// is sorted by score and paginated with the caller's offset and limit; the
// returned total is the pool size before pagination.
func fuse(keyword, semantic []candidate.Candidate, limit, offset int) ([]candidate.Candidate, int) {
	merged := make(map[string]candidate.Candidate, len(keyword)+len(semantic))
	order := make([]string, 0, len(keyword)+len(semantic))

	for _, c := range keyword {
		id := c.Record().ID()
		if _, ok := merged[id]; !ok {
			order = append(order, id)
		}
		merged[id] = c.WithScore(c.Score() * keywordBoost)
	}

	for _, c := range semantic {
		id := c.Record().ID()
		if existing, ok := merged[id]; ok {
			merged[id] = existing.WithScore(existing.Score() + c.Score())
			continue
		}
		order = append(order, id)
		merged[id] = c
	}

	pool := make([]candidate.Candidate, 0, len(merged))
	for _, id := range order {
		pool = append(pool, merged[id])
	}
	sortByScore(pool)

	total := len(pool)
	return paginate(pool, limit, offset), total
}

// sortByScore orders candidates by score descending. Ties break on creation
// time descending, then record id ascending, so pagination stays stable
// across calls.
func sortByScore(pool []candidate.Candidate) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score() != pool[j].Score() {
			return pool[i].Score() > pool[j].Score()
		}
		ri, rj := pool[i].Record(), pool[j].Record()
		if !ri.CreatedAt().Equal(rj.CreatedAt()) {
			return ri.CreatedAt().After(rj.CreatedAt())
		}
		return ri.ID() < rj.ID()
	})
}

// paginate slices a sorted pool with bounds clamping.
func paginate(pool []candidate.Candidate, limit, offset int) []candidate.Candidate {
	if offset >= len(pool) {
		return nil
	}
	end := offset + limit
	if end > len(pool) {
		end = len(pool)
	}
	return pool[offset:end]
}
