package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to n trait ids that look like id, closest first. Ids
// sharing id as a prefix rank ahead of edit-distance matches.
func (c *Catalog) Suggest(id string, n int) []string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || n <= 0 {
		return nil
	}

	type scored struct {
		id   string
		dist int
	}

	var results []scored
	for _, cand := range c.traitOrder {
		lc := strings.ToLower(cand)
		switch {
		case lc == id:
			results = append(results, scored{id: cand, dist: -2})
		case strings.HasPrefix(lc, id) && len(id) >= 3:
			results = append(results, scored{id: cand, dist: -1})
		default:
			dist := levenshtein.ComputeDistance(id, lc)
			if dist > distanceLimit(len(lc)) {
				continue
			}
			results = append(results, scored{id: cand, dist: dist})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].id < results[j].id
		}
		return results[i].dist < results[j].dist
	})

	if len(results) > n {
		results = results[:n]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.id
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
