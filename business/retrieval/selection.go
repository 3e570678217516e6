package retrieval

import (
	"sort"

	"sharpPicks/domain"
)

// FilterByRisk keeps picks whose risk level is in allowed. The input is not
// modified.
func FilterByRisk(pool []domain.Pick, allowed []domain.RiskLevel) []domain.Pick {
	set := make(map[domain.RiskLevel]struct{}, len(allowed))
	for _, l := range allowed {
		set[l] = struct{}{}
	}

	out := make([]domain.Pick, 0, len(pool))
	for _, p := range pool {
		if _, ok := set[p.RiskLevel]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SelectRoundRobin takes up to n picks, one per sport per round. Sports are
// visited by pool size descending then sport code ascending; within a sport
// picks go by confidence descending then id ascending.
func SelectRoundRobin(pool []domain.Pick, n int) []domain.Pick {
	if n <= 0 || len(pool) == 0 {
		return []domain.Pick{}
	}

	bySport := make(map[string][]domain.Pick)
	for _, p := range pool {
		bySport[p.Sport] = append(bySport[p.Sport], p)
	}

	sports := make([]string, 0, len(bySport))
	for sport, picks := range bySport {
		sortByConfidence(picks)
		sports = append(sports, sport)
	}
	sort.Slice(sports, func(i, j int) bool {
		ni, nj := len(bySport[sports[i]]), len(bySport[sports[j]])
		if ni != nj {
			return ni > nj
		}
		return sports[i] < sports[j]
	})

	limit := min(n, len(pool))
	out := make([]domain.Pick, 0, limit)
	for round := 0; len(out) < limit; round++ {
		for _, sport := range sports {
			picks := bySport[sport]
			if round < len(picks) {
				out = append(out, picks[round])
				if len(out) == limit {
					break
				}
			}
		}
	}
	return out
}

// SelectTopConfidence is the fallback when no pick matches the user's risk
// levels: the whole pool by confidence, no sport balancing.
func SelectTopConfidence(pool []domain.Pick, n int) []domain.Pick {
	if n <= 0 || len(pool) == 0 {
		return []domain.Pick{}
	}

	sorted := append([]domain.Pick(nil), pool...)
	sortByConfidence(sorted)

	return sorted[:min(n, len(sorted))]
}

func sortByConfidence(picks []domain.Pick) {
	sort.SliceStable(picks, func(i, j int) bool {
		if picks[i].Confidence != picks[j].Confidence {
			return picks[i].Confidence > picks[j].Confidence
		}
		return picks[i].ID < picks[j].ID
	})
}
