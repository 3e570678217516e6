package generator

import (
	"sort"

	"sharpPicks/domain"
)

// capPool keeps the (date, category) pool at or under limit. Picks whose
// natural key is already stored are always kept since they upsert in place;
// new keys are admitted by confidence until the merged pool reaches limit.
// Stored rows are never removed, so after a rerun with a smaller limit the
// pool stays at the size reached by the largest earlier target.
func capPool(batch []domain.Pick, existing map[string]struct{}, limit int) (kept, overflow []domain.Pick) {
	unique := dedupe(batch)

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Confidence == unique[j].Confidence {
			return unique[i].ID < unique[j].ID
		}
		return unique[i].Confidence > unique[j].Confidence
	})

	room := limit - len(existing)
	kept = make([]domain.Pick, 0, len(unique))
	for _, p := range unique {
		if _, ok := existing[p.NaturalKey()]; ok {
			kept = append(kept, p)
			continue
		}
		if room > 0 {
			kept = append(kept, p)
			room--
			continue
		}
		overflow = append(overflow, p)
	}

	return kept, overflow
}

// dedupe keeps one pick per natural key, preferring higher confidence.
func dedupe(batch []domain.Pick) []domain.Pick {
	pos := make(map[string]int, len(batch))
	out := make([]domain.Pick, 0, len(batch))
	for _, p := range batch {
		key := p.NaturalKey()
		if i, ok := pos[key]; ok {
			if p.Confidence > out[i].Confidence {
				out[i] = p
			}
			continue
		}
		pos[key] = len(out)
		out = append(out, p)
	}
	return out
}
