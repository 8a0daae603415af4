package sales

import "bakery-backend/internal/models"

// KeySet returns the natural keys of the given records.
func KeySet(recs []models.SaleRecord) map[string]struct{} {
	keys := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		keys[r.NaturalKey()] = struct{}{}
	}
	return keys
}

// Dedupe drops batch rows whose natural key was already seen, first within the
// batch itself (first occurrence wins, order preserved) and then against the
// keys already present in the store.
func Dedupe(batch []models.SaleRecord, existing map[string]struct{}) []models.SaleRecord {
	seen := make(map[string]struct{}, len(batch))
	out := make([]models.SaleRecord, 0, len(batch))
	for _, r := range batch {
		key := r.NaturalKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := existing[key]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
