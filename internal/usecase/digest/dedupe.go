package digest

import "daily-brief/internal/domain/entity"

// Dedupe drops items whose normalized URL was already seen, keeping the first
// occurrence and the input order. Items with an empty key are dropped.
// The seen set lives only for the duration of the call.
func Dedupe(items []entity.Item) []entity.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		key := it.DedupKey()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
