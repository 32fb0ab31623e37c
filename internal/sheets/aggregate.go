package sheets

import "sort"

// Summarize deduplicates the accumulated sheet identifiers and sorts them
// lexicographically. The count is the unique cardinality; overlapping pages
// and sheets straddling footprint edges make duplicates routine.
func Summarize(values []string) ([]string, int) {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	sort.Strings(unique)
	return unique, len(unique)
}
