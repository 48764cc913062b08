// internal/storage/suggest.go
package storage

import "strings"

func matchPrefix(candidates []string, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := []string{}
	if prefix == "" {
		return out
	}
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			out = append(out, c)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
