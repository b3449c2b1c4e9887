package util

import "strings"

// SplitList splits str on sep, trimming blanks and dropping empty or
// repeated elements while keeping the first-seen order.
func SplitList(str string, sep string) []string {
	list := make([]string, 0)
	if strings.TrimSpace(str) == "" {
		return list
	}

	seen := make(map[string]bool)
	for _, elem := range strings.Split(str, sep) {
		elem = strings.TrimSpace(elem)
		if elem == "" || seen[elem] {
			continue
		}
		seen[elem] = true
		list = append(list, elem)
	}

	return list
}
