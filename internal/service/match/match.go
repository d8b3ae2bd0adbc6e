// Package match 按名称查找资源：完全相等，其次前缀，最后子串，均不区分大小写
package match

import "strings"

const (
	rankNone = iota
	rankSubstring
	rankPrefix
	rankExact
)

// Find 返回得分最高的第一个元素；names 给出元素可被匹配的各个名字（标题、用户名等）
func Find[T any](items []T, name string, names func(T) []string) (T, bool) {
	var zero T
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return zero, false
	}
	best, bestRank := -1, rankNone
	for i, it := range items {
		r := rankOf(q, names(it))
		if r > bestRank {
			best, bestRank = i, r
			if r == rankExact {
				break
			}
		}
	}
	if best < 0 {
		return zero, false
	}
	return items[best], true
}

// Name 单一名称的便捷写法
func Name[T any](items []T, name string, nameOf func(T) string) (T, bool) {
	return Find(items, name, func(t T) []string { return []string{nameOf(t)} })
}

func rankOf(q string, candidates []string) int {
	rank := rankNone
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		switch {
		case c == q:
			return rankExact
		case strings.HasPrefix(c, q):
			rank = max(rank, rankPrefix)
		case strings.Contains(c, q):
			rank = max(rank, rankSubstring)
		}
	}
	return rank
}
