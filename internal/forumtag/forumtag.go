// Package forumtag maps platform forum tags onto article categories.
package forumtag

import (
	"slices"
	"strings"
)

// DefaultCategory is used when no applied tag yields a category.
const DefaultCategory = "etc"

type mapping struct {
	key      string
	category string
}

// table is scanned in order during partial matching, so its order is part of
// the behavior.
var table = []mapping{
	{"frontend", "web"},
	{"front-end", "web"},
	{"front end", "web"},
	{"프론트엔드", "web"},
	{"backend", "web"},
	{"back-end", "web"},
	{"back end", "web"},
	{"백엔드", "web"},
	{"devops", "web"},
	{"dev ops", "web"},
	{"dev-ops", "web"},
	{"데브옵스", "web"},
	{"웹", "web"},
	{"web", "web"},
	{"mobile", "web"},
	{"모바일", "web"},

	{"ai", "etc"},
	{"a.i.", "etc"},
	{"artificial intelligence", "etc"},
	{"인공지능", "etc"},
	{"blockchain", "etc"},
	{"블록체인", "etc"},
	{"security", "etc"},
	{"보안", "etc"},
	{"기타", "etc"},
	{"etc", "etc"},
	{"other", "etc"},

	{"architecture", "framework"},
	{"아키텍처", "framework"},
	{"framework", "framework"},
	{"프레임워크", "framework"},

	{"database", "library"},
	{"db", "library"},
	{"데이터베이스", "library"},
	{"testing", "library"},
	{"test", "library"},
	{"테스트", "library"},
	{"library", "library"},
	{"라이브러리", "library"},

	{"career", "career"},
	{"커리어", "career"},
	{"취업", "career"},
	{"job", "career"},
	{"면접", "career"},
	{"interview", "career"},
}

var exact = func() map[string]string {
	m := make(map[string]string, len(table))
	for _, e := range table {
		m[e.key] = e.category
	}
	return m
}()

// Infer resolves applied tag IDs against the forum's tag catalogue and maps
// each name to a category: exact table match, then the first table key that
// contains or is contained in the name, then the normalized name itself.
// The result is an ordered set and is never empty.
func Infer(applied []string, available map[string]string) []string {
	categories := make([]string, 0, len(applied))
	for _, id := range applied {
		name, ok := available[id]
		if !ok {
			continue
		}
		category := strings.TrimSpace(Categorize(name))
		if category == "" || slices.Contains(categories, category) {
			continue
		}
		categories = append(categories, category)
	}

	if len(categories) == 0 {
		categories = append(categories, DefaultCategory)
	}
	return categories
}

// Categorize maps a single tag name. Blank names map to "" and are skipped
// by Infer rather than matching the first substring rule.
func Categorize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return ""
	}
	if category, ok := exact[normalized]; ok {
		return category
	}
	for _, e := range table {
		if strings.Contains(normalized, e.key) || strings.Contains(e.key, normalized) {
			return e.category
		}
	}
	return normalized
}
