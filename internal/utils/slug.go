package utils

import (
	"math/rand"
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将条目名称转为路由用的 slug
// "Google Drive MCP" -> "google-drive-mcp"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 100 {
		s = s[:100]
		s = strings.Trim(s, "-")
	}
	return s
}

const slugSuffixBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// SlugWithSuffix 在 slug 后追加随机后缀，用于冲突时重试
func SlugWithSuffix(slug string) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = slugSuffixBytes[rand.Intn(len(slugSuffixBytes))]
	}
	return slug + "-" + string(b)
}
