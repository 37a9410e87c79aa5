package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Google Drive MCP", "google-drive-mcp"},
		{"  PostgreSQL  ", "postgresql"},
		{"C++ / Rust!!", "c-rust"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// 超长名称被截断到 100 字符以内
	long := Slugify(strings.Repeat("abc ", 100))
	if len(long) > 100 {
		t.Errorf("Slug too long: %d chars", len(long))
	}
}

func TestSlugWithSuffix(t *testing.T) {
	a := SlugWithSuffix("filesystem")
	b := SlugWithSuffix("filesystem")

	if !strings.HasPrefix(a, "filesystem-") {
		t.Errorf("Suffix should append to slug, got %s", a)
	}
	if len(a) != len("filesystem-")+6 {
		t.Errorf("Expected 6-char suffix, got %s", a)
	}
	if a == b {
		t.Errorf("Two suffixed slugs should differ: %s == %s", a, b)
	}
}
