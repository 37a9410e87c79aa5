package models

import (
	"testing"
)

func TestStringListValueScan(t *testing.T) {
	list := StringList{"filesystem", "official"}

	v, err := list.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var out StringList
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(out) != 2 || out[0] != "filesystem" || out[1] != "official" {
		t.Errorf("Round trip mismatch: %v", out)
	}
}

func TestStringListScanEdgeCases(t *testing.T) {
	var out StringList

	// NULL 列
	if err := out.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Expected empty list for NULL, got %v", out)
	}

	// []byte 形式
	if err := out.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("Scan([]byte) failed: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("Expected 2 items, got %v", out)
	}
}

func TestStringListContains(t *testing.T) {
	list := StringList{"database", "search"}
	if !list.Contains("search") {
		t.Error("Expected Contains to find existing item")
	}
	if list.Contains("ai") {
		t.Error("Expected Contains to miss absent item")
	}
}
