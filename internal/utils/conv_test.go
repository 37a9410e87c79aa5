package utils

import (
	"testing"
)

func TestStringToInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{"0", 0},
		{"-3", -3},
		{"", 0},
		{"abc", 0},
		{"12.5", 0},
	}

	for _, tt := range tests {
		if got := StringToInt(tt.in); got != tt.want {
			t.Errorf("StringToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStringToUint(t *testing.T) {
	if got := StringToUint("42"); got != 42 {
		t.Errorf("StringToUint(\"42\") = %d, want 42", got)
	}
	// 负数和垃圾输入都回退为 0
	if got := StringToUint("-1"); got != 0 {
		t.Errorf("StringToUint(\"-1\") = %d, want 0", got)
	}
	if got := StringToUint("x"); got != 0 {
		t.Errorf("StringToUint(\"x\") = %d, want 0", got)
	}
}
