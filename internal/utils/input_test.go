package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		force bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{" yes ", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(tt.input), &out, "Clear?", tt.force); got != tt.want {
			t.Errorf("Confirm(%q, force=%v) = %v, want %v", tt.input, tt.force, got, tt.want)
		}
		if tt.force && out.Len() != 0 {
			t.Errorf("forced confirm should not prompt, got %q", out.String())
		}
		if !tt.force && out.String() != "Clear? (y/N): " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}
