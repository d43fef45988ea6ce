package route

import "testing"

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"plain id", "#fileId=nexus-123", "nexus-123"},
		{"without hash prefix", "fileId=nexus-123", "nexus-123"},
		{"trailing params dropped", "#fileId=abc&tab=config", "abc"},
		{"leading params skipped", "#view=grid&fileId=abc", "abc"},
		{"empty fragment", "", ""},
		{"hash only", "#", ""},
		{"no fileId key", "#section=downloads", ""},
		{"empty value", "#fileId=", ""},
		{"empty value with trailing param", "#fileId=&tab=config", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFragment(tt.fragment); got != tt.want {
				t.Errorf("ParseFragment(%q) = %q, want %q", tt.fragment, got, tt.want)
			}
		})
	}
}
