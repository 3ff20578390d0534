package constants

import "testing"

func TestFormat_Valid(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatDOT, true},
		{FormatJSON, true},
		{FormatHTML, true},
		{"", false},
		{"svg", false},
		{"DOT", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.Valid(); got != tt.want {
				t.Errorf("Format(%q).Valid() = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	if got := FormatHTML.String(); got != "html" {
		t.Errorf("FormatHTML.String() = %q, want %q", got, "html")
	}
}
