package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "Zoë Kravitz",
			want:  "Zoë Kravitz",
		},
		{
			name:  "contains null byte",
			input: "Tom\x00 Hanks",
			want:  "Tom Hanks",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Tom Hanks", want: "Tom Hanks"},
		{input: "  Tom   Hanks ", want: "Tom Hanks"},
		{input: "\tMeryl\nStreep", want: "Meryl Streep"},
		{input: "   ", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
