package cleaner

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	c := New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips tags", `<span class="hl">Excellent</span> condition`, "Excellent condition"},
		{"decodes entities", "Dubai &amp; Sharjah", "Dubai & Sharjah"},
		{"collapses whitespace", "  2019\t\tToyota\n Camry ", "2019 Toyota Camry"},
		{"drops script content", `<script>alert(1)</script>Clean title`, "Clean title"},
		{"plain text untouched", "45,000 km", "45,000 km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanMap(t *testing.T) {
	c := New()

	got := c.CleanMap(map[string]any{
		"title": "<b>2020 Kia Sportage</b>",
		"year":  2020,
		"specs": map[string]any{
			"fuel": "<i>Diesel</i>",
		},
	})

	want := map[string]any{
		"title": "2020 Kia Sportage",
		"year":  2020,
		"specs": map[string]any{
			"fuel": "Diesel",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CleanMap() = %v, want %v", got, want)
	}
}
