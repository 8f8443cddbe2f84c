package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Grand Opening!":        "grand-opening",
		"Café  Crème":           "cafe-creme",
		"  spaces   everywhere": "spaces-everywhere",
		"UPPER_case_mix":        "upper-case-mix",
		"2026 summer sale":      "2026-summer-sale",
		"---":                   "",
		"":                      "",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}
