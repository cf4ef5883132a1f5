package markdown

import (
	"strings"
	"testing"
)

func TestLinkTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"inline_link",
			"See [the parser](crate::parse) for details.",
			[]string{"crate::parse"},
		},
		{
			"shortcut_reference",
			"See [Value] and [`Value::as_str`].",
			[]string{"Value", "`Value::as_str`", "Value::as_str"},
		},
		{
			"duplicates_collapse",
			"Both [Value] and [Value] again.",
			[]string{"Value"},
		},
		{
			"no_links",
			"Plain prose with `code` and *emphasis*.",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := LinkTargets(tt.src)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		docs string
		want string
	}{
		{
			"plain",
			"A tiny helper.\n\nLonger prose follows.",
			"A tiny helper.",
		},
		{
			"leading_blank_lines",
			"\n\n  Summary here.\nMore.",
			"Summary here.",
		},
		{
			"strips_markup",
			"Returns the [`Value`] as a [string](crate::Str).",
			"Returns the Value as a string.",
		},
		{
			"empty",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FirstLine(tt.docs); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
