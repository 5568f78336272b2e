package richtext

import (
	"errors"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple",
			input:    "Hello, @red{world}!",
			expected: `[{"text":"Hello, "},{"text":"world","color":"red"},{"text":"!"}]`,
		},
		{
			name:     "ends in format",
			input:    "Hello, @red{world}",
			expected: `[{"text":"Hello, "},{"text":"world","color":"red"}]`,
		},
		{
			name:     "nested format",
			input:    "Hello, @red{@underline{rld}}!",
			expected: `[{"text":"Hello, "},{"text":"rld","color":"red","underlined":true},{"text":"!"}]`,
		},
		{
			name:     "outer color wins",
			input:    "Hello, @red{@blue{rld}}!",
			expected: `[{"text":"Hello, "},{"text":"rld","color":"red"},{"text":"!"}]`,
		},
		{
			name:     "escaped brace inside nesting",
			input:    `Hello, @red{asdf@underline{r\}ld}asdf}!`,
			expected: `[{"text":"Hello, "},{"text":"asdf","color":"red"},{"text":"r}ld","color":"red","underlined":true},{"text":"asdf","color":"red"},{"text":"!"}]`,
		},
		{
			name:     "hex color",
			input:    "@italic{@#fa2c8b{Hi}}",
			expected: `[{"text":"Hi","color":"#fa2c8b","italic":true}]`,
		},
		{
			name:     "escapes",
			input:    `a \@ b \\ c`,
			expected: `[{"text":"a @ b \\ c"}]`,
		},
		{
			name:     "quotes are json escaped",
			input:    `say "hi"`,
			expected: `[{"text":"say \"hi\""}]`,
		},
		{
			name:     "empty",
			input:    "",
			expected: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown format", input: "@sparkly{x}"},
		{name: "no opening brace", input: "mail me @ home"},
		{name: "unmatched close", input: "a}"},
		{name: "unclosed", input: "@red{a"},
		{name: "trailing backslash", input: `a\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.input)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestIsColor(t *testing.T) {
	for _, c := range []string{"red", "light_purple", "#000000", "#AbCdEf"} {
		if !IsColor(c) {
			t.Errorf("Expected %q to be a color", c)
		}
	}
	for _, c := range []string{"bold", "#fff", "#gggggg", ""} {
		if IsColor(c) {
			t.Errorf("Expected %q not to be a color", c)
		}
	}
}
