// Package richtext converts a small markup into Minecraft JSON text.
//
// Formatting is written as @<format>{text}, where format is a color name,
// a hex color such as #fa2c8b, or one of bold, italic, underline,
// strikethrough and obfuscated. Formats nest; the outermost color wins and
// repeated formats are ignored. A backslash escapes the next character, so
// \@, \} and \\ are literal.
//
//	richtext.Render("Hello, @red{@bold{world}}!")
//	// [{"text":"Hello, "},{"text":"world","color":"red","bold":true},{"text":"!"}]
package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrFormat is returned for malformed markup.
var ErrFormat = errors.New("invalid rich text")

var colors = map[string]bool{
	"black": true, "dark_blue": true, "dark_green": true, "dark_aqua": true,
	"dark_red": true, "dark_purple": true, "gold": true, "gray": true,
	"dark_gray": true, "blue": true, "green": true, "aqua": true,
	"red": true, "light_purple": true, "yellow": true, "white": true,
}

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsColor reports whether s is a named or hex color.
func IsColor(s string) bool {
	return colors[s] || hexColorRegex.MatchString(s)
}

// Segment is a run of text with its formatting.
type Segment struct {
	Text          string `json:"text"`
	Color         string `json:"color,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underlined    bool   `json:"underlined,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Obfuscated    bool   `json:"obfuscated,omitempty"`
}

func (s *Segment) apply(format string) error {
	switch {
	case IsColor(format):
		if s.Color == "" {
			s.Color = format
		}
	case format == "bold":
		s.Bold = true
	case format == "italic":
		s.Italic = true
	case format == "underline":
		s.Underlined = true
	case format == "strikethrough":
		s.Strikethrough = true
	case format == "obfuscated":
		s.Obfuscated = true
	default:
		return fmt.Errorf("%w: unknown format %q", ErrFormat, format)
	}
	return nil
}

// Parse splits markup into formatted segments. Empty runs are dropped.
func Parse(text string) ([]Segment, error) {
	var (
		segments []Segment
		stack    []string
		buf      strings.Builder
	)

	flush := func() error {
		if buf.Len() == 0 {
			return nil
		}
		seg := Segment{Text: buf.String()}
		for _, f := range stack {
			if err := seg.apply(f); err != nil {
				return err
			}
		}
		segments = append(segments, seg)
		buf.Reset()
		return nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '@':
			end := strings.IndexRune(string(runes[i+1:]), '{')
			if end < 0 {
				return nil, fmt.Errorf("%w: format at %d has no opening brace", ErrFormat, i)
			}
			format := string(runes[i+1:])[:end]
			if err := flush(); err != nil {
				return nil, err
			}
			stack = append(stack, format)
			i += len([]rune(format)) + 1
		case '}':
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unmatched } at %d", ErrFormat, i)
			}
			if err := flush(); err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
		case '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("%w: trailing backslash", ErrFormat)
			}
			i++
			buf.WriteRune(runes[i])
		default:
			buf.WriteRune(c)
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: unclosed @%s{", ErrFormat, stack[len(stack)-1])
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return segments, nil
}

// Render converts markup into a JSON text array.
func Render(text string) (string, error) {
	segments, err := Parse(text)
	if err != nil {
		return "", err
	}
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.Marshal(segments)
	if err != nil {
		return "", fmt.Errorf("failed to encode rich text: %w", err)
	}
	return string(data), nil
}
