package coord

import (
	"errors"
	"testing"
)

func TestCoord_String(t *testing.T) {
	tests := []struct {
		name     string
		c        Coord
		expected string
	}{
		{name: "absolute", c: New(1, 2, 3), expected: "1 2 3"},
		{name: "negative", c: New(-4, 0, 7), expected: "-4 0 7"},
		{name: "tilde", c: Of(Tilde, Abs(64), Rel(2)), expected: "~0 64 ~2"},
		{name: "rounds half up", c: Of(Abs(1.5), Abs(-0.5), Abs(2.49)), expected: "2 0 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.String(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCoord_FloatString(t *testing.T) {
	c := Of(Abs(1.25), Rel(-0.5), Abs(3))
	if got := c.FloatString(); got != "1.25 ~-0.5 3" {
		t.Errorf("Expected '1.25 ~-0.5 3', got %q", got)
	}
}

func TestComponent_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		got      Component
		expected Component
	}{
		{name: "abs + abs", got: Abs(1).Add(Abs(2)), expected: Abs(3)},
		{name: "abs + tilde", got: Abs(1).Add(Rel(2)), expected: Rel(3)},
		{name: "tilde + abs", got: Rel(1).Add(Abs(2)), expected: Rel(3)},
		{name: "tilde + tilde", got: Rel(1).Add(Rel(2)), expected: Rel(3)},
		{name: "abs - abs", got: Abs(5).Sub(Abs(2)), expected: Abs(3)},
		{name: "tilde - abs", got: Rel(5).Sub(Abs(2)), expected: Rel(3)},
		{name: "abs - tilde", got: Abs(5).Sub(Rel(2)), expected: Rel(3)},
		{name: "tilde - tilde cancels", got: Rel(5).Sub(Rel(2)), expected: Abs(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, tt.got)
			}
		})
	}
}

func TestCoord_ScaleRejectsTilde(t *testing.T) {
	scaled, err := New(1, 2, 3).Scale(2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if scaled != New(2, 4, 6) {
		t.Errorf("Expected 2 4 6, got %s", scaled)
	}

	if _, err := Of(Abs(1), Tilde, Abs(1)).Scale(2); !errors.Is(err, ErrRelativeScale) {
		t.Errorf("Expected ErrRelativeScale, got %v", err)
	}
	if _, err := Of(Abs(1), Abs(1), Rel(3)).Div(2); !errors.Is(err, ErrRelativeScale) {
		t.Errorf("Expected ErrRelativeScale from Div, got %v", err)
	}
}

func TestCoord_AddSubRoundTrip(t *testing.T) {
	absolutes := []Coord{
		New(0, 0, 0),
		New(5043, 228, 4959),
		Of(Abs(-1.5), Abs(0.25), Abs(100)),
		Of(Abs(0.1), Abs(29_999_999.7), Abs(-0.3)),
		Of(Abs(0.7), Abs(1e16), Abs(-1e16)),
	}
	others := []Coord{
		New(1, 2, 3),
		Here,
		Of(Rel(3), Abs(-7), Rel(-0.5)),
		Of(Abs(0.75), Rel(12), Abs(-2)),
		Of(Abs(0.2), Abs(1), Rel(1e-6)),
		Of(Abs(MaxBlock), Abs(-MaxBlock), Abs(1.000001)),
	}

	for _, a := range absolutes {
		for _, b := range others {
			if got := a.Add(b).Sub(b); got != a {
				t.Errorf("(%s + %s) - %s = %s, expected %s", a.FloatString(), b.FloatString(), b.FloatString(), got.FloatString(), a.FloatString())
			}
		}
	}
}

func TestComponent_Exact(t *testing.T) {
	if got := Abs(0.1).Add(Abs(0.2)); got != Abs(0.3) {
		t.Errorf("Expected 0.1 + 0.2 == 0.3, got %v", got.Value())
	}
	if got := Rel(0.3).Sub(Rel(0.1)); got != Abs(0.2) {
		t.Errorf("Expected ~0.3 - ~0.1 == 0.2, got %+v", got)
	}
	if got := Abs(1e16); got != Abs(MaxBlock) {
		t.Errorf("Expected clamp to %d, got %v", MaxBlock, got.Value())
	}
	if got := Abs(-1e16).Value(); got != -MaxBlock {
		t.Errorf("Expected clamp to -%d, got %v", MaxBlock, got)
	}
	if got := Of(Abs(0.1), Rel(-0.3), Abs(1e-7)).FloatString(); got != "0.1 ~-0.3 0" {
		t.Errorf("Expected '0.1 ~-0.3 0', got %q", got)
	}
	if got := Of(Abs(-1.6), Abs(-1.5), Abs(2.5)).String(); got != "-2 -1 3" {
		t.Errorf("Expected '-2 -1 3', got %q", got)
	}
}

func TestCoord_Setblock(t *testing.T) {
	got := New(1, 2, 3).Add(Up).Setblock("minecraft:air")
	if got != "setblock 1 3 3 minecraft:air" {
		t.Errorf("Unexpected setblock command: %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		expected Coord
		wantErr  bool
	}{
		{in: "1 2 3", expected: New(1, 2, 3)},
		{in: "~ ~1 ~-2.5", expected: Of(Tilde, Rel(1), Rel(-2.5))},
		{in: "  -4  64\t0 ", expected: New(-4, 64, 0)},
		{in: "1 2", wantErr: true},
		{in: "1 2 3 4", wantErr: true},
		{in: "^ ^ ^1", wantErr: true},
		{in: "a b c", wantErr: true},
		{in: "0 1e16 0", wantErr: true},
		{in: "NaN 0 0", wantErr: true},
		{in: "0.1 30000000 -0.3", expected: Of(Abs(0.1), Abs(MaxBlock), Abs(-0.3))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoord) {
					t.Fatalf("expected ErrInvalidCoord, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
