package coord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrRelativeScale is returned when a relative (tilde) component is multiplied or divided.
var ErrRelativeScale = errors.New("cannot scale a relative coordinate component")

// MaxBlock is the largest coordinate magnitude Minecraft accepts. Larger
// values are clamped to it.
const MaxBlock = 30_000_000

// unit is the component resolution: one millionth of a block.
const unit = 1_000_000

// Component is one axis of a coordinate: either an absolute value or an
// offset relative to the executing position. Values are kept as a whole
// number of millionths, so Add and Sub are exact and (a+b)-b == a.
type Component struct {
	micros   int64
	Relative bool
}

func toMicros(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > MaxBlock:
		v = MaxBlock
	case v < -MaxBlock:
		v = -MaxBlock
	}
	return int64(math.Round(v * unit))
}

// Abs returns an absolute component
func Abs(v float64) Component { return Component{micros: toMicros(v)} }

// Rel returns a relative (tilde) component
func Rel(v float64) Component { return Component{micros: toMicros(v), Relative: true} }

// Tilde is the bare relative component "~0"
var Tilde = Rel(0)

// Value returns the component in blocks.
func (c Component) Value() float64 {
	return float64(c.micros) / unit
}

// Add sums two components. The result is relative if either side is.
func (c Component) Add(o Component) Component {
	return Component{micros: c.micros + o.micros, Relative: c.Relative || o.Relative}
}

// Sub subtracts o from c. Two relative components cancel into an absolute
// displacement; otherwise the result is relative if either side is.
func (c Component) Sub(o Component) Component {
	if c.Relative && o.Relative {
		return Component{micros: c.micros - o.micros}
	}
	return Component{micros: c.micros - o.micros, Relative: c.Relative || o.Relative}
}

// Scale multiplies an absolute component by f.
func (c Component) Scale(f float64) (Component, error) {
	if c.Relative {
		return Component{}, ErrRelativeScale
	}
	return Abs(c.Value() * f), nil
}

// Div divides an absolute component by f.
func (c Component) Div(f float64) (Component, error) {
	if c.Relative {
		return Component{}, ErrRelativeScale
	}
	return Abs(c.Value() / f), nil
}

// String renders the component rounded half-up to an integer.
func (c Component) String() string {
	n := c.micros + unit/2
	blocks := n / unit
	if n%unit < 0 {
		blocks--
	}
	s := strconv.FormatInt(blocks, 10)
	if c.Relative {
		return "~" + s
	}
	return s
}

func (c Component) floatString() string {
	n := strconv.FormatFloat(c.Value(), 'f', -1, 64)
	if c.Relative {
		return "~" + n
	}
	return n
}

// Coord is an immutable block position in the world.
type Coord struct {
	X, Y, Z Component
}

// New builds an absolute coordinate from integers
func New(x, y, z int) Coord {
	return Coord{Abs(float64(x)), Abs(float64(y)), Abs(float64(z))}
}

// Of builds a coordinate from explicit components
func Of(x, y, z Component) Coord {
	return Coord{x, y, z}
}

// Here is "~0 ~0 ~0"
var Here = Coord{Tilde, Tilde, Tilde}

var (
	Up   = New(0, 1, 0)
	Down = New(0, -1, 0)
)

func (c Coord) Add(o Coord) Coord {
	return Coord{c.X.Add(o.X), c.Y.Add(o.Y), c.Z.Add(o.Z)}
}

func (c Coord) Sub(o Coord) Coord {
	return Coord{c.X.Sub(o.X), c.Y.Sub(o.Y), c.Z.Sub(o.Z)}
}

// Offset adds integer deltas to each axis
func (c Coord) Offset(dx, dy, dz int) Coord {
	return c.Add(New(dx, dy, dz))
}

// Scale multiplies every component by f. Fails if any component is relative.
func (c Coord) Scale(f float64) (Coord, error) {
	return c.apply(func(v Component) (Component, error) { return v.Scale(f) })
}

// Div divides every component by f. Fails if any component is relative.
func (c Coord) Div(f float64) (Coord, error) {
	return c.apply(func(v Component) (Component, error) { return v.Div(f) })
}

func (c Coord) apply(fn func(Component) (Component, error)) (Coord, error) {
	x, err := fn(c.X)
	if err != nil {
		return Coord{}, fmt.Errorf("x: %w", err)
	}
	y, err := fn(c.Y)
	if err != nil {
		return Coord{}, fmt.Errorf("y: %w", err)
	}
	z, err := fn(c.Z)
	if err != nil {
		return Coord{}, fmt.Errorf("z: %w", err)
	}
	return Coord{x, y, z}, nil
}

// IsAbsolute reports whether no component is relative
func (c Coord) IsAbsolute() bool {
	return !c.X.Relative && !c.Y.Relative && !c.Z.Relative
}

// String renders "x y z" with integer values.
func (c Coord) String() string {
	return c.X.String() + " " + c.Y.String() + " " + c.Z.String()
}

// FloatString renders "x y z" without rounding.
func (c Coord) FloatString() string {
	return c.X.floatString() + " " + c.Y.floatString() + " " + c.Z.floatString()
}

// Setblock returns a setblock command placing block at c.
func (c Coord) Setblock(block string) string {
	return "setblock " + c.String() + " " + block
}

var ErrInvalidCoord = errors.New("invalid coordinate")

// Parse reads "x y z" where each part is a number, "~" or "~n".
func Parse(s string) (Coord, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return Coord{}, fmt.Errorf("%w: %q needs three components", ErrInvalidCoord, s)
	}
	var comps [3]Component
	for i, p := range parts {
		c, err := parseComponent(p)
		if err != nil {
			return Coord{}, fmt.Errorf("%w: %q", ErrInvalidCoord, s)
		}
		comps[i] = c
	}
	return Coord{comps[0], comps[1], comps[2]}, nil
}

func parseComponent(p string) (Component, error) {
	rel := strings.HasPrefix(p, "~")
	if rel {
		p = p[1:]
		if p == "" {
			return Tilde, nil
		}
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return Component{}, err
	}
	if math.IsNaN(v) || math.Abs(v) > MaxBlock {
		return Component{}, fmt.Errorf("%s is outside the world", p)
	}
	if rel {
		return Rel(v), nil
	}
	return Abs(v), nil
}

// Dir is a cardinal direction
type Dir string

const (
	North Dir = "north"
	South Dir = "south"
	East  Dir = "east"
	West  Dir = "west"
)

func (d Dir) String() string { return string(d) }
