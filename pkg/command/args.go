package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidArgument is returned when a modifier value cannot be rendered.
var ErrInvalidArgument = errors.New("invalid command argument")

// EntityArg is anything that can stand in for an entity: a selector, a
// player name, or a uuid.
type EntityArg interface {
	Render() (string, error)
}

// PlayerName is a literal player name
type PlayerName string

var playerNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

func (p PlayerName) Render() (string, error) {
	if !playerNameRegex.MatchString(string(p)) {
		return "", fmt.Errorf("%w: player name %q", ErrInvalidArgument, string(p))
	}
	return string(p), nil
}

// PlayerUUID targets an entity by uuid
type PlayerUUID uuid.UUID

func (p PlayerUUID) Render() (string, error) {
	if uuid.UUID(p) == uuid.Nil {
		return "", fmt.Errorf("%w: nil uuid", ErrInvalidArgument)
	}
	return uuid.UUID(p).String(), nil
}

// SelectorArg is one key=value pair inside a selector's brackets.
type SelectorArg struct {
	Key   string
	Value string
}

// Selector is a target selector such as @a[tag=door].
type Selector struct {
	Kind string
	Args []SelectorArg
}

func P() Selector { return Selector{Kind: "p"} }
func R() Selector { return Selector{Kind: "r"} }
func A() Selector { return Selector{Kind: "a"} }
func E() Selector { return Selector{Kind: "e"} }
func S() Selector { return Selector{Kind: "s"} }
func N() Selector { return Selector{Kind: "n"} }

// With returns a copy of s with one more argument. Argument order is kept.
func (s Selector) With(key, value string) Selector {
	args := make([]SelectorArg, 0, len(s.Args)+1)
	args = append(args, s.Args...)
	return Selector{Kind: s.Kind, Args: append(args, SelectorArg{Key: key, Value: value})}
}

var selectorKeyRegex = regexp.MustCompile(`^[a-z_]+$`)

func (s Selector) Render() (string, error) {
	switch s.Kind {
	case "p", "r", "a", "e", "s", "n":
	default:
		return "", fmt.Errorf("%w: selector kind %q", ErrInvalidArgument, s.Kind)
	}
	if len(s.Args) == 0 {
		return "@" + s.Kind, nil
	}
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		if !selectorKeyRegex.MatchString(a.Key) {
			return "", fmt.Errorf("%w: selector argument key %q", ErrInvalidArgument, a.Key)
		}
		parts[i] = a.Key + "=" + a.Value
	}
	return "@" + s.Kind + "[" + strings.Join(parts, ",") + "]", nil
}

// ParseSelector parses "@k" or "@k[key=value,...]". Values may contain
// nested brackets, braces and quoted strings.
func ParseSelector(text string) (Selector, error) {
	if len(text) < 2 || text[0] != '@' {
		return Selector{}, fmt.Errorf("%w: selector %q", ErrInvalidArgument, text)
	}
	sel := Selector{Kind: text[1:2]}
	rest := text[2:]
	if rest == "" {
		_, err := sel.Render()
		return sel, err
	}
	if rest[0] != '[' || rest[len(rest)-1] != ']' {
		return Selector{}, fmt.Errorf("%w: selector %q has trailing text", ErrInvalidArgument, text)
	}

	body := rest[1 : len(rest)-1]
	if strings.TrimSpace(body) != "" {
		items, err := splitTopLevel(body)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: selector %q: %v", ErrInvalidArgument, text, err)
		}
		for _, item := range items {
			key, value, ok := strings.Cut(item, "=")
			if !ok {
				return Selector{}, fmt.Errorf("%w: selector %q: argument %q has no value", ErrInvalidArgument, text, item)
			}
			sel.Args = append(sel.Args, SelectorArg{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)})
		}
	}
	if _, err := sel.Render(); err != nil {
		return Selector{}, err
	}
	return sel, nil
}

// splitTopLevel splits on commas that are not nested in brackets, braces
// or quotes.
func splitTopLevel(s string) ([]string, error) {
	var (
		items []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth < 0 {
				return nil, errors.New("unbalanced brackets")
			}
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if depth != 0 {
		return nil, errors.New("unbalanced brackets")
	}
	return append(items, s[start:]), nil
}

// Entity interprets text as a selector (leading @), a uuid, or a player name.
func Entity(text string) EntityArg {
	if strings.HasPrefix(text, "@") {
		sel, err := ParseSelector(text)
		if err != nil {
			return invalidArg{err: err}
		}
		return sel
	}
	if id, err := uuid.Parse(text); err == nil {
		return PlayerUUID(id)
	}
	return PlayerName(text)
}

type invalidArg struct{ err error }

func (a invalidArg) Render() (string, error) { return "", a.err }

// Anchor is an entity anchor for "anchored" and "facing entity"
type Anchor string

const (
	Feet Anchor = "feet"
	Eyes Anchor = "eyes"
)

func (a Anchor) Render() (string, error) {
	switch a {
	case Feet, Eyes:
		return string(a), nil
	}
	return "", fmt.Errorf("%w: anchor %q", ErrInvalidArgument, string(a))
}

// Heightmap is used by "positioned over"
type Heightmap string

const (
	WorldSurface           Heightmap = "world_surface"
	MotionBlocking         Heightmap = "motion_blocking"
	MotionBlockingNoLeaves Heightmap = "motion_blocking_no_leaves"
	OceanFloor             Heightmap = "ocean_floor"
)

func (h Heightmap) Render() (string, error) {
	switch h {
	case WorldSurface, MotionBlocking, MotionBlockingNoLeaves, OceanFloor:
		return string(h), nil
	}
	return "", fmt.Errorf("%w: heightmap %q", ErrInvalidArgument, string(h))
}

// Relation is used by "on"
type Relation string

const (
	Attacker   Relation = "attacker"
	Controller Relation = "controller"
	Leasher    Relation = "leasher"
	Origin     Relation = "origin"
	Owner      Relation = "owner"
	Passengers Relation = "passengers"
	Target     Relation = "target"
	Vehicle    Relation = "vehicle"
)

func (r Relation) Render() (string, error) {
	switch r {
	case Attacker, Controller, Leasher, Origin, Owner, Passengers, Target, Vehicle:
		return string(r), nil
	}
	return "", fmt.Errorf("%w: relation %q", ErrInvalidArgument, string(r))
}

// Rotation is a yaw/pitch pair in degrees
type Rotation struct {
	Yaw   float64
	Pitch float64
}

func (r Rotation) String() string {
	return strconv.FormatFloat(r.Yaw, 'f', -1, 64) + " " + strconv.FormatFloat(r.Pitch, 'f', -1, 64)
}

// Storable is a target for "store result" and "store success".
type Storable interface {
	StoreTarget() string
}

func validAxes(axes string) bool {
	if axes == "" || len(axes) > 3 {
		return false
	}
	seen := map[rune]bool{}
	for _, r := range axes {
		if (r != 'x' && r != 'y' && r != 'z') || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

var resourceLocationRegex = regexp.MustCompile(`^([a-z0-9_.-]+:)?[a-z0-9_./-]+$`)
