package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Lines is one command or a list of commands.
type Lines []string

func (l *Lines) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*l = Lines{n.Value}
		return nil
	}
	var out []string
	if err := n.Decode(&out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Modifier is one execute subcommand, e.g. {as: "@a"}.
type Modifier struct {
	Verb string
	Arg  string
}

var modifierVerbs = map[string]bool{
	"as":              true,
	"at":              true,
	"in":              true,
	"positioned":      true,
	"positioned_as":   true,
	"positioned_over": true,
	"align":           true,
	"anchored":        true,
	"rotated":         true,
	"rotated_as":      true,
	"facing":          true,
	"facing_entity":   true,
	"on":              true,
	"summon":          true,
}

// Step is one entry of a body. Modifiers keep their document order since
// execute subcommands apply left to right.
type Step struct {
	Cmd       Lines
	Impulse   Lines
	Repeat    Lines
	If        *Cond
	Then      []Step
	Else      []Step
	Do        []Step
	Modifiers []Modifier
	Schedule  *Schedule
	Call      string
	Fire      string
	Reset     string

	line int
}

func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", n.Line)
	}
	*s = Step{line: n.Line}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		var err error
		switch key {
		case "cmd":
			err = val.Decode(&s.Cmd)
		case "impulse":
			err = val.Decode(&s.Impulse)
		case "repeat":
			err = val.Decode(&s.Repeat)
		case "if":
			s.If = &Cond{}
			err = val.Decode(s.If)
		case "then":
			err = val.Decode(&s.Then)
		case "else":
			err = val.Decode(&s.Else)
		case "do":
			err = val.Decode(&s.Do)
		case "schedule":
			s.Schedule = &Schedule{}
			err = val.Decode(s.Schedule)
		case "call":
			err = val.Decode(&s.Call)
		case "fire":
			err = val.Decode(&s.Fire)
		case "reset":
			err = val.Decode(&s.Reset)
		default:
			if !modifierVerbs[key] {
				return fmt.Errorf("line %d: unknown step key %q", n.Content[i].Line, key)
			}
			var arg string
			err = val.Decode(&arg)
			s.Modifiers = append(s.Modifiers, Modifier{Verb: key, Arg: arg})
		}
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", val.Line, key, err)
		}
	}
	return nil
}

// actions counts the mutually exclusive things a step does.
func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		len(s.Cmd) > 0, len(s.Impulse) > 0, len(s.Repeat) > 0,
		s.If != nil, len(s.Do) > 0, s.Schedule != nil,
		s.Call != "", s.Fire != "", s.Reset != "",
	} {
		if set {
			n++
		}
	}
	return n
}

// Cond is a condition tree. A bare string is shorthand for {term: ...}.
type Cond struct {
	Term   string `yaml:"term"`
	Unless string `yaml:"unless"`
	And    []Cond `yaml:"and"`
	Or     []Cond `yaml:"or"`
	Not    *Cond  `yaml:"not"`
}

func (c *Cond) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*c = Cond{Term: n.Value}
		return nil
	}
	type plain Cond
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*c = Cond(p)
	return nil
}

// Schedule runs a body or a named function after a delay.
type Schedule struct {
	Delay    Delay  `yaml:"delay"`
	Body     []Step `yaml:"body"`
	Function string `yaml:"function"`
}

// Delay is the raw delay text: a tick count or a number with a t, s or d
// suffix.
type Delay string

func (d *Delay) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("delay must be a scalar")
	}
	*d = Delay(n.Value)
	return nil
}
