package command

import (
	"fmt"
	"strings"
)

// RefKind selects what a trigger reference expands to.
type RefKind int

const (
	// RefFire powers the trigger's control column
	RefFire RefKind = iota
	// RefReset clears the trigger's control column
	RefReset
)

func (k RefKind) String() string {
	switch k {
	case RefFire:
		return "fire"
	case RefReset:
		return "reset"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Ref is an unresolved reference to a trigger. It stays inside a Command
// until the layout pass knows where the trigger was placed.
type Ref struct {
	Namespace string
	Trigger   string
	Kind      RefKind
}

func (r Ref) String() string {
	return "<" + r.Kind.String() + " " + r.Namespace + ":" + r.Trigger + ">"
}

// Part is either literal text or a trigger reference.
type Part struct {
	Text string
	Ref  *Ref
}

// Command is a command line made of literal text and trigger references.
// The zero value is an empty command.
type Command struct {
	parts []Part
}

// Raw wraps literal command text
func Raw(s string) Command {
	if s == "" {
		return Command{}
	}
	return Command{parts: []Part{{Text: s}}}
}

// FromRef wraps a single trigger reference
func FromRef(r Ref) Command {
	return Command{parts: []Part{{Ref: &r}}}
}

// Concat joins commands without separators.
func Concat(cmds ...Command) Command {
	var out Command
	for _, c := range cmds {
		out = out.Append(c)
	}
	return out
}

// Append returns c followed by o. Adjacent text parts are merged.
func (c Command) Append(o Command) Command {
	parts := make([]Part, 0, len(c.parts)+len(o.parts))
	parts = append(parts, c.parts...)
	for _, p := range o.parts {
		n := len(parts)
		if p.Ref == nil && n > 0 && parts[n-1].Ref == nil {
			parts[n-1] = Part{Text: parts[n-1].Text + p.Text}
			continue
		}
		parts = append(parts, p)
	}
	return Command{parts: parts}
}

// Prefix returns s followed by c
func (c Command) Prefix(s string) Command {
	return Raw(s).Append(c)
}

// MapText returns a copy of c with fn applied to every literal text part.
// References are left untouched.
func (c Command) MapText(fn func(string) string) Command {
	parts := make([]Part, len(c.parts))
	for i, p := range c.parts {
		if p.Ref == nil {
			p.Text = fn(p.Text)
		}
		parts[i] = p
	}
	return Command{parts: parts}
}

// Parts returns a copy of the command's parts.
func (c Command) Parts() []Part {
	out := make([]Part, len(c.parts))
	copy(out, c.parts)
	return out
}

func (c Command) IsZero() bool { return len(c.parts) == 0 }

// Refs lists the trigger references in order of appearance.
func (c Command) Refs() []Ref {
	var refs []Ref
	for _, p := range c.parts {
		if p.Ref != nil {
			refs = append(refs, *p.Ref)
		}
	}
	return refs
}

// String renders the command with references shown as <fire ns:id>.
// Use Resolve to produce final output.
func (c Command) String() string {
	var sb strings.Builder
	for _, p := range c.parts {
		if p.Ref != nil {
			sb.WriteString(p.Ref.String())
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Resolve renders the command, replacing each reference with the text
// returned by lookup.
func (c Command) Resolve(lookup func(Ref) (string, error)) (string, error) {
	var sb strings.Builder
	for _, p := range c.parts {
		if p.Ref == nil {
			sb.WriteString(p.Text)
			continue
		}
		s, err := lookup(*p.Ref)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Strings renders commands with String, mostly for tests and diagnostics.
func Strings(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.String()
	}
	return out
}
