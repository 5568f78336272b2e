// Package condition models boolean guards for execute commands and expands
// them into the flat list of "if"/"unless" clause chains they denote.
//
// A condition tree like
//
//	And(Con("A"), Or(Con("B"), Not(Con("C"))))
//
// solves to
//
//	if A if B
//	if A unless C
//
// Each solved variant becomes one execute command, so an Or fans a single
// guarded command out into several.
package condition

import (
	"errors"
	"strings"
)

// ErrEmptyCondition is returned when an And or Or has no children.
var ErrEmptyCondition = errors.New("empty and/or condition")

// Condition is a sealed sum type: Term, And, or Or.
type Condition interface {
	// Not returns the negation, applying De Morgan's law to And and Or
	Not() Condition
	And(other Condition) Condition
	Or(other Condition) Condition
	isCondition()
}

// Term is a single guard such as "score @s x matches 1".
type Term struct {
	Text    string
	Negated bool
}

// AndCond holds children that must all hold.
type AndCond struct {
	Children []Condition
}

// OrCond holds children of which at least one must hold.
type OrCond struct {
	Children []Condition
}

func (Term) isCondition()    {}
func (AndCond) isCondition() {}
func (OrCond) isCondition()  {}

// Con creates an "if" term
func Con(text string) Term {
	return Term{Text: text}
}

// Unless creates a negated term
func Unless(text string) Term {
	return Term{Text: text, Negated: true}
}

// And combines conditions into a conjunction
func And(children ...Condition) AndCond {
	return AndCond{Children: children}
}

// Or combines conditions into a disjunction
func Or(children ...Condition) OrCond {
	return OrCond{Children: children}
}

// Not negates c
func Not(c Condition) Condition {
	return c.Not()
}

func (t Term) Not() Condition {
	return Term{Text: t.Text, Negated: !t.Negated}
}

func (t Term) And(other Condition) Condition {
	return AndCond{Children: []Condition{t, other}}
}

func (t Term) Or(other Condition) Condition {
	return OrCond{Children: []Condition{t, other}}
}

func (a AndCond) Not() Condition {
	return OrCond{Children: negateAll(a.Children)}
}

// And appends to the existing conjunction rather than nesting it.
func (a AndCond) And(other Condition) Condition {
	children := make([]Condition, 0, len(a.Children)+1)
	children = append(children, a.Children...)
	return AndCond{Children: append(children, other)}
}

func (a AndCond) Or(other Condition) Condition {
	return OrCond{Children: []Condition{a, other}}
}

func (o OrCond) Not() Condition {
	return AndCond{Children: negateAll(o.Children)}
}

func (o OrCond) And(other Condition) Condition {
	return AndCond{Children: []Condition{o, other}}
}

// Or appends to the existing disjunction rather than nesting it.
func (o OrCond) Or(other Condition) Condition {
	children := make([]Condition, 0, len(o.Children)+1)
	children = append(children, o.Children...)
	return OrCond{Children: append(children, other)}
}

func negateAll(children []Condition) []Condition {
	out := make([]Condition, len(children))
	for i, c := range children {
		out[i] = c.Not()
	}
	return out
}

// Solve expands c into its guard-clause variants. It never returns an empty
// list without an error.
func Solve(c Condition) ([]string, error) {
	switch c := c.(type) {
	case Term:
		if c.Negated {
			return []string{"unless " + c.Text}, nil
		}
		return []string{"if " + c.Text}, nil

	case AndCond:
		if len(c.Children) == 0 {
			return nil, ErrEmptyCondition
		}
		out, err := Solve(c.Children[0])
		if err != nil {
			return nil, err
		}
		for _, child := range c.Children[1:] {
			solved, err := Solve(child)
			if err != nil {
				return nil, err
			}
			next := make([]string, 0, len(out)*len(solved))
			for _, o := range out {
				for _, s := range solved {
					next = append(next, o+" "+s)
				}
			}
			out = next
		}
		return out, nil

	case OrCond:
		if len(c.Children) == 0 {
			return nil, ErrEmptyCondition
		}
		var out []string
		for _, child := range c.Children {
			solved, err := Solve(child)
			if err != nil {
				return nil, err
			}
			out = append(out, solved...)
		}
		return out, nil

	case nil:
		return nil, ErrEmptyCondition

	default:
		panic("condition: unknown condition type")
	}
}

// String renders c for diagnostics, e.g. "(A && (!B || C))".
func String(c Condition) string {
	switch c := c.(type) {
	case Term:
		if c.Negated {
			return "!" + c.Text
		}
		return c.Text
	case AndCond:
		return join(c.Children, " && ")
	case OrCond:
		return join(c.Children, " || ")
	default:
		return "<nil>"
	}
}

func join(children []Condition, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = String(child)
	}
	return "(" + strings.Join(parts, sep) + ")"
}
