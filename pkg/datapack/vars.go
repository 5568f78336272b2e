package datapack

import (
	"fmt"
	"strconv"

	"github.com/jwebster45206/mcdsl/pkg/condition"
)

// Scoreboard variables are fake players on an objective named after the
// namespace. Call Objective once from a load function before using them.

// Objective returns the command that creates the namespace's objective.
func (ns *Namespace) Objective() string {
	return "scoreboard objectives add " + ns.name + " dummy"
}

func (ns *Namespace) varName(name string) (string, error) {
	if name == "" {
		return ns.next("var", func(string) bool { return false }), nil
	}
	n, err := PathName(name)
	if err != nil {
		return "", fmt.Errorf("variable in %s: %w", ns.name, err)
	}
	return n, nil
}

type score struct {
	objective string
	player    string
}

func (s score) holder() string { return s.player + " " + s.objective }

func (s score) set(v int) string {
	return "scoreboard players set " + s.holder() + " " + strconv.Itoa(v)
}

func (s score) matches(r string) condition.Condition {
	return condition.Con("score " + s.holder() + " matches " + r)
}

// StoreTarget implements command.Storable.
func (s score) StoreTarget() string { return "score " + s.holder() }

// VarInt is an integer scoreboard variable.
type VarInt struct{ score }

// VarInt declares an integer variable. An empty name picks var_<n>.
func (ns *Namespace) VarInt(name string) (VarInt, error) {
	n, err := ns.varName(name)
	if err != nil {
		return VarInt{}, err
	}
	return VarInt{score{objective: ns.name, player: n}}, nil
}

func (v VarInt) Name() string { return v.player }

func (v VarInt) Set(value int) string { return v.set(value) }

// Add adds delta, which may be negative.
func (v VarInt) Add(delta int) string {
	if delta < 0 {
		return "scoreboard players remove " + v.holder() + " " + strconv.Itoa(-delta)
	}
	return "scoreboard players add " + v.holder() + " " + strconv.Itoa(delta)
}

func (v VarInt) Eq(value int) condition.Condition { return v.matches(strconv.Itoa(value)) }

// Matches tests against a range such as "1..5" or "..0".
func (v VarInt) Matches(r string) condition.Condition { return v.matches(r) }

// Discriminant is implemented by enum types stored in a VarEnum.
type Discriminant interface {
	Discriminant() int
}

// VarEnum stores one value of T.
type VarEnum[T Discriminant] struct{ score }

// NewVarEnum declares an enum variable on ns. An empty name picks var_<n>.
func NewVarEnum[T Discriminant](ns *Namespace, name string) (VarEnum[T], error) {
	n, err := ns.varName(name)
	if err != nil {
		return VarEnum[T]{}, err
	}
	return VarEnum[T]{score{objective: ns.name, player: n}}, nil
}

func (v VarEnum[T]) Name() string { return v.player }

func (v VarEnum[T]) Set(value T) string { return v.set(value.Discriminant()) }

func (v VarEnum[T]) Eq(value T) condition.Condition {
	return v.matches(strconv.Itoa(value.Discriminant()))
}

// OneOf is true when the variable holds any of values.
func (v VarEnum[T]) OneOf(values ...T) condition.Condition {
	children := make([]condition.Condition, len(values))
	for i, value := range values {
		children[i] = v.Eq(value)
	}
	return condition.Or(children...)
}

// VarBool is a 0/1 scoreboard variable.
type VarBool struct{ score }

// VarBool declares a boolean variable. An empty name picks var_<n>.
func (ns *Namespace) VarBool(name string) (VarBool, error) {
	n, err := ns.varName(name)
	if err != nil {
		return VarBool{}, err
	}
	return VarBool{score{objective: ns.name, player: n}}, nil
}

func (v VarBool) Name() string { return v.player }

func (v VarBool) True() condition.Condition  { return v.matches("1") }
func (v VarBool) False() condition.Condition { return v.matches("0") }

func (v VarBool) Set(b bool) string {
	if b {
		return v.set(1)
	}
	return v.set(0)
}

// Toggle flips the variable in one command. An unset score counts as false.
func (v VarBool) Toggle() string {
	return "execute store success " + v.StoreTarget() + " unless score " + v.holder() + " matches 1"
}
