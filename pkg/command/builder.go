// Package command builds guarded Minecraft commands.
//
// A Builder is one command scope. Nested scopes (modifier blocks, if/else
// blocks) are fresh builders; when a nested block returns, the parent takes
// its entries and prefixes them with the block's modifiers. Prefixes are
// kept as a list on each entry and only flattened into
// "execute <m1> <m2> ... run <cmd>" when the entry is composed, so nesting
// order in source is always the order of the emitted prefix chain.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/condition"
)

// ErrNoRegistrar is returned when a scope that cannot register functions
// is asked to schedule one.
var ErrNoRegistrar = errors.New("scope has no function registrar")

// Kind tells the layout compiler which block an entry becomes.
type Kind int

const (
	// KindCommand is a plain function command. In a command block context it
	// is placed as an impulse block.
	KindCommand Kind = iota
	KindImpulse
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindImpulse:
		return "impulse"
	case KindRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is one emitted command with the modifiers wrapping it, outermost first.
type Entry struct {
	Kind      Kind
	Modifiers []string
	Command   Command
}

// Compose flattens the entry into its final command.
func (e Entry) Compose() Command {
	if len(e.Modifiers) == 0 {
		return e.Command
	}
	return e.Command.Prefix("execute " + strings.Join(e.Modifiers, " ") + " run ")
}

func (e Entry) wrap(mods []string) Entry {
	if len(mods) == 0 {
		return e
	}
	out := make([]string, 0, len(mods)+len(e.Modifiers))
	out = append(out, mods...)
	out = append(out, e.Modifiers...)
	return Entry{Kind: e.Kind, Modifiers: out, Command: e.Command}
}

// FunctionRef names a registered function.
type FunctionRef struct {
	Namespace string
	Name      string
}

// ID returns "namespace:name"
func (f FunctionRef) ID() string {
	return f.Namespace + ":" + f.Name
}

// Call returns the command that runs the function
func (f FunctionRef) Call() string {
	return "function " + f.ID()
}

// Registrar stores functions created from inside a scope (schedule blocks).
type Registrar interface {
	RegisterFunction(prefix string, body []Command) (FunctionRef, error)
}

// Builder accumulates the commands of one scope.
type Builder struct {
	reg     Registrar
	entries []Entry
	err     error
}

// NewBuilder returns an empty root scope. reg may be nil if the scope
// never schedules functions.
func NewBuilder(reg Registrar) *Builder {
	return &Builder{reg: reg}
}

// Build runs fn against a fresh scope and returns it.
func Build(reg Registrar, fn func(*Builder)) *Builder {
	b := NewBuilder(reg)
	if fn != nil {
		fn(b)
	}
	return b
}

func (b *Builder) child() *Builder {
	return &Builder{reg: b.reg}
}

// Err returns the first error recorded in this scope or any merged child.
func (b *Builder) Err() error {
	return b.err
}

// Fail records err unless an earlier error is already recorded.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Entries returns the scope's entries in emission order.
func (b *Builder) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Commands returns the composed commands in emission order.
func (b *Builder) Commands() []Command {
	out := make([]Command, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Compose()
	}
	return out
}

// Strings returns the composed commands rendered as text.
func (b *Builder) Strings() []string {
	return Strings(b.Commands())
}

// merge takes ownership of inner's entries, wrapping each with mods.
func (b *Builder) merge(inner *Builder, mods []string) {
	if inner.err != nil {
		b.Fail(inner.err)
		return
	}
	for _, e := range inner.entries {
		b.entries = append(b.entries, e.wrap(mods))
	}
}

func (b *Builder) add(kind Kind, c Command) {
	b.entries = append(b.entries, Entry{Kind: kind, Command: c})
}

// Cmd appends literal commands.
func (b *Builder) Cmd(cmds ...string) {
	for _, c := range cmds {
		b.add(KindCommand, Raw(c))
	}
}

// Run appends commands that may carry trigger references.
func (b *Builder) Run(cmds ...Command) {
	for _, c := range cmds {
		b.add(KindCommand, c)
	}
}

// Impulse appends commands placed in one-shot command blocks.
func (b *Builder) Impulse(cmds ...string) {
	for _, c := range cmds {
		b.add(KindImpulse, Raw(c))
	}
}

// ImpulseRun is Impulse for commands carrying trigger references.
func (b *Builder) ImpulseRun(cmds ...Command) {
	for _, c := range cmds {
		b.add(KindImpulse, c)
	}
}

// Repeat appends commands placed in repeating command blocks.
func (b *Builder) Repeat(cmds ...string) {
	for _, c := range cmds {
		b.add(KindRepeat, Raw(c))
	}
}

// RepeatRun is Repeat for commands carrying trigger references.
func (b *Builder) RepeatRun(cmds ...Command) {
	for _, c := range cmds {
		b.add(KindRepeat, c)
	}
}

// RepeatFunction registers fn as an anonymous function and places a
// repeating block that calls it.
func (b *Builder) RepeatFunction(fn func(*Builder)) {
	ref, ok := b.register("repeat", fn)
	if ok {
		b.Repeat(ref.Call())
	}
}

// Schedule registers fn as an anonymous function and appends a schedule
// command that runs it after d.
func (b *Builder) Schedule(d Delay, fn func(*Builder)) FunctionRef {
	ref, ok := b.register("schedule", fn)
	if ok {
		b.ScheduleFunction(d, ref)
	}
	return ref
}

// ScheduleFunction appends a schedule command for an existing function.
func (b *Builder) ScheduleFunction(d Delay, f FunctionRef) {
	b.Cmd("schedule function " + f.ID() + " " + d.String())
}

func (b *Builder) register(prefix string, fn func(*Builder)) (FunctionRef, bool) {
	if b.reg == nil {
		b.Fail(ErrNoRegistrar)
		return FunctionRef{}, false
	}
	inner := b.child()
	fn(inner)
	if inner.err != nil {
		b.Fail(inner.err)
		return FunctionRef{}, false
	}
	ref, err := b.reg.RegisterFunction(prefix, inner.Commands())
	if err != nil {
		b.Fail(err)
		return FunctionRef{}, false
	}
	return ref, true
}

// If emits the block's commands once per solved variant of cond.
func (b *Builder) If(cond condition.Condition, fn func(*Builder)) *Else {
	return b.Execute().If(cond, fn)
}

// Else is returned by If so an else block can follow.
type Else struct {
	chain *Chain
	cond  condition.Condition
}

// Else emits the block guarded by the negation of the matching If's condition.
func (e *Else) Else(fn func(*Builder)) {
	if e == nil || e.cond == nil {
		return
	}
	e.chain.If(condition.Not(e.cond), fn)
}

// ElseIf chains another guarded block that only runs when the previous
// condition failed.
func (e *Else) ElseIf(cond condition.Condition, fn func(*Builder)) *Else {
	if e == nil || e.cond == nil {
		return e
	}
	guard := condition.And(condition.Not(e.cond), cond)
	e.chain.If(guard, fn)
	return &Else{chain: e.chain, cond: condition.Or(e.cond, cond)}
}
