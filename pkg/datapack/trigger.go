package datapack

import (
	"fmt"
	"math"
	"slices"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/layout"
)

// Trigger is a timeline of command blocks. Firing it starts every entry at
// once; each entry waits for its tick offset before running.
type Trigger struct {
	ns    *Namespace
	id    string
	steps map[int][]command.Entry
	err   error
}

// ID returns the trigger's identifier within its namespace.
func (t *Trigger) ID() string {
	return t.id
}

// Err returns the first error recorded while filling the timeline.
func (t *Trigger) Err() error {
	return t.err
}

// At adds commands that run ticks after the trigger fires. Calling At twice
// with the same offset appends to that offset.
func (t *Trigger) At(ticks int, fn func(*command.Builder)) *Trigger {
	if t.err != nil {
		return t
	}
	if ticks < 0 {
		t.err = fmt.Errorf("%w: trigger %s at %d", ErrNegativeOffset, t.id, ticks)
		return t
	}
	b := command.Build(t.ns, fn)
	if err := b.Err(); err != nil {
		t.err = fmt.Errorf("trigger %s at %d: %w", t.id, ticks, err)
		return t
	}
	t.steps[ticks] = append(t.steps[ticks], b.Entries()...)
	return t
}

// AtTime is At with a fractional offset, rounded half up.
func (t *Trigger) AtTime(ticks float64, fn func(*command.Builder)) *Trigger {
	return t.At(int(math.Floor(ticks+0.5)), fn)
}

// Fire returns a reference that powers this trigger.
func (t *Trigger) Fire() command.Command {
	return t.ns.Fire(t.id)
}

// Reset returns a reference that clears this trigger's control column so it
// can fire again.
func (t *Trigger) Reset() command.Command {
	return t.ns.Reset(t.id)
}

// Offsets returns the used tick offsets in ascending order.
func (t *Trigger) Offsets() []int {
	offsets := make([]int, 0, len(t.steps))
	for o := range t.steps {
		offsets = append(offsets, o)
	}
	slices.Sort(offsets)
	return offsets
}

func (t *Trigger) lane() layout.Lane {
	lane := layout.Lane{ID: t.id}
	for _, o := range t.Offsets() {
		lane.Steps = append(lane.Steps, layout.Step{Offset: o, Entries: slices.Clone(t.steps[o])})
	}
	return lane
}

// Trigger creates a trigger named trigger_<n> and fills it with fn.
func (ns *Namespace) Trigger(fn func(*Trigger)) (*Trigger, error) {
	return ns.newTrigger(ns.next("trigger", ns.triggerTaken), fn)
}

// NamedTrigger creates a trigger with an explicit id so it can be referenced
// with Fire and Reset before it is declared.
func (ns *Namespace) NamedTrigger(id string, fn func(*Trigger)) (*Trigger, error) {
	n, err := PathName(id)
	if err != nil {
		return nil, fmt.Errorf("trigger in %s: %w", ns.name, err)
	}
	if ns.triggerTaken(n) {
		return nil, fmt.Errorf("%w: %s:%s", ErrDuplicateTrigger, ns.name, n)
	}
	return ns.newTrigger(n, fn)
}

func (ns *Namespace) triggerTaken(id string) bool {
	_, ok := ns.triggerID[id]
	return ok
}

func (ns *Namespace) newTrigger(id string, fn func(*Trigger)) (*Trigger, error) {
	t := &Trigger{ns: ns, id: id, steps: make(map[int][]command.Entry)}
	if fn != nil {
		fn(t)
	}
	if t.err != nil {
		return nil, t.err
	}
	ns.triggers = append(ns.triggers, t)
	ns.triggerID[id] = t
	return t, nil
}

// Triggers returns the namespace's triggers in creation order.
func (ns *Namespace) Triggers() []*Trigger {
	out := make([]*Trigger, len(ns.triggers))
	copy(out, ns.triggers)
	return out
}
