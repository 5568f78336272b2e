package datapack

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/coord"
)

var (
	// ErrNoRoot is returned when a namespace places command blocks but has
	// no root coordinate.
	ErrNoRoot = errors.New("namespace has no root coordinate")

	// ErrDuplicateFunction is returned when a function name is already taken.
	ErrDuplicateFunction = errors.New("duplicate function")

	ErrDuplicateNamespace = errors.New("duplicate namespace")
	ErrDuplicateTrigger   = errors.New("duplicate trigger")
	ErrInvalidName        = errors.New("invalid name")
	ErrNegativeOffset     = errors.New("negative tick offset")
)

// Namespace holds the functions, triggers and command blocks of one
// datapack namespace.
type Namespace struct {
	pack *Datapack
	name string
	root *coord.Coord

	functions []*Function
	byName    map[string]*Function

	triggers  []*Trigger
	triggerID map[string]*Trigger

	commandBlocks []command.Entry
	advancements  []resource
	recipes       []resource

	counters map[string]int
}

func newNamespace(pack *Datapack, name string) *Namespace {
	return &Namespace{
		pack:      pack,
		name:      name,
		byName:    make(map[string]*Function),
		triggerID: make(map[string]*Trigger),
		counters:  make(map[string]int),
	}
}

// Name returns the namespace identifier.
func (ns *Namespace) Name() string {
	return ns.name
}

// WithRoot sets the coordinate command blocks are placed relative to.
// Returns the namespace for method chaining.
func (ns *Namespace) WithRoot(root coord.Coord) *Namespace {
	ns.root = &root
	return ns
}

// Root returns the root coordinate, if any.
func (ns *Namespace) Root() (coord.Coord, bool) {
	if ns.root == nil {
		return coord.Coord{}, false
	}
	return *ns.root, true
}

// next returns the next free "<prefix>_<n>" name. Counters are per prefix.
func (ns *Namespace) next(prefix string, taken func(string) bool) string {
	for {
		n := ns.counters[prefix]
		ns.counters[prefix] = n + 1
		name := prefix + "_" + strconv.Itoa(n)
		if !taken(name) {
			return name
		}
	}
}

func (ns *Namespace) functionTaken(name string) bool {
	_, ok := ns.byName[name]
	return ok
}

func (ns *Namespace) add(name string, body []command.Command) (*Function, error) {
	if ns.functionTaken(name) {
		return nil, fmt.Errorf("%w: %s:%s", ErrDuplicateFunction, ns.name, name)
	}
	f := &Function{
		FunctionRef: command.FunctionRef{Namespace: ns.name, Name: name},
		body:        body,
	}
	ns.functions = append(ns.functions, f)
	ns.byName[name] = f
	return f, nil
}

func (ns *Namespace) build(fn func(*command.Builder)) ([]command.Command, error) {
	b := command.Build(ns, fn)
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b.Commands(), nil
}

// Function builds and registers a named function.
func (ns *Namespace) Function(name string, fn func(*command.Builder)) (*Function, error) {
	n, err := PathName(name)
	if err != nil {
		return nil, fmt.Errorf("function in %s: %w", ns.name, err)
	}
	if ns.functionTaken(n) {
		return nil, fmt.Errorf("%w: %s:%s", ErrDuplicateFunction, ns.name, n)
	}
	body, err := ns.build(fn)
	if err != nil {
		return nil, fmt.Errorf("function %s:%s: %w", ns.name, n, err)
	}
	return ns.add(n, body)
}

// AnonymousFunction registers a function named fn_<n>.
func (ns *Namespace) AnonymousFunction(fn func(*command.Builder)) (*Function, error) {
	return ns.anonymous("fn", fn)
}

func (ns *Namespace) anonymous(prefix string, fn func(*command.Builder)) (*Function, error) {
	body, err := ns.build(fn)
	if err != nil {
		return nil, fmt.Errorf("%s function in %s: %w", prefix, ns.name, err)
	}
	return ns.add(ns.next(prefix, ns.functionTaken), body)
}

// RegisterFunction stores a function created from inside a command scope,
// such as a schedule block.
func (ns *Namespace) RegisterFunction(prefix string, body []command.Command) (command.FunctionRef, error) {
	f, err := ns.add(ns.next(prefix, ns.functionTaken), body)
	if err != nil {
		return command.FunctionRef{}, err
	}
	return f.Ref(), nil
}

// OnLoad registers a load_<n> function and adds it to the pack's load tag.
func (ns *Namespace) OnLoad(fn func(*command.Builder)) (*Function, error) {
	f, err := ns.anonymous("load", fn)
	if err != nil {
		return nil, err
	}
	ns.pack.onLoad = append(ns.pack.onLoad, f.Ref())
	return f, nil
}

// OnTick registers a tick_<n> function and adds it to the pack's tick tag.
func (ns *Namespace) OnTick(fn func(*command.Builder)) (*Function, error) {
	f, err := ns.anonymous("tick", fn)
	if err != nil {
		return nil, err
	}
	ns.pack.onTick = append(ns.pack.onTick, f.Ref())
	return f, nil
}

// Functions returns the namespace's functions in creation order.
func (ns *Namespace) Functions() []*Function {
	out := make([]*Function, len(ns.functions))
	copy(out, ns.functions)
	return out
}

// LookupFunction finds a function by name.
func (ns *Namespace) LookupFunction(name string) (*Function, bool) {
	f, ok := ns.byName[normalize(name)]
	return f, ok
}

// CommandBlocks appends always-on command blocks. They are placed in a row
// next to the root and power themselves.
func (ns *Namespace) CommandBlocks(fn func(*command.Builder)) error {
	b := command.Build(ns, fn)
	if err := b.Err(); err != nil {
		return fmt.Errorf("command blocks in %s: %w", ns.name, err)
	}
	ns.commandBlocks = append(ns.commandBlocks, b.Entries()...)
	return nil
}

// Fire returns a reference that powers the named trigger of this namespace.
// The trigger may be declared later.
func (ns *Namespace) Fire(trigger string) command.Command {
	return command.FromRef(command.Ref{Namespace: ns.name, Trigger: trigger, Kind: command.RefFire})
}

// Reset returns a reference that clears the named trigger of this namespace.
func (ns *Namespace) Reset(trigger string) command.Command {
	return command.FromRef(command.Ref{Namespace: ns.name, Trigger: trigger, Kind: command.RefReset})
}
