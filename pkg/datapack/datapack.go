// Package datapack assembles namespaces, functions and trigger timelines
// into the files of a Minecraft datapack.
//
//	pack := datapack.New("airlock")
//	ns, _ := pack.Namespace("airlock")
//	ns.WithRoot(coord.New(0, 64, 0))
//	door, _ := ns.Trigger(func(t *datapack.Trigger) {
//		t.At(0, func(b *command.Builder) { b.Cmd("say closing") })
//		t.At(20, func(b *command.Builder) { b.Run(t.Reset()) })
//	})
//	out, err := pack.Build()
package datapack

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/mcdsl/pkg/command"
)

// Defaults used by New.
const (
	DefaultDescription = "A datapack made with mcdsl"
	DefaultPackFormat  = 12
)

// Datapack is the root of a build. All declarations happen before Build.
type Datapack struct {
	Name        string
	Description string
	PackFormat  int
	// Icon is the PNG written to pack.png. Nil skips the icon.
	Icon []byte

	namespaces []*Namespace
	byName     map[string]*Namespace
	onLoad     []command.FunctionRef
	onTick     []command.FunctionRef

	logger *slog.Logger
}

// New creates an empty datapack with default metadata.
func New(name string) *Datapack {
	return &Datapack{
		Name:        name,
		Description: DefaultDescription,
		PackFormat:  DefaultPackFormat,
		byName:      make(map[string]*Namespace),
	}
}

// WithLogger sets the logger used during Build.
// Returns the Datapack for method chaining.
func (d *Datapack) WithLogger(logger *slog.Logger) *Datapack {
	d.logger = logger
	return d
}

// Namespace declares a new namespace.
func (d *Datapack) Namespace(name string) (*Namespace, error) {
	n, err := NamespaceName(name)
	if err != nil {
		return nil, err
	}
	if _, ok := d.byName[n]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNamespace, n)
	}
	ns := newNamespace(d, n)
	d.namespaces = append(d.namespaces, ns)
	d.byName[n] = ns
	return ns, nil
}

// LookupNamespace finds a declared namespace.
func (d *Datapack) LookupNamespace(name string) (*Namespace, bool) {
	ns, ok := d.byName[normalize(name)]
	return ns, ok
}

// Namespaces returns the namespaces in declaration order.
func (d *Datapack) Namespaces() []*Namespace {
	out := make([]*Namespace, len(d.namespaces))
	copy(out, d.namespaces)
	return out
}

// AddOnLoad adds an existing function to the load tag.
func (d *Datapack) AddOnLoad(f command.FunctionRef) {
	d.onLoad = append(d.onLoad, f)
}

// AddOnTick adds an existing function to the tick tag.
func (d *Datapack) AddOnTick(f command.FunctionRef) {
	d.onTick = append(d.onTick, f)
}

// LoadFunctions returns the load tag entries in order.
func (d *Datapack) LoadFunctions() []command.FunctionRef {
	out := make([]command.FunctionRef, len(d.onLoad))
	copy(out, d.onLoad)
	return out
}

// TickFunctions returns the tick tag entries in order.
func (d *Datapack) TickFunctions() []command.FunctionRef {
	out := make([]command.FunctionRef, len(d.onTick))
	copy(out, d.onTick)
	return out
}
