package manifest

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/coord"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

// compiler holds what every body may refer to: the namespaces of the pack
// and the names declared in each.
type compiler struct {
	pack      *datapack.Datapack
	functions map[string]map[string]bool
	triggers  map[string]map[string]bool
	logger    *slog.Logger
}

// Datapack declares everything in the manifest on a new datapack. The result
// is ready for Build. A zero pack_format keeps the datapack default.
func (m *Manifest) Datapack(logger *slog.Logger) (*datapack.Datapack, error) {
	pack := datapack.New(m.Name)
	if m.Description != "" {
		pack.Description = m.Description
	}
	if m.PackFormat > 0 {
		pack.PackFormat = m.PackFormat
	}
	if logger != nil {
		pack.WithLogger(logger)
	}

	c := &compiler{
		pack:      pack,
		functions: make(map[string]map[string]bool),
		triggers:  make(map[string]map[string]bool),
		logger:    logger,
	}

	// Declare first so bodies can call functions and fire triggers that
	// appear later in the file.
	declared := make([]*datapack.Namespace, len(m.Namespaces))
	for i, decl := range m.Namespaces {
		ns, err := pack.Namespace(decl.Name)
		if err != nil {
			return nil, err
		}
		if decl.Root != nil {
			if len(decl.Root) != 3 {
				return nil, fmt.Errorf("%w: namespace %s: root needs three integers", ErrSchema, ns.Name())
			}
			ns.WithRoot(coord.New(decl.Root[0], decl.Root[1], decl.Root[2]))
		}
		fns := make(map[string]bool)
		for _, f := range decl.Functions {
			n, err := datapack.PathName(f.Name)
			if err != nil {
				return nil, fmt.Errorf("namespace %s: %w", ns.Name(), err)
			}
			fns[n] = true
		}
		trs := make(map[string]bool)
		for _, t := range decl.Triggers {
			n, err := datapack.PathName(t.ID)
			if err != nil {
				return nil, fmt.Errorf("namespace %s: %w", ns.Name(), err)
			}
			trs[n] = true
		}
		c.functions[ns.Name()] = fns
		c.triggers[ns.Name()] = trs
		declared[i] = ns
	}

	for i, decl := range m.Namespaces {
		if err := c.namespace(declared[i], decl); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

func (c *compiler) namespace(ns *datapack.Namespace, decl Namespace) error {
	for _, f := range decl.Functions {
		if _, err := ns.Function(f.Name, c.body(ns, f.Body)); err != nil {
			return err
		}
	}
	if len(decl.OnLoad) > 0 {
		if _, err := ns.OnLoad(c.body(ns, decl.OnLoad)); err != nil {
			return err
		}
	}
	if len(decl.OnTick) > 0 {
		if _, err := ns.OnTick(c.body(ns, decl.OnTick)); err != nil {
			return err
		}
	}
	for _, t := range decl.Triggers {
		_, err := ns.NamedTrigger(t.ID, func(tr *datapack.Trigger) {
			for _, at := range t.At {
				tr.AtTime(at.Tick, c.body(ns, at.Body))
			}
		})
		if err != nil {
			return fmt.Errorf("trigger %s:%s: %w", ns.Name(), t.ID, err)
		}
	}
	if len(decl.CommandBlocks) > 0 {
		if err := ns.CommandBlocks(c.body(ns, decl.CommandBlocks)); err != nil {
			return err
		}
	}
	if c.logger != nil {
		c.logger.Debug("Namespace declared",
			"namespace", ns.Name(),
			"functions", len(decl.Functions),
			"triggers", len(decl.Triggers))
	}
	return nil
}

func (c *compiler) body(ns *datapack.Namespace, steps []Step) func(*command.Builder) {
	return func(b *command.Builder) {
		for _, s := range steps {
			if b.Err() != nil {
				return
			}
			c.step(ns, b, s)
		}
	}
}

func (c *compiler) step(ns *datapack.Namespace, b *command.Builder, s Step) {
	if n := s.actions(); n != 1 {
		b.Fail(fmt.Errorf("%w: line %d: step needs exactly one action, has %d", ErrSchema, s.line, n))
		return
	}
	if len(s.Modifiers) == 0 {
		c.action(ns, b, s)
		return
	}
	chain := b.Execute()
	for _, m := range s.Modifiers {
		var err error
		if chain, err = modify(chain, m); err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
	}
	chain.Do(func(inner *command.Builder) { c.action(ns, inner, s) })
}

func (c *compiler) action(ns *datapack.Namespace, b *command.Builder, s Step) {
	switch {
	case len(s.Cmd) > 0:
		b.Cmd(s.Cmd...)
	case len(s.Impulse) > 0:
		b.Impulse(s.Impulse...)
	case len(s.Repeat) > 0:
		b.Repeat(s.Repeat...)
	case len(s.Do) > 0:
		c.body(ns, s.Do)(b)
	case s.If != nil:
		cond, err := s.If.condition()
		if err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
		e := b.If(cond, c.body(ns, s.Then))
		if len(s.Else) > 0 {
			e.Else(c.body(ns, s.Else))
		}
	case s.Schedule != nil:
		c.schedule(ns, b, s)
	case s.Call != "":
		ref, err := c.function(ns, s.Call)
		if err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
		b.Cmd(ref.Call())
	case s.Fire != "":
		target, id, err := c.trigger(ns, s.Fire)
		if err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
		b.Run(target.Fire(id))
	case s.Reset != "":
		target, id, err := c.trigger(ns, s.Reset)
		if err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
		b.Run(target.Reset(id))
	}
}

func (c *compiler) schedule(ns *datapack.Namespace, b *command.Builder, s Step) {
	d, err := command.ParseDelay(string(s.Schedule.Delay))
	if err != nil {
		b.Fail(fmt.Errorf("line %d: %w", s.line, err))
		return
	}
	if s.Schedule.Function != "" {
		ref, err := c.function(ns, s.Schedule.Function)
		if err != nil {
			b.Fail(fmt.Errorf("line %d: %w", s.line, err))
			return
		}
		b.ScheduleFunction(d, ref)
		return
	}
	b.Schedule(d, c.body(ns, s.Schedule.Body))
}

// function resolves "name" against ns or "other:name" against another
// namespace. Namespaces outside the manifest are taken on trust.
func (c *compiler) function(ns *datapack.Namespace, id string) (command.FunctionRef, error) {
	nsName, name := ns.Name(), id
	if i := strings.IndexByte(id, ':'); i >= 0 {
		nsName, name = id[:i], id[i+1:]
	}
	n, err := datapack.PathName(name)
	if err != nil {
		return command.FunctionRef{}, err
	}
	if fns, ok := c.functions[nsName]; ok && !fns[n] {
		return command.FunctionRef{}, fmt.Errorf("%w: %s:%s", ErrUnknownFunction, nsName, n)
	}
	return command.FunctionRef{Namespace: nsName, Name: n}, nil
}

func (c *compiler) trigger(ns *datapack.Namespace, id string) (*datapack.Namespace, string, error) {
	target, name := ns, id
	if i := strings.IndexByte(id, ':'); i >= 0 {
		other, ok := c.pack.LookupNamespace(id[:i])
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrUnknownTrigger, id)
		}
		target, name = other, id[i+1:]
	}
	n, err := datapack.PathName(name)
	if err != nil {
		return nil, "", err
	}
	if !c.triggers[target.Name()][n] {
		return nil, "", fmt.Errorf("%w: %s:%s", ErrUnknownTrigger, target.Name(), n)
	}
	return target, n, nil
}

func (cd Cond) condition() (condition.Condition, error) {
	switch {
	case cd.Term != "":
		return condition.Con(cd.Term), nil
	case cd.Unless != "":
		return condition.Unless(cd.Unless), nil
	case len(cd.And) > 0:
		children, err := conditions(cd.And)
		if err != nil {
			return nil, err
		}
		return condition.And(children...), nil
	case len(cd.Or) > 0:
		children, err := conditions(cd.Or)
		if err != nil {
			return nil, err
		}
		return condition.Or(children...), nil
	case cd.Not != nil:
		inner, err := cd.Not.condition()
		if err != nil {
			return nil, err
		}
		return condition.Not(inner), nil
	}
	return nil, condition.ErrEmptyCondition
}

func conditions(cs []Cond) ([]condition.Condition, error) {
	out := make([]condition.Condition, 0, len(cs))
	for _, cd := range cs {
		c, err := cd.condition()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func modify(chain *command.Chain, m Modifier) (*command.Chain, error) {
	switch m.Verb {
	case "as":
		return chain.As(command.Entity(m.Arg)), nil
	case "at":
		return chain.At(command.Entity(m.Arg)), nil
	case "in":
		return chain.In(m.Arg), nil
	case "positioned":
		pos, err := coord.Parse(m.Arg)
		if err != nil {
			return nil, err
		}
		return chain.Positioned(pos), nil
	case "positioned_as":
		return chain.PositionedAs(command.Entity(m.Arg)), nil
	case "positioned_over":
		return chain.PositionedOver(command.Heightmap(m.Arg)), nil
	case "align":
		return chain.Align(m.Arg), nil
	case "anchored":
		return chain.Anchored(command.Anchor(m.Arg)), nil
	case "rotated":
		r, err := parseRotation(m.Arg)
		if err != nil {
			return nil, err
		}
		return chain.Rotated(r), nil
	case "rotated_as":
		return chain.RotatedAs(command.Entity(m.Arg)), nil
	case "facing":
		pos, err := coord.Parse(m.Arg)
		if err != nil {
			return nil, err
		}
		return chain.Facing(pos), nil
	case "facing_entity":
		// "<entity> [feet|eyes]"
		fields := strings.Fields(m.Arg)
		anchor := command.Feet
		if len(fields) == 2 {
			anchor = command.Anchor(fields[1])
		} else if len(fields) != 1 {
			return nil, fmt.Errorf("%w: facing_entity %q", command.ErrInvalidArgument, m.Arg)
		}
		return chain.FacingEntity(command.Entity(fields[0]), anchor), nil
	case "on":
		return chain.On(command.Relation(m.Arg)), nil
	case "summon":
		return chain.Summon(m.Arg), nil
	}
	return nil, fmt.Errorf("%w: modifier %q", ErrSchema, m.Verb)
}

func parseRotation(s string) (command.Rotation, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return command.Rotation{}, fmt.Errorf("%w: rotation %q", command.ErrInvalidArgument, s)
	}
	yaw, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return command.Rotation{}, fmt.Errorf("%w: rotation %q", command.ErrInvalidArgument, s)
	}
	pitch, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return command.Rotation{}, fmt.Errorf("%w: rotation %q", command.ErrInvalidArgument, s)
	}
	return command.Rotation{Yaw: yaw, Pitch: pitch}, nil
}
