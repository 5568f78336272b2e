package command

import (
	"fmt"

	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/coord"
)

// Chain is a pending list of execute modifiers. Nothing is emitted until
// the chain is terminated with Do, Cmd, Run or If.
//
//	b.Execute().As(command.A()).Align("xyz").Cmd("say hi")
//	// execute as @a align xyz run say hi
type Chain struct {
	b    *Builder
	mods []string
	err  error
}

// Execute starts a modifier chain on b.
func (b *Builder) Execute() *Chain {
	return &Chain{b: b}
}

func (c *Chain) with(mod string) *Chain {
	mods := make([]string, 0, len(c.mods)+1)
	mods = append(mods, c.mods...)
	return &Chain{b: c.b, mods: append(mods, mod), err: c.err}
}

func (c *Chain) fail(err error) *Chain {
	if c.err != nil {
		return c
	}
	return &Chain{b: c.b, mods: c.mods, err: err}
}

func (c *Chain) entity(verb string, e EntityArg) *Chain {
	if e == nil {
		return c.fail(fmt.Errorf("%w: %s: missing entity", ErrInvalidArgument, verb))
	}
	s, err := e.Render()
	if err != nil {
		return c.fail(fmt.Errorf("%s: %w", verb, err))
	}
	return c.with(verb + " " + s)
}

// Modifiers returns the chain's modifiers, outermost first.
func (c *Chain) Modifiers() []string {
	out := make([]string, len(c.mods))
	copy(out, c.mods)
	return out
}

func (c *Chain) As(e EntityArg) *Chain { return c.entity("as", e) }

func (c *Chain) At(e EntityArg) *Chain { return c.entity("at", e) }

// In runs in a dimension such as minecraft:the_nether
func (c *Chain) In(dimension string) *Chain {
	if !resourceLocationRegex.MatchString(dimension) {
		return c.fail(fmt.Errorf("%w: dimension %q", ErrInvalidArgument, dimension))
	}
	return c.with("in " + dimension)
}

func (c *Chain) Positioned(pos coord.Coord) *Chain {
	return c.with("positioned " + pos.String())
}

func (c *Chain) PositionedAs(e EntityArg) *Chain { return c.entity("positioned as", e) }

func (c *Chain) PositionedOver(h Heightmap) *Chain { return c.entity("positioned over", h) }

// Align floors the position on the given axes, any of "xyz"
func (c *Chain) Align(axes string) *Chain {
	if !validAxes(axes) {
		return c.fail(fmt.Errorf("%w: align axes %q", ErrInvalidArgument, axes))
	}
	return c.with("align " + axes)
}

func (c *Chain) Anchored(a Anchor) *Chain { return c.entity("anchored", a) }

func (c *Chain) Rotated(r Rotation) *Chain {
	return c.with("rotated " + r.String())
}

func (c *Chain) RotatedAs(e EntityArg) *Chain { return c.entity("rotated as", e) }

func (c *Chain) Facing(pos coord.Coord) *Chain {
	return c.with("facing " + pos.String())
}

func (c *Chain) FacingEntity(e EntityArg, a Anchor) *Chain {
	anchor, err := a.Render()
	if err != nil {
		return c.fail(fmt.Errorf("facing entity: %w", err))
	}
	next := c.entity("facing entity", e)
	if next.err != nil {
		return next
	}
	next.mods[len(next.mods)-1] += " " + anchor
	return next
}

func (c *Chain) StoreResult(t Storable) *Chain {
	if t == nil {
		return c.fail(fmt.Errorf("%w: store result: missing target", ErrInvalidArgument))
	}
	return c.with("store result " + t.StoreTarget())
}

func (c *Chain) StoreSuccess(t Storable) *Chain {
	if t == nil {
		return c.fail(fmt.Errorf("%w: store success: missing target", ErrInvalidArgument))
	}
	return c.with("store success " + t.StoreTarget())
}

func (c *Chain) On(r Relation) *Chain { return c.entity("on", r) }

// Summon spawns an entity and continues as it
func (c *Chain) Summon(entity string) *Chain {
	if !resourceLocationRegex.MatchString(entity) {
		return c.fail(fmt.Errorf("%w: summon entity %q", ErrInvalidArgument, entity))
	}
	return c.with("summon " + entity)
}

// Do runs fn in a fresh scope and hands its commands to the parent,
// wrapped in the chain's modifiers.
func (c *Chain) Do(fn func(*Builder)) {
	if c.err != nil {
		c.b.Fail(c.err)
		return
	}
	inner := c.b.child()
	fn(inner)
	c.b.merge(inner, c.mods)
}

func (c *Chain) Cmd(cmds ...string) {
	c.Do(func(b *Builder) { b.Cmd(cmds...) })
}

func (c *Chain) Run(cmds ...Command) {
	c.Do(func(b *Builder) { b.Run(cmds...) })
}

// If guards the block with cond after the chain's modifiers. Every entry of
// the block is emitted once per solved variant, in variant order.
func (c *Chain) If(cond condition.Condition, fn func(*Builder)) *Else {
	if c.err != nil {
		c.b.Fail(c.err)
		return &Else{}
	}
	solved, err := condition.Solve(cond)
	if err != nil {
		c.b.Fail(fmt.Errorf("if %s: %w", condition.String(cond), err))
		return &Else{}
	}

	inner := c.b.child()
	fn(inner)
	if inner.err != nil {
		c.b.Fail(inner.err)
		return &Else{chain: c, cond: cond}
	}
	for _, e := range inner.entries {
		for _, s := range solved {
			mods := make([]string, 0, len(c.mods)+1)
			mods = append(mods, c.mods...)
			c.b.entries = append(c.b.entries, e.wrap(append(mods, s)))
		}
	}
	return &Else{chain: c, cond: cond}
}

// Block forms. Each runs fn with every command wrapped in one modifier.

func (b *Builder) As(e EntityArg, fn func(*Builder)) {
	b.Execute().As(e).Do(fn)
}

func (b *Builder) At(e EntityArg, fn func(*Builder)) {
	b.Execute().At(e).Do(fn)
}

func (b *Builder) In(dimension string, fn func(*Builder)) {
	b.Execute().In(dimension).Do(fn)
}

func (b *Builder) Align(axes string, fn func(*Builder)) {
	b.Execute().Align(axes).Do(fn)
}

func (b *Builder) Anchored(a Anchor, fn func(*Builder)) {
	b.Execute().Anchored(a).Do(fn)
}

func (b *Builder) Rotated(r Rotation, fn func(*Builder)) {
	b.Execute().Rotated(r).Do(fn)
}

func (b *Builder) RotatedAs(e EntityArg, fn func(*Builder)) {
	b.Execute().RotatedAs(e).Do(fn)
}

func (b *Builder) On(r Relation, fn func(*Builder)) {
	b.Execute().On(r).Do(fn)
}

func (b *Builder) Summon(entity string, fn func(*Builder)) {
	b.Execute().Summon(entity).Do(fn)
}

func (b *Builder) Positioned(pos coord.Coord, fn func(*Builder)) {
	b.Execute().Positioned(pos).Do(fn)
}

func (b *Builder) PositionedAs(e EntityArg, fn func(*Builder)) {
	b.Execute().PositionedAs(e).Do(fn)
}

func (b *Builder) PositionedOver(h Heightmap, fn func(*Builder)) {
	b.Execute().PositionedOver(h).Do(fn)
}

func (b *Builder) Facing(pos coord.Coord, fn func(*Builder)) {
	b.Execute().Facing(pos).Do(fn)
}

func (b *Builder) FacingEntity(e EntityArg, a Anchor, fn func(*Builder)) {
	b.Execute().FacingEntity(e, a).Do(fn)
}

func (b *Builder) StoreResult(t Storable, fn func(*Builder)) {
	b.Execute().StoreResult(t).Do(fn)
}

func (b *Builder) StoreSuccess(t Storable, fn func(*Builder)) {
	b.Execute().StoreSuccess(t).Do(fn)
}
