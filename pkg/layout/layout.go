// Package layout turns trigger timelines into a physical command block
// layout.
//
// Compile is the first pass: each command of each trigger gets its own row,
// a chain of repeaters sized to the command's tick offset and one command
// block after it. Command text is kept as command.Command so trigger
// references survive until a Resolver has seen every span.
package layout

import (
	"slices"
	"strconv"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/coord"
)

// Materials written by the layout.
const (
	MaterialFire  = "minecraft:redstone_block"
	MaterialReset = "minecraft:brown_wool"
	MaterialFloor = "minecraft:gray_wool"
	MaterialClear = "minecraft:air"
)

// RepeaterMaxTick is the longest delay one repeater can hold.
const RepeaterMaxTick = 4

// Lane offsets, measured along the row from the root.
const (
	controlColumn = 2
	firstDelay    = 3
)

// Step is every entry scheduled at one tick offset.
type Step struct {
	Offset  int
	Entries []command.Entry
}

// Lane is one trigger's timeline.
type Lane struct {
	ID    string
	Steps []Step
}

// Span is the control column of a trigger. Filling it with a redstone block
// powers every row of the trigger at once.
type Span struct {
	Namespace string
	Trigger   string
	Start     coord.Coord
	End       coord.Coord
}

// Placement is one block set by the layout.
type Placement struct {
	Pos   coord.Coord
	Block string
	// Command is set for command blocks only.
	Command *command.Command
	Auto    bool
}

// Line renders the placement as a setblock command.
func (p Placement) Line() command.Command {
	head := "setblock " + p.Pos.String() + " " + p.Block
	if p.Command == nil {
		return command.Raw(head)
	}
	auto := "0"
	if p.Auto {
		auto = "1"
	}
	return command.Concat(
		command.Raw(head+`{Command:"`),
		p.Command.MapText(EscapeNBT),
		command.Raw(`",auto:`+auto+"}"),
	)
}

// IsRepeater reports whether the placement is a delay element.
func (p Placement) IsRepeater() bool {
	return strings.HasPrefix(p.Block, "minecraft:repeater")
}

// Plan is the unresolved output of Compile.
type Plan struct {
	Namespace string
	Root      coord.Coord
	// Clear holds the floor and clearing fills, in output order.
	Clear     []string
	Triggered []Placement
	AlwaysOn  []Placement
	Spans     []Span
}

// Lines returns every layout command in output order.
func (p *Plan) Lines() []command.Command {
	out := make([]command.Command, 0, len(p.Clear)+len(p.Triggered)+len(p.AlwaysOn))
	for _, c := range p.Clear {
		out = append(out, command.Raw(c))
	}
	for _, pl := range p.Triggered {
		out = append(out, pl.Line())
	}
	for _, pl := range p.AlwaysOn {
		out = append(out, pl.Line())
	}
	return out
}

// Compile lays out lanes in order, then the always-on row. Steps are
// visited by ascending offset; entries keep their insertion order.
func Compile(namespace string, root coord.Coord, lanes []Lane, alwaysOn []command.Entry) *Plan {
	plan := &Plan{Namespace: namespace, Root: root}

	x := 0
	endN := firstDelay
	for _, lane := range lanes {
		startX := x
		for _, step := range sortedSteps(lane.Steps) {
			for _, e := range step.Entries {
				n := firstDelay
				for t := step.Offset; t > 0; {
					d := min(t, RepeaterMaxTick)
					plan.Triggered = append(plan.Triggered, Placement{
						Pos:   root.Offset(n, 0, x),
						Block: repeater(coord.West, d),
					})
					t -= d
					n++
				}
				endN = max(endN, n)
				cmd := e.Compose()
				plan.Triggered = append(plan.Triggered, Placement{
					Pos:     root.Offset(n, 0, x),
					Block:   commandBlock(e.Kind),
					Command: &cmd,
				})
				x++
			}
		}
		plan.Spans = append(plan.Spans, Span{
			Namespace: namespace,
			Trigger:   lane.ID,
			Start:     root.Offset(controlColumn, 0, startX),
			End:       root.Offset(controlColumn, 0, x),
		})
	}

	if len(lanes) > 0 {
		plan.Clear = []string{
			fill(root.Offset(firstDelay, -1, 0), root.Offset(endN, -1, x), MaterialFloor),
			fill(root.Offset(controlColumn, 0, 0), root.Offset(endN, 0, x), MaterialClear),
		}
	}

	for i, e := range alwaysOn {
		cmd := e.Compose()
		plan.AlwaysOn = append(plan.AlwaysOn, Placement{
			Pos:     root.Offset(0, 0, i),
			Block:   commandBlock(e.Kind),
			Command: &cmd,
			Auto:    true,
		})
	}
	return plan
}

func sortedSteps(steps []Step) []Step {
	out := slices.Clone(steps)
	slices.SortStableFunc(out, func(a, b Step) int { return a.Offset - b.Offset })
	return out
}

func repeater(facing coord.Dir, delay int) string {
	return "minecraft:repeater[facing=" + facing.String() + ",delay=" + strconv.Itoa(delay) + "]"
}

func commandBlock(k command.Kind) string {
	if k == command.KindRepeat {
		return "minecraft:repeating_command_block"
	}
	return "minecraft:command_block"
}

func fill(a, b coord.Coord, material string) string {
	return "fill " + a.String() + " " + b.String() + " " + material
}

// EscapeNBT escapes text for a double quoted NBT string.
func EscapeNBT(s string) string {
	return nbtEscaper.Replace(s)
}

var nbtEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
