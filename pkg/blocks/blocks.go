// Package blocks has helpers for blocks a build interacts with: levers,
// pressure plates, signs and doors.
package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/coord"
	"github.com/jwebster45206/mcdsl/pkg/richtext"
)

// Lever is a lever attached to a wall.
type Lever struct {
	Pos    coord.Coord
	Facing coord.Dir
}

func (l Lever) IsOn() condition.Condition {
	return condition.Con("block " + l.Pos.String() + " minecraft:lever[powered=true]")
}

func (l Lever) IsOff() condition.Condition {
	return condition.Con("block " + l.Pos.String() + " minecraft:lever[powered=false]")
}

func (l Lever) SetOn() string  { return l.Set(true) }
func (l Lever) SetOff() string { return l.Set(false) }

// Set places the lever in the given state.
func (l Lever) Set(on bool) string {
	return l.Pos.Setblock("minecraft:lever[facing=" + l.Facing.String() + ",powered=" + strconv.FormatBool(on) + "]")
}

// PressurePlate matches any pressure plate at Pos.
type PressurePlate struct {
	Pos coord.Coord
}

func (p PressurePlate) IsOn() condition.Condition {
	return condition.Con("block " + p.Pos.String() + " #minecraft:pressure_plates[powered=true]")
}

func (p PressurePlate) IsOff() condition.Condition {
	return condition.Con("block " + p.Pos.String() + " #minecraft:pressure_plates[powered=false]")
}

// Door is a two block high opening filled with solid blocks when closed.
type Door struct {
	Pos    coord.Coord
	Bottom string
	Top    string
}

// NewDoor returns a door closed with blackstone bricks and tinted glass.
func NewDoor(pos coord.Coord) Door {
	return Door{Pos: pos, Bottom: "minecraft:polished_blackstone_bricks", Top: "minecraft:black_stained_glass"}
}

func (d Door) Open() []string {
	return []string{d.Pos.Setblock("minecraft:air"), d.Pos.Add(coord.Up).Setblock("minecraft:air")}
}

func (d Door) Close() []string {
	return []string{d.Pos.Setblock(d.Bottom), d.Pos.Add(coord.Up).Setblock(d.Top)}
}

// Sign is a standing or wall sign with four lines.
type Sign struct {
	Pos coord.Coord
}

// SetText returns a command writing text to the sign. Lines are separated by
// newlines and use richtext markup.
func (s Sign) SetText(text string) (string, error) {
	lines := strings.Split(text, "\n")
	if len(lines) > 4 {
		return "", fmt.Errorf("%w: sign has %d lines, at most 4 fit", richtext.ErrFormat, len(lines))
	}
	for len(lines) < 4 {
		lines = append(lines, "")
	}

	var sb strings.Builder
	sb.WriteString("data merge block " + s.Pos.String() + " {")
	for i, line := range lines {
		rendered, err := richtext.Render(line)
		if err != nil {
			return "", fmt.Errorf("sign line %d: %w", i+1, err)
		}
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("Text" + strconv.Itoa(i+1) + ":'" + escapeSingle(rendered) + "'")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

var singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escapeSingle(s string) string {
	return singleQuoteEscaper.Replace(s)
}
