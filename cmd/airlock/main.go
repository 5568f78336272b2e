// Command airlock builds the datapack for a two-door airlock. The first
// namespace drives the airlock from tick functions and schedules; the second
// builds the same pressure cycle as a redstone timeline next to its root.
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/jwebster45206/mcdsl/internal/config"
	"github.com/jwebster45206/mcdsl/internal/logger"
	"github.com/jwebster45206/mcdsl/internal/storage"
	"github.com/jwebster45206/mcdsl/pkg/blocks"
	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/coord"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

type Pressure int

const (
	Pressurized Pressure = iota
	Depressurized
	Pressurizing
	Depressurizing
)

func (p Pressure) Discriminant() int { return int(p) }

// timeScale stretches the bossbar animation to a third of its nominal ticks.
const timeScale = 1.0 / 3.0

// parts are the world positions of one airlock.
type parts struct {
	plateOut, plateIn blocks.PressurePlate
	leverOut, leverIn blocks.Lever
	leverPressure     blocks.Lever
	doorOut, doorIn   blocks.Door
	sign              blocks.Sign
}

func airlockParts(offset coord.Coord) parts {
	at := func(x, y, z int) coord.Coord { return coord.New(x, y, z).Add(offset) }
	return parts{
		plateOut:      blocks.PressurePlate{Pos: at(5045, 227, 4960)},
		plateIn:       blocks.PressurePlate{Pos: at(5040, 227, 4960)},
		leverOut:      blocks.Lever{Pos: at(5043, 228, 4959), Facing: coord.West},
		leverIn:       blocks.Lever{Pos: at(5042, 228, 4959), Facing: coord.East},
		leverPressure: blocks.Lever{Pos: at(5043, 228, 4961), Facing: coord.North},
		doorOut:       blocks.NewDoor(at(5044, 227, 4960)),
		doorIn:        blocks.NewDoor(at(5041, 227, 4960)),
		sign:          blocks.Sign{Pos: at(5042, 228, 4961)},
	}
}

func setText(b *command.Builder, s blocks.Sign, text string) {
	line, err := s.SetText(text)
	if err != nil {
		b.Fail(err)
		return
	}
	b.Cmd(line)
}

func scaled(ticks int) command.Delay {
	return command.Ticks(math.Floor(float64(ticks)*timeScale + 0.5))
}

// functionAirlock drives the airlock from load and tick functions.
func functionAirlock(pack *datapack.Datapack) error {
	ns, err := pack.Namespace("airlock_1")
	if err != nil {
		return err
	}
	p := airlockParts(coord.New(0, 0, 0))

	pressure, err := datapack.NewVarEnum[Pressure](ns, "pressure")
	if err != nil {
		return err
	}
	bar, err := ns.Bossbar("airlock_1")
	if err != nil {
		return err
	}

	if _, err := ns.OnLoad(func(b *command.Builder) {
		b.Cmd(ns.Objective())
		b.Cmd(bar.Add("Pressure"))
		b.Cmd(pressure.Set(Pressurized))
	}); err != nil {
		return err
	}

	cycle, err := ns.Function("pres_trigger", func(b *command.Builder) {
		b.If(pressure.Eq(Depressurized), func(b *command.Builder) {
			b.Cmd(pressure.Set(Pressurizing))
		})
		b.If(pressure.Eq(Pressurized), func(b *command.Builder) {
			b.Cmd(pressure.Set(Depressurizing))
		})

		players, err := bar.SetPlayers(command.A())
		if err != nil {
			b.Fail(err)
			return
		}
		b.Cmd(players, bar.SetColor(datapack.Red), bar.SetVisible(true), bar.SetValue(0))

		for i := 5; i <= 100; i += 5 {
			b.Schedule(scaled(i), func(b *command.Builder) {
				b.Cmd(bar.SetValue(i))
			})
		}

		b.Schedule(scaled(100), func(b *command.Builder) {
			b.Cmd(bar.SetColor(datapack.Green), p.leverPressure.SetOff())
			b.If(pressure.Eq(Pressurizing), func(b *command.Builder) {
				setText(b, p.sign, "\n@green{PRESSURIZED}")
				b.Cmd(bar.SetName("Pressurized"), pressure.Set(Pressurized))
			})
			b.If(pressure.Eq(Depressurizing), func(b *command.Builder) {
				setText(b, p.sign, "\n@green{DEPRESSURIZED}")
				b.Cmd(bar.SetName("Depressurized"), pressure.Set(Depressurized))
			})
		})

		b.Schedule(scaled(200), func(b *command.Builder) {
			b.Cmd(bar.SetVisible(false), bar.SetValue(0), bar.SetColor(datapack.Red))
		})
	})
	if err != nil {
		return err
	}

	_, err = ns.OnTick(func(b *command.Builder) {
		b.If(pressure.OneOf(Pressurizing, Depressurizing), func(b *command.Builder) {
			b.Cmd(p.leverPressure.SetOn())
		})

		b.If(p.plateOut.IsOn(), func(b *command.Builder) {
			b.Cmd(pressure.Set(Depressurized))
			setText(b, p.sign, "\n@red{DEPRESSURIZED}")
			b.Cmd(p.doorOut.Open()...)
			b.Cmd(p.leverOut.SetOff())
		})
		b.If(p.plateIn.IsOn(), func(b *command.Builder) {
			b.Cmd(pressure.Set(Pressurized))
			setText(b, p.sign, "\n@green{PRESSURIZED}")
			b.Cmd(p.doorIn.Open()...)
			b.Cmd(p.leverIn.SetOff())
		})

		b.If(p.plateOut.IsOff().And(p.leverOut.IsOff()), func(b *command.Builder) {
			b.Cmd(p.doorOut.Close()...)
		})
		b.If(p.plateIn.IsOff().And(p.leverIn.IsOff()), func(b *command.Builder) {
			b.Cmd(p.doorIn.Close()...)
		})

		b.If(p.leverOut.IsOn(), func(b *command.Builder) {
			b.If(pressure.Eq(Depressurized), func(b *command.Builder) {
				b.Cmd(p.doorOut.Open()...)
			}).Else(func(b *command.Builder) {
				b.Cmd(p.leverOut.SetOff())
			})
		})
		b.If(p.leverIn.IsOn(), func(b *command.Builder) {
			b.If(pressure.Eq(Pressurized), func(b *command.Builder) {
				b.Cmd(p.doorIn.Open()...)
			}).Else(func(b *command.Builder) {
				b.Cmd(p.leverIn.SetOff())
			})
		})

		levers := p.leverIn.IsOn().Or(p.leverOut.IsOn())
		bothOff := p.leverOut.IsOff().And(p.leverIn.IsOff())
		b.If(p.leverPressure.IsOn(), func(b *command.Builder) {
			b.If(levers, func(b *command.Builder) {
				b.Cmd(p.leverPressure.SetOff())
			})
			b.If(condition.And(bothOff, pressure.OneOf(Pressurized, Depressurized)), func(b *command.Builder) {
				b.Cmd(cycle.Call())
			})
			b.If(bothOff, func(b *command.Builder) {
				b.If(pressure.OneOf(Depressurized, Pressurizing), func(b *command.Builder) {
					b.Cmd(bar.SetName("Pressurizing..."))
					setText(b, p.sign, "\n@yellow{PRESSURIZING...}")
				}).Else(func(b *command.Builder) {
					b.Cmd(bar.SetName("Depressurizing..."))
					setText(b, p.sign, "\n@yellow{DEPRESSURIZING...}")
				})
			})
		})
	})
	return err
}

// timelineAirlock runs the pressure cycle from a trigger laid out in command
// blocks beside root.
func timelineAirlock(pack *datapack.Datapack, root coord.Coord) error {
	ns, err := pack.Namespace("airlock_2")
	if err != nil {
		return err
	}
	ns.WithRoot(root)
	p := airlockParts(coord.New(0, 0, 30))

	pressure, err := datapack.NewVarEnum[Pressure](ns, "pressure")
	if err != nil {
		return err
	}
	bar, err := ns.Bossbar("airlock_2")
	if err != nil {
		return err
	}

	if _, err := ns.OnLoad(func(b *command.Builder) {
		b.Cmd(ns.Objective(), bar.Add("Pressure"), pressure.Set(Pressurized))
	}); err != nil {
		return err
	}

	cycle, err := ns.NamedTrigger("pressure_cycle", func(t *datapack.Trigger) {
		t.At(0, func(b *command.Builder) {
			b.If(pressure.Eq(Depressurized), func(b *command.Builder) {
				b.Impulse(pressure.Set(Pressurizing), bar.SetName("Pressurizing..."))
			})
			b.If(pressure.Eq(Pressurized), func(b *command.Builder) {
				b.Impulse(pressure.Set(Depressurizing), bar.SetName("Depressurizing..."))
			})
			b.Impulse(bar.SetColor(datapack.Red), bar.SetValue(0), bar.SetVisible(true))
		})
		for i := 10; i <= 90; i += 10 {
			t.AtTime(float64(i)*timeScale, func(b *command.Builder) {
				b.Impulse(bar.SetValue(i))
			})
		}
		t.AtTime(100*timeScale, func(b *command.Builder) {
			b.Impulse(bar.SetColor(datapack.Green), bar.SetValue(100), p.leverPressure.SetOff())
			b.If(pressure.Eq(Pressurizing), func(b *command.Builder) {
				b.Impulse(pressure.Set(Pressurized))
			})
			b.If(pressure.Eq(Depressurizing), func(b *command.Builder) {
				b.Impulse(pressure.Set(Depressurized))
			})
		})
		t.AtTime(120*timeScale, func(b *command.Builder) {
			b.Impulse(bar.SetVisible(false), bar.SetValue(0), bar.SetColor(datapack.Red))
			b.ImpulseRun(t.Reset())
		})
	})
	if err != nil {
		return err
	}

	return ns.CommandBlocks(func(b *command.Builder) {
		b.If(p.plateOut.IsOn(), func(b *command.Builder) {
			b.Repeat(pressure.Set(Depressurized))
			b.Repeat(p.doorOut.Open()...)
		})
		b.If(p.plateIn.IsOn(), func(b *command.Builder) {
			b.Repeat(pressure.Set(Pressurized))
			b.Repeat(p.doorIn.Open()...)
		})
		b.If(p.plateOut.IsOff().And(p.leverOut.IsOff()), func(b *command.Builder) {
			b.Repeat(p.doorOut.Close()...)
		})
		b.If(p.plateIn.IsOff().And(p.leverIn.IsOff()), func(b *command.Builder) {
			b.Repeat(p.doorIn.Close()...)
		})
		idle := p.leverOut.IsOff().And(p.leverIn.IsOff())
		b.If(condition.And(p.leverPressure.IsOn(), idle, pressure.OneOf(Pressurized, Depressurized)), func(b *command.Builder) {
			b.RepeatRun(cycle.Fire())
		})
	})
}

// build declares the whole pack.
func build() (*datapack.Datapack, error) {
	pack := datapack.New("mc_map")
	pack.Description = "A datapack for the mc_map world"
	pack.PackFormat = 12

	if err := functionAirlock(pack); err != nil {
		return nil, fmt.Errorf("airlock_1: %w", err)
	}
	if err := timelineAirlock(pack, coord.New(5000, 200, 4900)); err != nil {
		return nil, fmt.Errorf("airlock_2: %w", err)
	}
	return pack, nil
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <output-dir>\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	log := logger.Setup(cfg)

	pack, err := build()
	if err != nil {
		log.Error("Failed to declare datapack", "error", err)
		os.Exit(1)
	}
	out, err := pack.WithLogger(log).Build()
	if err != nil {
		log.Error("Failed to build datapack", "error", err)
		os.Exit(1)
	}
	if err := storage.NewDirSink(os.Args[1], log).Write(context.Background(), out); err != nil {
		log.Error("Failed to write datapack", "error", err)
		os.Exit(1)
	}
}
