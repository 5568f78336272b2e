package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/coord"
)

// mockRegistrar records registered functions with sequential names
type mockRegistrar struct {
	bodies map[string][]string
	next   int
	err    error
}

func newMockRegistrar() *mockRegistrar {
	return &mockRegistrar{bodies: make(map[string][]string)}
}

func (m *mockRegistrar) RegisterFunction(prefix string, body []Command) (FunctionRef, error) {
	if m.err != nil {
		return FunctionRef{}, m.err
	}
	name := fmt.Sprintf("%s_%d", prefix, m.next)
	m.next++
	m.bodies[name] = Strings(body)
	return FunctionRef{Namespace: "test", Name: name}, nil
}

func build(fn func(b *Builder)) *Builder {
	return Build(newMockRegistrar(), fn)
}

func TestBuilder_CommandAll(t *testing.T) {
	b := build(func(b *Builder) {
		b.Cmd("a", "b", "c")
	})
	require.NoError(t, b.Err())
	assert.Equal(t, []string{"a", "b", "c"}, b.Strings())
}

func TestBuilder_IfScenarios(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(b *Builder)
		expected []string
	}{
		{
			name: "single term",
			fn: func(b *Builder) {
				b.If(condition.Con("A"), func(b *Builder) { b.Cmd("x") })
			},
			expected: []string{"execute if A run x"},
		},
		{
			name: "and with nested or",
			fn: func(b *Builder) {
				cond := condition.And(condition.Con("A"), condition.Or(condition.Con("B"), condition.Con("C")))
				b.If(cond, func(b *Builder) { b.Cmd("x") })
			},
			expected: []string{"execute if A if B run x", "execute if A if C run x"},
		},
		{
			name: "outer modifier before inner",
			fn: func(b *Builder) {
				b.At(PlayerName("X"), func(b *Builder) {
					b.As(PlayerName("Y"), func(b *Builder) { b.Cmd("z") })
				})
			},
			expected: []string{"execute at X as Y run z"},
		},
		{
			name: "entries outer, variants inner",
			fn: func(b *Builder) {
				b.If(condition.Or(condition.Con("A"), condition.Con("B")), func(b *Builder) {
					b.Cmd("x", "y")
				})
			},
			expected: []string{
				"execute if A run x",
				"execute if B run x",
				"execute if A run y",
				"execute if B run y",
			},
		},
		{
			name: "else negates the same condition",
			fn: func(b *Builder) {
				b.If(condition.And(condition.Con("A"), condition.Con("B")), func(b *Builder) {
					b.Cmd("yes")
				}).Else(func(b *Builder) {
					b.Cmd("no")
				})
			},
			expected: []string{
				"execute if A if B run yes",
				"execute unless A run no",
				"execute unless B run no",
			},
		},
		{
			name: "else if",
			fn: func(b *Builder) {
				b.If(condition.Con("A"), func(b *Builder) {
					b.Cmd("a")
				}).ElseIf(condition.Con("B"), func(b *Builder) {
					b.Cmd("b")
				}).Else(func(b *Builder) {
					b.Cmd("c")
				})
			},
			expected: []string{
				"execute if A run a",
				"execute unless A if B run b",
				"execute unless A unless B run c",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := build(tt.fn)
			require.NoError(t, b.Err())
			assert.Equal(t, tt.expected, b.Strings())
		})
	}
}

func TestBuilder_NestedExecutes(t *testing.T) {
	inner := func(b *Builder) {
		b.Cmd("a")
		b.If(condition.Con("B"), func(b *Builder) {
			b.Cmd("b")
			b.As(PlayerName("C"), func(b *Builder) { b.Cmd("c") })
			b.At(PlayerName("D"), func(b *Builder) { b.Cmd("d") })
		})
	}

	b := build(func(b *Builder) {
		b.If(condition.Con("A"), inner)
		b.As(PlayerName("A"), inner)
		b.At(PlayerName("A"), inner)
		b.In("A", inner)
	})

	// dimension ids are lower case, so the last block fails
	require.ErrorIs(t, b.Err(), ErrInvalidArgument)

	b = build(func(b *Builder) {
		b.If(condition.Con("A"), inner)
		b.As(PlayerName("A"), inner)
		b.At(PlayerName("A"), inner)
		b.In("a", inner)
	})
	require.NoError(t, b.Err())
	assert.Equal(t, []string{
		"execute if A run a",
		"execute if A if B run b",
		"execute if A if B as C run c",
		"execute if A if B at D run d",
		"execute as A run a",
		"execute as A if B run b",
		"execute as A if B as C run c",
		"execute as A if B at D run d",
		"execute at A run a",
		"execute at A if B run b",
		"execute at A if B as C run c",
		"execute at A if B at D run d",
		"execute in a run a",
		"execute in a if B run b",
		"execute in a if B as C run c",
		"execute in a if B at D run d",
	}, b.Strings())
}

func TestChain_Modifiers(t *testing.T) {
	id := uuid.MustParse("f81d4fae-7dec-11d0-a765-00a0c91e6bf6")

	tests := []struct {
		name     string
		fn       func(b *Builder)
		expected string
	}{
		{
			name:     "as then align",
			fn:       func(b *Builder) { b.Execute().As(PlayerName("a")).Align("xz").Cmd("c") },
			expected: "execute as a align xz run c",
		},
		{
			name:     "selector with arguments",
			fn:       func(b *Builder) { b.Execute().As(A().With("tag", "door")).Cmd("say hi") },
			expected: "execute as @a[tag=door] run say hi",
		},
		{
			name:     "uuid",
			fn:       func(b *Builder) { b.Execute().As(PlayerUUID(id)).Cmd("kill @s") },
			expected: "execute as f81d4fae-7dec-11d0-a765-00a0c91e6bf6 run kill @s",
		},
		{
			name:     "positioned and facing",
			fn:       func(b *Builder) { b.Execute().Positioned(coord.New(1, 2, 3)).Facing(coord.Here).Cmd("c") },
			expected: "execute positioned 1 2 3 facing ~0 ~0 ~0 run c",
		},
		{
			name:     "positioned as and over",
			fn:       func(b *Builder) { b.Execute().PositionedAs(S()).PositionedOver(OceanFloor).Cmd("c") },
			expected: "execute positioned as @s positioned over ocean_floor run c",
		},
		{
			name:     "anchored and rotated",
			fn:       func(b *Builder) { b.Execute().Anchored(Eyes).Rotated(Rotation{Yaw: 2.5, Pitch: -170}).Cmd("c") },
			expected: "execute anchored eyes rotated 2.5 -170 run c",
		},
		{
			name:     "rotated as and facing entity",
			fn:       func(b *Builder) { b.Execute().RotatedAs(P()).FacingEntity(E(), Feet).Cmd("c") },
			expected: "execute rotated as @p facing entity @e feet run c",
		},
		{
			name:     "on and summon",
			fn:       func(b *Builder) { b.Execute().On(Vehicle).Summon("minecraft:pig").Cmd("c") },
			expected: "execute on vehicle summon minecraft:pig run c",
		},
		{
			name: "store",
			fn: func(b *Builder) {
				b.Execute().StoreResult(storeTarget("score x obj")).StoreSuccess(storeTarget("score y obj")).Cmd("c")
			},
			expected: "execute store result score x obj store success score y obj run c",
		},
		{
			name: "chain then if",
			fn: func(b *Builder) {
				b.Execute().As(A()).At(S()).If(condition.Unless("B"), func(b *Builder) { b.Cmd("c") })
			},
			expected: "execute as @a at @s unless B run c",
		},
		{
			name: "block form in dimension",
			fn: func(b *Builder) {
				b.In("minecraft:the_end", func(b *Builder) { b.Cmd("c") })
			},
			expected: "execute in minecraft:the_end run c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := build(tt.fn)
			require.NoError(t, b.Err())
			assert.Equal(t, []string{tt.expected}, b.Strings())
		})
	}
}

type storeTarget string

func (s storeTarget) StoreTarget() string { return string(s) }

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Builder)
		want error
	}{
		{
			name: "empty condition",
			fn:   func(b *Builder) { b.If(condition.And(), func(b *Builder) { b.Cmd("x") }) },
			want: condition.ErrEmptyCondition,
		},
		{
			name: "empty condition nested in modifier",
			fn: func(b *Builder) {
				b.As(S(), func(b *Builder) {
					b.If(condition.Or(), func(b *Builder) { b.Cmd("x") })
				})
			},
			want: condition.ErrEmptyCondition,
		},
		{
			name: "malformed selector",
			fn:   func(b *Builder) { b.As(Entity("@q"), func(b *Builder) { b.Cmd("x") }) },
			want: ErrInvalidArgument,
		},
		{
			name: "empty player name",
			fn:   func(b *Builder) { b.At(PlayerName(""), func(b *Builder) { b.Cmd("x") }) },
			want: ErrInvalidArgument,
		},
		{
			name: "nil uuid",
			fn:   func(b *Builder) { b.As(PlayerUUID(uuid.Nil), func(b *Builder) { b.Cmd("x") }) },
			want: ErrInvalidArgument,
		},
		{
			name: "bad align axes",
			fn:   func(b *Builder) { b.Align("xx", func(b *Builder) { b.Cmd("x") }) },
			want: ErrInvalidArgument,
		},
		{
			name: "bad anchor",
			fn:   func(b *Builder) { b.Anchored(Anchor("knees"), func(b *Builder) { b.Cmd("x") }) },
			want: ErrInvalidArgument,
		},
		{
			name: "error inside chain if",
			fn: func(b *Builder) {
				b.Execute().As(S()).If(condition.Con("A"), func(b *Builder) {
					b.Summon("Not A Mob", func(b *Builder) { b.Cmd("x") })
				})
			},
			want: ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := build(tt.fn)
			if !errors.Is(b.Err(), tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, b.Err())
			}
		})
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	b := build(func(b *Builder) {
		b.If(condition.And(), func(b *Builder) {})
		b.Align("q", func(b *Builder) {})
	})
	assert.ErrorIs(t, b.Err(), condition.ErrEmptyCondition)
}

func TestBuilder_Schedule(t *testing.T) {
	reg := newMockRegistrar()
	b := Build(reg, func(b *Builder) {
		ref := b.Schedule(Ticks(10), func(b *Builder) {
			b.Cmd("say later")
			b.If(condition.Con("A"), func(b *Builder) { b.Cmd("say A") })
		})
		b.ScheduleFunction(Seconds(1.5), ref)
		b.ScheduleFunction(Days(2), FunctionRef{Namespace: "other", Name: "fn"})
	})
	require.NoError(t, b.Err())

	assert.Equal(t, []string{
		"schedule function test:schedule_0 10t",
		"schedule function test:schedule_0 1.5s",
		"schedule function other:fn 2d",
	}, b.Strings())
	assert.Equal(t, []string{"say later", "execute if A run say A"}, reg.bodies["schedule_0"])
}

func TestBuilder_ScheduleInsideModifier(t *testing.T) {
	reg := newMockRegistrar()
	b := Build(reg, func(b *Builder) {
		b.As(A(), func(b *Builder) {
			b.Schedule(Ticks(5), func(b *Builder) { b.Cmd("say hi") })
		})
	})
	require.NoError(t, b.Err())
	assert.Equal(t, []string{"execute as @a run schedule function test:schedule_0 5t"}, b.Strings())
}

func TestBuilder_ScheduleWithoutRegistrar(t *testing.T) {
	b := Build(nil, func(b *Builder) {
		b.Schedule(Ticks(1), func(b *Builder) { b.Cmd("x") })
	})
	assert.ErrorIs(t, b.Err(), ErrNoRegistrar)
}

func TestBuilder_RegistrarError(t *testing.T) {
	reg := newMockRegistrar()
	reg.err = errors.New("boom")
	b := Build(reg, func(b *Builder) {
		b.RepeatFunction(func(b *Builder) { b.Cmd("x") })
	})
	assert.EqualError(t, b.Err(), "boom")
	assert.Empty(t, b.Entries())
}

func TestBuilder_Kinds(t *testing.T) {
	b := build(func(b *Builder) {
		b.Impulse("i")
		b.If(condition.Con("A"), func(b *Builder) {
			b.Repeat("r")
		})
		b.RepeatFunction(func(b *Builder) { b.Cmd("inside") })
		b.Cmd("c")
	})
	require.NoError(t, b.Err())

	entries := b.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, KindImpulse, entries[0].Kind)
	assert.Equal(t, KindRepeat, entries[1].Kind)
	assert.Equal(t, []string{"if A"}, entries[1].Modifiers)
	assert.Equal(t, KindRepeat, entries[2].Kind)
	assert.Equal(t, "function test:repeat_0", entries[2].Command.String())
	assert.Equal(t, KindCommand, entries[3].Kind)
}

func TestBuilder_RefsSurviveWrapping(t *testing.T) {
	fire := FromRef(Ref{Namespace: "ns", Trigger: "trigger_0", Kind: RefFire})
	b := build(func(b *Builder) {
		b.If(condition.Con("A"), func(b *Builder) {
			b.Run(fire)
		})
	})
	require.NoError(t, b.Err())

	cmds := b.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, []Ref{{Namespace: "ns", Trigger: "trigger_0", Kind: RefFire}}, cmds[0].Refs())
	assert.Equal(t, "execute if A run <fire ns:trigger_0>", cmds[0].String())

	resolved, err := cmds[0].Resolve(func(r Ref) (string, error) {
		return "fill 0 0 0 1 1 1 minecraft:redstone_block", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "execute if A run fill 0 0 0 1 1 1 minecraft:redstone_block", resolved)
}
