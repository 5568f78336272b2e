package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/condition"
	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

func build(t *testing.T, doc string) *datapack.Output {
	t.Helper()
	m, err := Parse([]byte(doc))
	require.NoError(t, err)
	pack, err := m.Datapack(nil)
	require.NoError(t, err)
	out, err := pack.Build()
	require.NoError(t, err)
	return out
}

func file(t *testing.T, out *datapack.Output, p string) string {
	t.Helper()
	data, ok := out.File(p)
	require.True(t, ok, "missing %s", p)
	return string(data)
}

const functionsManifest = `
name: demo
description: Demo pack
pack_format: 15
namespaces:
  - name: demo
    functions:
      - name: greet
        body:
          - cmd: say hello
          - if: entity @a[tag=vip]
            then:
              - cmd: say welcome
            else:
              - cmd: say hi
      - name: main
        body:
          - call: greet
          - as: "@a"
            at: "@s"
            cmd: particle minecraft:flame ~ ~1 ~
          - schedule:
              delay: 2s
              body:
                - cmd: say later
          - schedule:
              delay: 20
              function: greet
    on_load:
      - cmd: [say loaded, say twice]
`

func TestManifest_Functions(t *testing.T) {
	out := build(t, functionsManifest)

	assert.Equal(t, `{"pack":{"pack_format":15,"description":"Demo pack"}}`, file(t, out, "pack.mcmeta"))
	assert.Equal(t, strings.Join([]string{
		"say hello",
		"execute if entity @a[tag=vip] run say welcome",
		"execute unless entity @a[tag=vip] run say hi",
	}, "\n"), file(t, out, "data/demo/functions/greet.mcfunction"))
	assert.Equal(t, strings.Join([]string{
		"function demo:greet",
		"execute as @a at @s run particle minecraft:flame ~ ~1 ~",
		"schedule function demo:schedule_0 2s",
		"schedule function demo:greet 20t",
	}, "\n"), file(t, out, "data/demo/functions/main.mcfunction"))
	assert.Equal(t, "say later", file(t, out, "data/demo/functions/schedule_0.mcfunction"))
	assert.Equal(t, "say loaded\nsay twice", file(t, out, "data/demo/functions/load_0.mcfunction"))
	assert.Equal(t, `{"values":["demo:load_0"]}`, file(t, out, "data/minecraft/tags/functions/load.json"))
}

func TestManifest_ConditionTree(t *testing.T) {
	out := build(t, `
name: cond
namespaces:
  - name: cond
    on_tick:
      - if:
          or:
            - entity @a[tag=x]
            - and:
                - term: block 0 0 0 minecraft:stone
                - unless: entity @e[type=pig]
        then:
          - cmd: say yes
      - if:
          not: entity @a
        then:
          - cmd: say empty
`)
	assert.Equal(t, strings.Join([]string{
		"execute if entity @a[tag=x] run say yes",
		"execute if block 0 0 0 minecraft:stone unless entity @e[type=pig] run say yes",
		"execute unless entity @a run say empty",
	}, "\n"), file(t, out, "data/cond/functions/tick_0.mcfunction"))
}

func TestManifest_ModifierOrder(t *testing.T) {
	out := build(t, `
name: mods
namespaces:
  - name: mods
    functions:
      - name: f
        body:
          - at: "@s"
            as: "@e[type=pig]"
            positioned: "~ ~1 ~"
            align: xz
            do:
              - cmd: say a
              - if: block ~ ~ ~ minecraft:air
                then:
                  - cmd: say b
          - in: minecraft:the_nether
            rotated: "90 0"
            facing_entity: "@p eyes"
            cmd: say c
`)
	assert.Equal(t, strings.Join([]string{
		"execute at @s as @e[type=pig] positioned ~0 ~1 ~0 align xz run say a",
		"execute at @s as @e[type=pig] positioned ~0 ~1 ~0 align xz if block ~ ~ ~ minecraft:air run say b",
		"execute in minecraft:the_nether rotated 90 0 facing entity @p eyes run say c",
	}, "\n"), file(t, out, "data/mods/functions/f.mcfunction"))
}

const triggerManifest = `
name: door
namespaces:
  - name: door
    root: [0, 64, 0]
    functions:
      - name: open
        body:
          - fire: cycle
    triggers:
      - id: cycle
        at:
          - tick: 0
            body:
              - impulse: say closing
          - tick: 2
            body:
              - reset: cycle
    command_blocks:
      - if: block 5 64 5 minecraft:lever[powered=true]
        then:
          - fire: door:cycle
  - name: remote
    functions:
      - name: poke
        body:
          - fire: door:cycle
`

func TestManifest_Triggers(t *testing.T) {
	out := build(t, triggerManifest)

	assert.Equal(t, "fill 2 64 0 2 64 2 minecraft:redstone_block", file(t, out, "data/door/functions/open.mcfunction"))
	assert.Equal(t, "fill 2 64 0 2 64 2 minecraft:redstone_block", file(t, out, "data/remote/functions/poke.mcfunction"))

	lines, ok := out.Layout("door")
	require.True(t, ok)
	assert.Equal(t, []string{
		"fill 3 63 0 4 63 2 minecraft:gray_wool",
		"fill 2 64 0 4 64 2 minecraft:air",
		`setblock 3 64 0 minecraft:command_block{Command:"say closing",auto:0}`,
		"setblock 3 64 1 minecraft:repeater[facing=west,delay=2]",
		`setblock 4 64 1 minecraft:command_block{Command:"fill 2 64 0 2 64 2 minecraft:brown_wool",auto:0}`,
		`setblock 0 64 0 minecraft:command_block{Command:"execute if block 5 64 5 minecraft:lever[powered=true] run fill 2 64 0 2 64 2 minecraft:redstone_block",auto:1}`,
	}, lines)

	_, ok = out.Layout("remote")
	assert.False(t, ok)
}

func TestManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "not yaml",
			doc:     "name: [",
			wantErr: ErrSchema,
		},
		{
			name:    "missing namespaces",
			doc:     "name: x\n",
			wantErr: ErrSchema,
		},
		{
			name:    "unknown top level key",
			doc:     "name: x\nnamespaces: [{name: x}]\nextra: 1\n",
			wantErr: ErrSchema,
		},
		{
			name:    "unknown step key",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{shout: hi}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "then without if",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{then: [{cmd: a}]}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "bad delay",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{schedule: {delay: soon, body: []}}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "short root",
			doc:     "name: x\nnamespaces: [{name: x, root: [1, 2]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "negative tick",
			doc:     "name: x\nnamespaces: [{name: x, root: [0, 0, 0], triggers: [{id: t, at: [{tick: -1, body: []}]}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "empty and",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{if: {and: []}, then: []}]}]\n",
			wantErr: ErrSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManifest_CompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "unknown trigger",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{fire: nope}]}]\n",
			wantErr: ErrUnknownTrigger,
		},
		{
			name:    "unknown trigger namespace",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{reset: \"other:nope\"}]}]\n",
			wantErr: ErrUnknownTrigger,
		},
		{
			name:    "unknown function",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{call: missing}]}]\n",
			wantErr: ErrUnknownFunction,
		},
		{
			name:    "two actions",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{cmd: a, call: b}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "modifier without action",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{as: \"@a\"}]}]\n",
			wantErr: ErrSchema,
		},
		{
			name:    "bad dimension",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{in: Nether, cmd: a}]}]\n",
			wantErr: command.ErrInvalidArgument,
		},
		{
			name:    "bad rotation",
			doc:     "name: x\nnamespaces: [{name: x, on_load: [{rotated: left, cmd: a}]}]\n",
			wantErr: command.ErrInvalidArgument,
		},
		{
			name:    "duplicate function",
			doc:     "name: x\nnamespaces: [{name: x, functions: [{name: f, body: []}, {name: f, body: []}]}]\n",
			wantErr: datapack.ErrDuplicateFunction,
		},
		{
			name:    "duplicate namespace",
			doc:     "name: x\nnamespaces: [{name: x}, {name: x}]\n",
			wantErr: datapack.ErrDuplicateNamespace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = m.Datapack(nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestManifest_NoRoot(t *testing.T) {
	m, err := Parse([]byte("name: x\nnamespaces: [{name: x, command_blocks: [{repeat: say hi}]}]\n"))
	require.NoError(t, err)
	pack, err := m.Datapack(nil)
	require.NoError(t, err)
	_, err = pack.Build()
	assert.ErrorIs(t, err, datapack.ErrNoRoot)
}

func TestCond_Condition(t *testing.T) {
	c, err := Cond{Not: &Cond{Or: []Cond{{Term: "a"}, {Unless: "b"}}}}.condition()
	require.NoError(t, err)
	solved, err := condition.Solve(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"unless a if b"}, solved)

	_, err = Cond{}.condition()
	assert.ErrorIs(t, err, condition.ErrEmptyCondition)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(functionsManifest), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	require.Len(t, m.Namespaces, 1)
	assert.Len(t, m.Namespaces[0].Functions, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(Schema()), `"namespaces"`)
}
