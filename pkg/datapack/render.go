package datapack

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/jwebster45206/mcdsl/pkg/command"
	"github.com/jwebster45206/mcdsl/pkg/layout"
)

// File is one generated file. Path is slash separated and relative to the
// datapack root.
type File struct {
	Path string
	Data []byte
}

// NamespaceSummary counts what was generated for one namespace.
type NamespaceSummary struct {
	Name          string
	Functions     int
	Triggers      int
	CommandBlocks int
	LayoutLines   int
}

// Output is a built datapack held in memory.
type Output struct {
	Name       string
	Files      []File
	Namespaces []NamespaceSummary
}

// File returns the contents of the file at p.
func (o *Output) File(p string) ([]byte, bool) {
	for _, f := range o.Files {
		if f.Path == p {
			return f.Data, true
		}
	}
	return nil, false
}

// Layout returns the resolved layout commands of a namespace.
func (o *Output) Layout(namespace string) ([]string, bool) {
	data, ok := o.File(LayoutPath(namespace))
	if !ok {
		return nil, false
	}
	if len(data) == 0 {
		return []string{}, true
	}
	return strings.Split(string(data), "\n"), true
}

// FunctionPath returns where a function is written.
func FunctionPath(f command.FunctionRef) string {
	return path.Join("data", f.Namespace, "functions", f.Name+".mcfunction")
}

// LayoutPath returns where a namespace's layout commands are written.
func LayoutPath(namespace string) string {
	return path.Join("layouts", namespace+".txt")
}

type packMeta struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

type functionTag struct {
	Values []string `json:"values"`
}

// Build lays out every rooted namespace, resolves trigger references
// across the whole pack and renders all files.
func (d *Datapack) Build() (*Output, error) {
	var plans []*layout.Plan
	for _, ns := range d.namespaces {
		for _, t := range ns.triggers {
			if err := t.Err(); err != nil {
				return nil, fmt.Errorf("trigger %s:%s: %w", ns.name, t.id, err)
			}
		}
		root, ok := ns.Root()
		if !ok {
			if len(ns.triggers) > 0 || len(ns.commandBlocks) > 0 {
				return nil, fmt.Errorf("namespace %s: %w", ns.name, ErrNoRoot)
			}
			continue
		}
		lanes := make([]layout.Lane, len(ns.triggers))
		for i, t := range ns.triggers {
			lanes[i] = t.lane()
		}
		plan := layout.Compile(ns.name, root, lanes, ns.commandBlocks)
		plans = append(plans, plan)
		if d.logger != nil {
			d.logger.Debug("Laid out namespace",
				"namespace", ns.name,
				"triggers", len(lanes),
				"placements", len(plan.Triggered)+len(plan.AlwaysOn))
		}
	}
	resolver := layout.NewResolver(plans...)

	out := &Output{Name: d.Name}

	meta := packMeta{}
	meta.Pack.PackFormat = d.PackFormat
	meta.Pack.Description = d.Description
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pack.mcmeta: %w", err)
	}
	out.Files = append(out.Files, File{Path: "pack.mcmeta", Data: data})
	if d.Icon != nil {
		out.Files = append(out.Files, File{Path: "pack.png", Data: d.Icon})
	}

	for _, ns := range d.namespaces {
		for _, f := range ns.functions {
			lines, err := resolver.ResolveAll(f.body)
			if err != nil {
				return nil, fmt.Errorf("function %s: %w", f.ID(), err)
			}
			out.Files = append(out.Files, File{Path: FunctionPath(f.Ref()), Data: []byte(strings.Join(lines, "\n"))})
		}
		files, err := ns.renderResources()
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, files...)
	}

	for _, tag := range []struct {
		name string
		refs []command.FunctionRef
	}{{"load", d.onLoad}, {"tick", d.onTick}} {
		t := functionTag{Values: make([]string, len(tag.refs))}
		for i, r := range tag.refs {
			t.Values[i] = r.ID()
		}
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s tag: %w", tag.name, err)
		}
		out.Files = append(out.Files, File{Path: "data/minecraft/tags/functions/" + tag.name + ".json", Data: data})
	}

	layoutLines := make(map[string]int, len(plans))
	for _, plan := range plans {
		lines, err := resolver.ResolveAll(plan.Lines())
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", plan.Namespace, err)
		}
		layoutLines[plan.Namespace] = len(lines)
		out.Files = append(out.Files, File{Path: LayoutPath(plan.Namespace), Data: []byte(strings.Join(lines, "\n"))})
	}

	for _, ns := range d.namespaces {
		out.Namespaces = append(out.Namespaces, NamespaceSummary{
			Name:          ns.name,
			Functions:     len(ns.functions),
			Triggers:      len(ns.triggers),
			CommandBlocks: len(ns.commandBlocks),
			LayoutLines:   layoutLines[ns.name],
		})
	}

	if d.logger != nil {
		d.logger.Debug("Built datapack",
			"name", d.Name,
			"files", len(out.Files),
			"namespaces", len(d.namespaces))
	}
	return out, nil
}
