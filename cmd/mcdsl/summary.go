package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/mcdsl/pkg/datapack"
)

var terminalWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")) // pink

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// renderSummary draws the per-namespace counts of a build and where it went.
func renderSummary(out *datapack.Output, dest string, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(datapack.Title(out.Name)))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(fmt.Sprintf("%d files → %s", len(out.Files), dest), inner))
	b.WriteString("\n\n")

	header := fmt.Sprintf("%-20s %9s %8s %7s %7s", "namespace", "functions", "triggers", "blocks", "layout")
	b.WriteString(headerStyle.Render(header))
	for _, ns := range out.Namespaces {
		b.WriteString("\n")
		name := fmt.Sprintf("%-20s", datapack.Title(ns.Name))
		b.WriteString(nameStyle.Render(name))
		fmt.Fprintf(&b, " %9d %8d %7d %7d", ns.Functions, ns.Triggers, ns.CommandBlocks, ns.LayoutLines)
	}

	return panelStyle.Width(width - 2).Render(b.String())
}
