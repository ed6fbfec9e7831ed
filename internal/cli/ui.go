package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors. Wire colors match the route browser: intra-section
// wires in teal, cross-section wires in amber.
var (
	colorWire    = lipgloss.Color("36")
	colorCross   = lipgloss.Color("220")
	colorOK      = lipgloss.Color("35")
	colorFail    = lipgloss.Color("167")
	colorCommand = lipgloss.Color("75")
	colorValue   = lipgloss.Color("255")
	colorLabel   = lipgloss.Color("245")
	colorMuted   = lipgloss.Color("240")
)

// Styles shared with the route browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorWire)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorWire)
	StyleCross     = lipgloss.NewStyle().Foreground(colorCross)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleValue   = lipgloss.NewStyle().Foreground(colorValue)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorWire)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleFail.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning reports something the diagram left out, such as skipped
// connections.
func printWarning(format string, args ...any) {
	fmt.Println(StyleCross.Render(iconWarning) + " " + StyleCross.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleLabel.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

// printKeyValue prints one setting of a running server.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printStats prints the diagram summary under the written files.
func printStats(nodes, wires, crossings int, cached bool) {
	fmt.Println(statsLine(nodes, wires, crossings, cached))
}

// statsLine formats node, wire and crossing counts and whether the layout
// came from the cache. Crossings are left out when there are none.
func statsLine(nodes, wires, crossings int, cached bool) string {
	sep := StyleDim.Render(" · ")
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d wires", wires)),
	}
	if crossings > 0 {
		parts = append(parts, StyleCross.Render(fmt.Sprintf("%d crossings", crossings)))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, styleLabel.Render("fresh"))
	}
	return "  " + strings.Join(parts, sep)
}

// printNextStep suggests the command that usually follows.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
