package main

import "github.com/charmbracelet/lipgloss"

var (
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorOn     = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}
	colorOff    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

var (
	styleTitle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleMeta  = lipgloss.NewStyle().Foreground(colorDim)
	styleName  = lipgloss.NewStyle().Foreground(colorBright).Width(18)
	styleOn    = lipgloss.NewStyle().Foreground(colorOn).Width(5)
	styleOff   = lipgloss.NewStyle().Foreground(colorOff).Width(5)
	styleIssue = lipgloss.NewStyle().Foreground(colorOff)
)
