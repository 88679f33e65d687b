package main

import "github.com/charmbracelet/lipgloss"

// GitHub terminal light theme palette.
var (
	colorMuted   = lipgloss.Color("#656d76")
	colorAccent  = lipgloss.Color("#0969da")
	colorSuccess = lipgloss.Color("#1a7f37")
	colorWarning = lipgloss.Color("#9a6700")
)

var (
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	foundStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	missingStyle = lipgloss.NewStyle().Foreground(colorWarning)
)
