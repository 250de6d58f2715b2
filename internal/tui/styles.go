package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#96E6A1")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)
