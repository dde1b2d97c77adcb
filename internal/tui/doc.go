// Package tui provides the terminal user interface for slotting.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Overwrite confirmation prompts (using survey)
//   - The live solve progress spinner (using bubbletea)
//   - Utilization and result tables (using lipgloss)
package tui
