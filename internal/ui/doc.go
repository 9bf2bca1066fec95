// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for library enrichment:
//  1. [ConfirmView] : Review the loaded library and confirm the run
//  2. [RunView] : Monitor real-time progress updates per pipeline phase
//  3. [ResultView] : Browse the coordinate groups and summary stats
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the EnrichEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
