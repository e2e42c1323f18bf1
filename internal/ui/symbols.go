package ui

// Unicode symbols for status lines.
const (
	SymbolSuccess  = "✓"
	SymbolFail     = "✗"
	SymbolPending  = "○"
	SymbolProgress = "◐"
	SymbolComplete = "●"
	SymbolAlert    = "▲"
	SymbolDevice   = "◉" // marks the connected device in tables
)
