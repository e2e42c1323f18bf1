// Package ui provides the terminal output pieces used by HydroGuard's plain
// CLI commands (everything except the full-screen dashboard, which lives in
// internal/monitor).
//
//	Spinner       - single-line animated status for scans and connects
//	RenderHeader  - branded header for version and device listings
//	NewTable      - Bubbles table with the CLI styling
//	PickDevice    - interactive device chooser built on bubbles/list
//
// Colors are ANSI codes where possible so plain terminals degrade well;
// ColorBrand and GradientColors are true-color and match the dashboard.
package ui
