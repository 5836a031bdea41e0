// Package output provides styled terminal output for zonectl.
//
// It wraps charmbracelet/log for leveled logging and charmbracelet/lipgloss
// for styles. Progress, warnings and errors go to stderr; stdout is kept for
// command results (zone lists, rendered files, JSON envelopes).
//
// NO_COLOR disables emoji prefixes and colors. --json suppresses all text
// output in favour of a single JSON document on stdout.
package output
