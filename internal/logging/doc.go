// Package logging provides a small leveled logger for the screensaver.
//
// Levels, from most to least verbose:
//   - DEBUG: scan progress, cursor moves, rotation chain attempts
//   - INFO: session lifecycle and configuration
//   - WARN: skipped roots, failed enumerations, recoverable I/O problems
//   - ERROR: failures surfaced to the user
//   - FATAL: startup errors that terminate the process
//
// The level comes from the DEBUG or LOG_LEVEL environment variables and can be
// overridden with SetLevel (the --log-level flag). While the console presenter
// holds the terminal in raw mode, output is redirected with SetOutput.
package logging
