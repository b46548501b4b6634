// Package logging provides a simple leveled logging interface for the
// media catalog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The level is read once from DEBUG or LOG_LEVEL and can be replaced at
// runtime with SetLevel, which the configuration loader does after reading
// its own sources.
package logging
