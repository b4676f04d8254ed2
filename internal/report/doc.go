// Package report implements the templated report engine: a registry of
// report templates backed by an LFU cache, per-section generators built on
// internal/query, format exporters, and the due-schedule scanner.
package report
