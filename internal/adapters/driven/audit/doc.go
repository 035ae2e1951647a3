// Package audit provides audit sinks that are not tied to a storage backend:
// a structured log sink and a fan-out over several sinks.
package audit
