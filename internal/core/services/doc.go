// Package services wires the extraction, inference and evolution packages
// behind the driving ports. IngestService runs the full pipeline for one
// upload; SchemaService owns versioned history per source; SettingsService
// reads and writes the tunable thresholds.
package services
