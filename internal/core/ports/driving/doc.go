// Package driving declares what the CLI, the MCP server and the directory
// watcher may ask of the core: ingest an upload, read schema history,
// render migrations, and manage settings.
package driving
