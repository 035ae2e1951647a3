// Package file reads and writes DataVerser configuration on disk.
//
// ConfigStore keeps settings in config.toml under the user's config
// directory. LoadRules parses a standalone TOML file of validation rules
// passed with --rules.
package file
