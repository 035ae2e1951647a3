// Package evolution compares schema versions, proposes field renames and
// renders the differences as migration notes and migration statements.
//
// Renames are proposals: generated migrations annotate them and never apply
// them.
package evolution
