// Package ir provides the typed representation of a toe-rig layer document.
//
// This package contains type definitions only. internal/compiler turns raw
// JSON into these types; everything downstream consumes them read-only.
//
// Key design constraints:
//   - Enums are tagged types with exhaustive switches, never bare strings
//   - JSON accepts both the host's integer enum codes and their names
//   - A Document is not mutated after parse
package ir
