// Package harness runs injection scenarios described in YAML.
//
// A scenario names a layer document, a skeleton and an optional rig
// profile, seeds an in-memory host with the target controller, runs the
// engine one or more times and checks assertions against the reports and
// the final host state. Each scenario runs against a fresh
// engine.MemoryHost with sequential run IDs, so its output can be compared
// against a golden snapshot.
//
// Paths inside a scenario resolve relative to the scenario file.
package harness
