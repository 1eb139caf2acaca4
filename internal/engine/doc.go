// Package engine runs one toe layer injection against a host asset store.
//
// A run is a single synchronous pass:
//
//  1. Resolve every layer's toe from its name. A bad name aborts before
//     anything is touched.
//  2. Load the controller and expression-parameter list from the Host and
//     clone them. All further mutation happens on the clones.
//  3. Declare document parameters, then build each layer in document
//     order: evict the same-named layer, synthesize and assemble clips,
//     wire transitions, append.
//  4. Hand the clones, the generated clips and the report to Host.Commit
//     as one Changeset.
//
// If any step fails the Host sees no writes at all.
//
// The clip cache is reset at the start of every run and is the only state
// an Engine carries between runs. An Engine must not be used by two
// goroutines at once.
package engine
