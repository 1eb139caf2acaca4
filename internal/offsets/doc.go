// Package offsets resolves the numeric toe model: per-toe splay angles,
// the shared curl range, and the inversion and axis-swap policies.
//
// A Profile is user-edited input. It is read-only for the duration of an
// injection run.
package offsets
