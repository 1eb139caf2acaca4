// Package skeleton models the host bone hierarchy the toe clips animate.
//
// It covers the three things the synthesizer needs from a skeleton: the
// local rest rotation of each bone, the animation path string that
// addresses a bone relative to the armature root, and the per-toe bone
// chains bound by the user.
package skeleton
