// Package toolcheck reports which administrative CLI tools exist on the
// runtime image and whether a minimal invocation of each succeeds.
//
// Verification is a pure function over an injected path resolver and command
// runner; it produces a Report aggregate and never fails the run because a
// tool is missing. Rendering and exit-code policy belong to the callers.
package toolcheck
