// Package hostcmd provides the command-execution boundary shared by the
// verifier and launcher.
//
// Ownership boundary:
// - command execution against the local host or a remote host over SSH
//
// - executable path resolution
package hostcmd
