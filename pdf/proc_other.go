//go:build !unix

package pdf

import "os/exec"

// killGroup leaves the default cancel in place; WaitDelay still bounds the
// wait on inherited pipes.
func killGroup(cmd *exec.Cmd) {}
