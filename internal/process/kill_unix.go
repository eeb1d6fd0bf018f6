//go:build !windows

package process

import "syscall"

// KillProcessGroup stops a headless browser and every renderer it spawned by
// sending SIGKILL to its process group (negative PID).
func KillProcessGroup(pid int) {
	// Best effort: launcher.Kill() still runs after this.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
