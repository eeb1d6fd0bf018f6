//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup stops a headless browser and its renderer tree with taskkill.
// /F = force kill, /T = terminate child processes (tree kill).
func KillProcessGroup(pid int) {
	// Best effort: launcher.Kill() still runs after this.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
