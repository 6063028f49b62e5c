//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree terminates pid and its children with taskkill /F /T.
// Non-positive PIDs are ignored.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; launcher.Kill() still runs afterwards.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric PID
}
