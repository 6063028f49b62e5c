//go:build !windows

package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid. Chrome renderer
// and GPU helpers share that group. Non-positive PIDs are ignored since
// they address the caller's own group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; launcher.Kill() still runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
