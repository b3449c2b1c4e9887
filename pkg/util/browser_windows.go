//go:build windows

package util

import (
	"os/exec"
	"syscall"
)

func browserCommand(url string) *exec.Cmd {
	cmd := exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	return cmd
}
