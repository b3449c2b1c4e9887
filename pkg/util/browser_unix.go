//go:build !windows

package util

import (
	"os/exec"
	"runtime"
)

func browserCommand(url string) *exec.Cmd {
	if runtime.GOOS == "darwin" {
		return exec.Command("open", url)
	}
	return exec.Command("xdg-open", url)
}
