//go:build windows

package tray

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog/log"
)

type controller struct {
	stopOnce sync.Once
	stopped  chan struct{}
}

func (c *controller) Stop() {
	c.stopOnce.Do(systray.Quit)
	<-c.stopped
}

func loadIcon(extra string) ([]byte, error) {
	var paths []string
	if extra != "" {
		paths = append(paths, extra)
	}
	paths = append(paths, iconName)
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), iconName))
	}

	var errs error
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		errs = errors.Join(errs, err)
	}
	return nil, errs
}

// Start shows the notification area icon and returns once the menu is built.
func Start(opts Options) (Controller, error) {
	ctrl := &controller{stopped: make(chan struct{})}
	ready := make(chan struct{})

	go systray.Run(func() {
		buildMenu(opts, ctrl)
		close(ready)
	}, func() {
		close(ctrl.stopped)
	})

	<-ready
	return ctrl, nil
}

func buildMenu(opts Options, ctrl *controller) {
	if data, err := loadIcon(opts.IconPath); err != nil {
		log.Warn().Err(err).Msg("tray icon not found, using default")
	} else {
		systray.SetIcon(data)
	}
	systray.SetTooltip(opts.tooltip())

	var openCh <-chan struct{}
	if opts.OnOpen != nil {
		openCh = systray.AddMenuItem("Open status page", "Show the live tally in a browser").ClickedCh
		systray.AddSeparator()
	}
	quitItem := systray.AddMenuItem("Export and quit", "Write the report and exit")

	go func() {
		for {
			select {
			case <-openCh:
				opts.OnOpen()
			case <-quitItem.ClickedCh:
				if opts.OnQuit != nil {
					opts.OnQuit()
				}
				ctrl.Stop()
				return
			case <-ctrl.stopped:
				return
			}
		}
	}()
}
