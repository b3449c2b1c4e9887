//go:build !windows

package tray

import "github.com/rs/zerolog/log"

type noopController struct{}

func (noopController) Stop() {}

// Start only logs on platforms without a tray; Ctrl+C remains the way to
// export and quit.
func Start(opts Options) (Controller, error) {
	log.Debug().Str("tooltip", opts.tooltip()).Msg("system tray not supported on this platform")
	return noopController{}, nil
}
