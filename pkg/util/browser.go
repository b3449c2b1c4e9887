package util

import (
	"fmt"
	"net/url"
)

// OpenBrowser opens an http(s) URL in the user's default browser without
// waiting for it to exit.
func OpenBrowser(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("open browser: invalid url %q", rawURL)
	}
	cmd := browserCommand(u.String())
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}
