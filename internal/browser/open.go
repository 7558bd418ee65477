package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for anything but absolute http(s) URLs.
var ErrUnsupportedURL = errors.New("browser: only http and https URLs can be opened")

// command returns the launcher for goos, or nil when the platform has none.
func command(goos, target string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return nil
	}
}

// Check reports whether raw is a URL Open will accept. web_url comes from
// user config, so nothing else is handed to the OS launcher.
func Check(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
	return u, nil
}

// Open opens the specified URL in the user's default browser.
func Open(raw string) error {
	u, err := Check(raw)
	if err != nil {
		return err
	}
	cmd := command(runtime.GOOS, u.String())
	if cmd == nil {
		return fmt.Errorf("browser: unsupported OS: %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("browser: open %s: %w", u, err)
	}
	return nil
}
