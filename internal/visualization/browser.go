package visualization

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// OpenBrowser opens target, a URL or a local file path, in the user's
// default browser. It supports Linux (xdg-open), macOS (open), and
// Windows (cmd start).
func OpenBrowser(target string) error {
	url, err := browserURL(target)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// browserURL turns a file path into a file:// URL. URLs pass through.
func browserURL(target string) (string, error) {
	if strings.Contains(target, "://") {
		return target, nil
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p, nil
}

// WriteChart writes an HTML chart page for the network read from source
// into dir and returns the page's path. An empty dir means a gris
// directory under the OS temp dir.
func WriteChart(dir, source string, page []byte) (string, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "gris")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create chart directory: %w", err)
	}

	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, page, 0600); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}
