package visualization

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestOpenBrowser_SupportedPlatform(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		// Supported; compilation and platform coverage only.
	default:
		t.Skipf("skipping on unsupported platform: %s", runtime.GOOS)
	}
}

func TestBrowserURL(t *testing.T) {
	got, err := browserURL("http://localhost:8080/")
	if err != nil || got != "http://localhost:8080/" {
		t.Errorf("browserURL(http URL) = %q, %v; want unchanged", got, err)
	}

	got, err = browserURL("chart.html")
	if err != nil {
		t.Fatalf("browserURL: %v", err)
	}
	if !strings.HasPrefix(got, "file:///") || !strings.HasSuffix(got, "/chart.html") {
		t.Errorf("browserURL(chart.html) = %q, want absolute file URL", got)
	}
}

func TestWriteChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	path, err := WriteChart(dir, "/some/where/net.tgf", []byte("<html></html>"))
	if err != nil {
		t.Fatalf("WriteChart: %v", err)
	}
	if want := filepath.Join(dir, "net.html"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("chart content = %q", data)
	}
}
