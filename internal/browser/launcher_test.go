package browser

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, installed ...string) *Registry {
	t.Helper()
	r, err := parseRegistry(openersTOML)
	require.NoError(t, err)
	r.lookPath = func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	return r
}

func TestEmbeddedOpenersParse(t *testing.T) {
	r := testRegistry(t)
	for _, goos := range []string{"darwin", "linux", "windows"} {
		assert.NotEmpty(t, r.defaults[goos], "defaults for %s", goos)
	}
	assert.True(t, r.Known("xdg-open"))
	assert.Equal(t, []string{"url.dll,FileProtocolHandler"}, r.Args("rundll32", "windows"))
	assert.Nil(t, r.Args("rundll32", "linux"), "args only apply on listed platforms")
	assert.Nil(t, r.Args("unknown-browser", "linux"))
}

func TestRegistryDefaultPicksFirstInstalled(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
	}{
		{name: "linux xdg-open", goos: "linux", installed: []string{"xdg-open", "wslview"}, want: "xdg-open"},
		{name: "linux wsl fallback", goos: "linux", installed: []string{"wslview"}, want: "wslview"},
		{name: "darwin", goos: "darwin", installed: []string{"open"}, want: "open"},
		{name: "windows", goos: "windows", installed: []string{"rundll32"}, want: "rundll32"},
		{name: "nothing installed", goos: "linux", want: ""},
		{name: "unknown platform", goos: "plan9", installed: []string{"xdg-open"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testRegistry(t, tt.installed...).Default(tt.goos))
		})
	}
}

func TestLauncherCommand(t *testing.T) {
	l := newLauncher("", testRegistry(t, "rundll32"), "windows")

	cmd, err := l.Command("https://news.site/story")
	require.NoError(t, err)
	assert.Equal(t, []string{"rundll32", "url.dll,FileProtocolHandler", "https://news.site/story"}, cmd.Args)
	assert.Nil(t, cmd.Stdin)
}

func TestLauncherOverrideWithArgs(t *testing.T) {
	l := newLauncher("firefox --private-window", testRegistry(t), "linux")
	assert.Equal(t, "firefox", l.Opener())

	cmd, err := l.Command("https://news.site/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "--new-tab", "--private-window", "https://news.site/a"}, cmd.Args)
}

func TestLauncherRejectsUnsafeURLs(t *testing.T) {
	l := newLauncher("", testRegistry(t, "xdg-open"), "linux")

	for _, u := range []string{
		"",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://news.site/a",
		"http://localhost:8000/admin",
		"news.site/relative",
	} {
		_, err := l.Command(u)
		assert.Error(t, err, "Command(%q)", u)
	}
}

func TestLauncherNoOpener(t *testing.T) {
	l := newLauncher("", testRegistry(t), "linux")
	_, err := l.Command("https://news.site/a")
	assert.ErrorContains(t, err, "no application")
}

func TestLauncherOpenStartsDetached(t *testing.T) {
	l := newLauncher("", testRegistry(t, "xdg-open"), "linux")

	var started *exec.Cmd
	l.start = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	require.NoError(t, l.Open("https://news.site/a"))
	require.NotNil(t, started)
	assert.Equal(t, "https://news.site/a", started.Args[len(started.Args)-1])

	l.start = func(*exec.Cmd) error { return errors.New("exec format error") }
	assert.ErrorContains(t, l.Open("https://news.site/a"), "failed to start xdg-open")
}

func TestUserOpenersOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openers.toml")
	content := `
[defaults]
linux = ["qutebrowser"]

[openers.qutebrowser]
platforms = ["linux"]
args = [":open", "-t"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := testRegistry(t, "qutebrowser", "xdg-open")
	r.loadUserConfig(path)

	assert.Equal(t, "qutebrowser", r.Default("linux"))
	assert.Equal(t, []string{":open", "-t"}, r.Args("qutebrowser", "linux"))
	assert.True(t, r.Known("xdg-open"), "built-ins survive a user file")
}

func TestUserOpenersBrokenFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openers.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[[not toml"), 0o644))

	r := testRegistry(t, "xdg-open")
	r.loadUserConfig(path)
	assert.Equal(t, "xdg-open", r.Default("linux"))
}
