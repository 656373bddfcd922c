package browser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/validation"
)

// Launcher opens article links in the system browser. The child process gets
// no stdio and no handle back to brief, and it is never waited on by the UI.
type Launcher struct {
	opener    string
	extraArgs []string
	registry  *Registry
	validator *validation.URLValidator
	goos      string
	start     func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewRegistry()
	if err != nil {
		// Continue with an empty registry; a configured opener still works
		debuglog.Warnf("browser: %v", err)
		registry = &Registry{
			defaults: map[string][]string{},
			openers:  map[string]OpenerDefinition{},
			lookPath: exec.LookPath,
		}
	}
	return newLauncher(cfg.Browser.Opener, registry, currentPlatform())
}

func newLauncher(override string, registry *Registry, goos string) *Launcher {
	l := &Launcher{
		registry:  registry,
		validator: validation.NewArticleURLValidator(),
		goos:      goos,
		start:     startDetached,
	}

	// "firefox --private-window" style overrides carry their own arguments
	if fields := strings.Fields(override); len(fields) > 0 {
		l.opener = fields[0]
		l.extraArgs = fields[1:]
	} else {
		l.opener = registry.Default(goos)
	}
	return l
}

// Opener is the command links are handed to, or "" when none was found.
func (l *Launcher) Opener() string {
	return l.opener
}

// Command builds the process for rawURL without starting it.
func (l *Launcher) Command(rawURL string) (*exec.Cmd, error) {
	target, err := l.validator.ValidateAndNormalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("refusing to open link: %w", err)
	}
	if l.opener == "" {
		return nil, fmt.Errorf("no application found to open URL")
	}

	args := l.registry.Args(l.opener, l.goos)
	args = append(args, l.extraArgs...)
	args = append(args, target)
	return exec.Command(l.opener, args...), nil
}

func (l *Launcher) Open(rawURL string) error {
	cmd, err := l.Command(rawURL)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	debuglog.Debugf("opened %s with %s", rawURL, l.opener)
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
