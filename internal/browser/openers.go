package browser

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/brief/internal/config"
)

//go:embed openers.toml
var openersTOML []byte

// OpenerDefinition describes how a link-opening command is invoked.
type OpenerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
}

// OpenersConfig is the decoded openers.toml.
type OpenersConfig struct {
	Defaults map[string][]string         `toml:"defaults"`
	Openers  map[string]OpenerDefinition `toml:"openers"`
}

// Registry holds the known openers for every platform.
type Registry struct {
	defaults map[string][]string
	openers  map[string]OpenerDefinition
	lookPath func(string) (string, error)
}

// NewRegistry decodes the embedded table and merges a user openers.toml
// from the config directory over it.
func NewRegistry() (*Registry, error) {
	r, err := parseRegistry(openersTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}
	r.loadUserConfig(filepath.Join(config.Dir(), "openers.toml"))
	return r, nil
}

func parseRegistry(data []byte) (*Registry, error) {
	var cfg OpenersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string][]string{}
	}
	if cfg.Openers == nil {
		cfg.Openers = map[string]OpenerDefinition{}
	}
	return &Registry{
		defaults: cfg.Defaults,
		openers:  cfg.Openers,
		lookPath: exec.LookPath,
	}, nil
}

// loadUserConfig overrides built-in entries. A missing or broken file is ignored.
func (r *Registry) loadUserConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user OpenersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		return
	}
	for name, def := range user.Openers {
		r.openers[name] = def
	}
	for goos, list := range user.Defaults {
		r.defaults[goos] = list
	}
}

// Default returns the first installed default opener for goos.
func (r *Registry) Default(goos string) string {
	for _, name := range r.defaults[goos] {
		if _, err := r.lookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// Args returns the arguments placed before the URL for name on goos. Unknown
// openers, or known ones not meant for goos, take no extra arguments.
func (r *Registry) Args(name, goos string) []string {
	def, ok := r.openers[name]
	if !ok || !slices.Contains(def.Platforms, goos) {
		return nil
	}
	return slices.Clone(def.Args)
}

// Known reports whether name has a definition.
func (r *Registry) Known(name string) bool {
	_, ok := r.openers[name]
	return ok
}

func currentPlatform() string {
	return runtime.GOOS
}
