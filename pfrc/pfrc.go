// Package pfrc loads the optional per-user configuration file ~/.pfrc.
//
// The file is YAML. Its context section holds named values a user wants
// available to the host, and its include list pulls in further files:
//
//	include:
//	  - helpers.yml
//	context:
//	  ids: [id, name]
//	  foo: 42
//
// A missing ~/.pfrc is not an error. Anything else that goes wrong while
// loading it, including a missing included file, is.
package pfrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/pf/internal/log"
)

// FileName is the name of the user config file inside the home directory.
const FileName = ".pfrc"

// ErrIncludeCycle is returned when config files include each other.
var ErrIncludeCycle = errors.New("include cycle")

// Context holds named values contributed by user configuration.
type Context map[string]any

// Lookup returns the value bound to name.
func (c Context) Lookup(name string) (any, bool) {
	v, ok := c[name]
	return v, ok
}

// Merge copies every top-level entry of src into c, replacing existing ones.
func (c Context) Merge(src Context) {
	for k, v := range src {
		c[k] = v
	}
}

// Config is the decoded content of a config file. Context already includes
// the contexts of all included files.
type Config struct {
	Context Context  `yaml:"context"`
	Include []string `yaml:"include"`
}

// Apply merges the config's context into dst.
func (c Config) Apply(dst Context) {
	dst.Merge(c.Context)
}

// Path returns the location of the user config file.
func Path() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// LoadUser loads ~/.pfrc. When the file does not exist it returns an empty
// Config and no error.
func LoadUser() (Config, error) {
	logger := log.WithComponent("pfrc")
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	cfg, err := Load(path)
	if err != nil {
		if isMissing(err, path) {
			logger.Debug().Str("path", path).Msg("no user config")
			return Config{}, nil
		}
		return Config{}, err
	}
	logger.Debug().Str("path", path).Int("keys", len(cfg.Context)).Msg("loaded user config")
	return cfg, nil
}

// Load reads the config file at path and everything it includes.
func Load(path string) (Config, error) {
	return load(filepath.Clean(path), map[string]bool{})
}

func load(path string, active map[string]bool) (Config, error) {
	if active[path] {
		return Config{}, fmt.Errorf("%w: %s", ErrIncludeCycle, path)
	}
	active[path] = true
	defer delete(active, path)

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var raw Config
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	ctx := Context{}
	for _, inc := range raw.Include {
		incPath, err := resolveInclude(inc, filepath.Dir(path))
		if err != nil {
			return Config{}, fmt.Errorf("%s: include %q: %w", path, inc, err)
		}
		sub, err := load(incPath, active)
		if err != nil {
			return Config{}, fmt.Errorf("%s: include %q: %w", path, inc, err)
		}
		ctx.Merge(sub.Context)
	}
	ctx.Merge(raw.Context)
	return Config{Context: ctx, Include: raw.Include}, nil
}

func resolveInclude(inc, dir string) (string, error) {
	p, err := homedir.Expand(inc)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	return filepath.Clean(p), nil
}

// isMissing reports whether err says that path itself does not exist, as
// opposed to some file it includes.
func isMissing(err error, path string) bool {
	var pe *fs.PathError
	return errors.As(err, &pe) && errors.Is(pe.Err, fs.ErrNotExist) && pe.Path == path
}
