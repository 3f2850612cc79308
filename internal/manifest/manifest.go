// Package manifest decodes the optional stacky.toml project manifest,
// grounded on vovakirdan-surge/cmd/surge/project_manifest.go's
// findSurgeToml/loadProjectConfig pair, generalized to this project's
// [build]/[report] shape instead of surge's [package]/[run].
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest's fixed name, searched for from the current
// directory upward the way findSurgeToml walks toward the filesystem
// root looking for surge.toml.
const FileName = "stacky.toml"

// Config mirrors stacky.toml's two sections. Every field has a zero
// value that is also its sensible default, so a Config read from a
// missing file is usable as-is.
type Config struct {
	Build  BuildConfig  `toml:"build"`
	Report ReportConfig `toml:"report"`
}

type BuildConfig struct {
	Output  string   `toml:"output"`
	Include []string `toml:"include"`
}

type ReportConfig struct {
	Colors  bool `toml:"colors"`
	Verbose bool `toml:"verbose"`
}

// Manifest pairs a decoded Config with where it was found, for
// resolving Include paths relative to the manifest's own directory
// rather than the process's current directory.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Find walks from startDir upward looking for stacky.toml, the same
// upward walk findSurgeToml performs for surge.toml. Returns ok=false,
// err=nil when no manifest exists anywhere above startDir -- absence is
// not an error (spec: "an empty/default manifest is used").
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolving start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load finds and decodes the manifest reachable from startDir. When
// none exists it returns a zero-value Manifest and ok=false rather than
// an error, per stacky.toml's absence not being a failure condition.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return &Manifest{}, ok, err
	}
	cfg, err := decode(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func decode(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: parsing TOML: %w", path, err)
	}
	return cfg, nil
}

// ResolvedIncludes returns Config.Build.Include with every relative
// entry joined against the manifest's own directory, so `-I` search
// paths declared in stacky.toml behave the same regardless of the
// process's working directory when the compiler was invoked.
func (m *Manifest) ResolvedIncludes() []string {
	if m == nil || len(m.Config.Build.Include) == 0 {
		return nil
	}
	out := make([]string, len(m.Config.Build.Include))
	for i, inc := range m.Config.Build.Include {
		if filepath.IsAbs(inc) {
			out[i] = inc
			continue
		}
		out[i] = filepath.Join(m.Root, inc)
	}
	return out
}
