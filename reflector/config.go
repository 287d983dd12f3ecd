package reflector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvClasspath = "CLASSPATH"
	EnvJavap     = "JAVAP"
	EnvJavaHome  = "JAVA_HOME"

	DefaultConfigFile = "jreflect.toml"
)

// Config controls where the disassembler looks for classes and which
// binary it runs. Values come from jreflect.toml, then the environment,
// then command-line flags.
type Config struct {
	Classpath string `toml:"classpath"`
	LibDir    string `toml:"lib_dir"`
	Javap     string `toml:"javap"`
	Jobs      int    `toml:"jobs"`
}

// LoadConfig reads path (or jreflect.toml in the working directory when path
// is empty; a missing default file is not an error) and applies the
// environment on top.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg.LibDir != "" && !filepath.IsAbs(cfg.LibDir) {
			cfg.LibDir = filepath.Join(filepath.Dir(path), cfg.LibDir)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvClasspath); ok && v != "" {
		c.Classpath = v
	}
	if v, ok := lookup(EnvJavap); ok && v != "" {
		c.Javap = v
	} else if c.Javap == "" {
		if home, ok := lookup(EnvJavaHome); ok && home != "" {
			c.Javap = filepath.Join(home, "bin", "javap")
		}
	}
}

// JavapPath returns the disassembler binary, defaulting to javap on $PATH.
func (c Config) JavapPath() string {
	if c.Javap != "" {
		return c.Javap
	}
	return "javap"
}

// SearchPath returns the classpath handed to the disassembler: the
// configured classpath followed by every jar in LibDir. An empty result
// means nothing was configured.
func (c Config) SearchPath() (string, error) {
	var entries []string
	if c.Classpath != "" {
		entries = append(entries, c.Classpath)
	}
	if c.LibDir != "" {
		jars, err := jarsIn(c.LibDir)
		if err != nil {
			return "", err
		}
		entries = append(entries, jars...)
	}
	return strings.Join(entries, string(os.PathListSeparator)), nil
}

func jarsIn(libDir string) ([]string, error) {
	entries, err := os.ReadDir(libDir)
	if err != nil {
		return nil, fmt.Errorf("read lib directory %s: %w", libDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".jar" {
			paths = append(paths, filepath.Join(libDir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
