package reflector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvClasspath, "")
	t.Setenv(EnvJavap, "")
	t.Setenv(EnvJavaHome, "")

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	writeFile(t, path, `
classpath = "build/classes"
lib_dir = "lib"
javap = "/opt/jdk/bin/javap"
jobs = 4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Classpath != "build/classes" {
		t.Errorf("Classpath = %q", cfg.Classpath)
	}
	if want := filepath.Join(dir, "lib"); cfg.LibDir != want {
		t.Errorf("LibDir = %q, want %q", cfg.LibDir, want)
	}
	if cfg.JavapPath() != "/opt/jdk/bin/javap" {
		t.Errorf("JavapPath() = %q", cfg.JavapPath())
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv(EnvClasspath, "")
	t.Setenv(EnvJavap, "")
	t.Setenv(EnvJavaHome, "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Expected an error for a missing explicit config file")
	}

	chdir(t, t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("Expected an empty config, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	writeFile(t, path, "classpath = [")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Expected a parse error naming %s, got %v", path, err)
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		base      Config
		classpath string
		javap     string
	}{
		{
			name:      "classpath overrides file",
			env:       map[string]string{EnvClasspath: "a.jar"},
			base:      Config{Classpath: "b.jar"},
			classpath: "a.jar",
			javap:     "javap",
		},
		{
			name:  "javap wins over java home",
			env:   map[string]string{EnvJavap: "/usr/bin/javap", EnvJavaHome: "/opt/jdk"},
			javap: "/usr/bin/javap",
		},
		{
			name:  "java home",
			env:   map[string]string{EnvJavaHome: "/opt/jdk"},
			javap: filepath.Join("/opt/jdk", "bin", "javap"),
		},
		{
			name:  "java home does not override file",
			env:   map[string]string{EnvJavaHome: "/opt/jdk"},
			base:  Config{Javap: "/custom/javap"},
			javap: "/custom/javap",
		},
		{
			name:      "empty values are ignored",
			env:       map[string]string{EnvClasspath: ""},
			base:      Config{Classpath: "b.jar"},
			classpath: "b.jar",
			javap:     "javap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base
			cfg.ApplyEnv(func(key string) (string, bool) {
				v, ok := tt.env[key]
				return v, ok
			})
			if cfg.Classpath != tt.classpath {
				t.Errorf("Classpath = %q, want %q", cfg.Classpath, tt.classpath)
			}
			if cfg.JavapPath() != tt.javap {
				t.Errorf("JavapPath() = %q, want %q", cfg.JavapPath(), tt.javap)
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "b.jar"), "")
	writeFile(t, filepath.Join(lib, "a.jar"), "")
	writeFile(t, filepath.Join(lib, "notes.txt"), "")
	writeFile(t, filepath.Join(lib, "nested", "c.jar"), "")

	cfg := Config{Classpath: "classes", LibDir: lib}
	got, err := cfg.SearchPath()
	if err != nil {
		t.Fatalf("SearchPath() error = %v", err)
	}
	want := strings.Join([]string{
		"classes",
		filepath.Join(lib, "a.jar"),
		filepath.Join(lib, "b.jar"),
	}, string(os.PathListSeparator))
	if got != want {
		t.Errorf("SearchPath() = %q, want %q", got, want)
	}

	if got, _ := (Config{}).SearchPath(); got != "" {
		t.Errorf("Empty config SearchPath() = %q, want empty", got)
	}
	if _, err := (Config{LibDir: filepath.Join(lib, "missing")}).SearchPath(); err == nil {
		t.Error("Expected an error for a missing lib directory")
	}
}

// chdir changes the working directory for the duration of the test,
// like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}
