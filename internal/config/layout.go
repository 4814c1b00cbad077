package config

import (
	"os"
	"path/filepath"
)

// Default names inside the project root.
const (
	ScriptsDirName = "scripts"
	ConfigFileName = "config.yaml"
)

// Layout locates the scripts directory and the YAML file listing them.
type Layout struct {
	ProgramDir  string
	ProjectRoot string
	ScriptsDir  string
	ConfigFile  string
}

// NewLayout returns the default layout under the given project root.
func NewLayout(root string) Layout {
	return Layout{
		ProgramDir:  programDir(),
		ProjectRoot: root,
		ScriptsDir:  filepath.Join(root, ScriptsDirName),
		ConfigFile:  filepath.Join(root, ConfigFileName),
	}
}

// DefaultProjectRoot is two directories above the executable, matching an
// install at <root>/infra/scripts/runscripts. Falls back to the working
// directory when the executable cannot be located.
func DefaultProjectRoot() string {
	dir := programDir()
	if dir == "" {
		return "."
	}

	return filepath.Dir(filepath.Dir(dir))
}

// SetProjectRoot re-derives the scripts dir and config file from root.
func (l *Layout) SetProjectRoot(root string) {
	l.ProjectRoot = root
	l.ScriptsDir = filepath.Join(root, ScriptsDirName)
	l.ConfigFile = filepath.Join(root, ConfigFileName)
}

func programDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe)
}

// mergeLayoutEnv applies RUNSCRIPTS_PROJECT_ROOT first so the more specific
// RUNSCRIPTS_SCRIPTS_DIR and RUNSCRIPTS_CONFIG can override its derived paths.
func mergeLayoutEnv(l *Layout) {
	if v := os.Getenv("RUNSCRIPTS_PROJECT_ROOT"); v != "" {
		l.SetProjectRoot(v)
	}

	if v := os.Getenv("RUNSCRIPTS_SCRIPTS_DIR"); v != "" {
		l.ScriptsDir = v
	}

	if v := os.Getenv("RUNSCRIPTS_CONFIG"); v != "" {
		l.ConfigFile = v
	}
}
