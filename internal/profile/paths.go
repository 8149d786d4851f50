package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.padesk.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".padesk")
}

// Dir returns the profile-specific directory.
func Dir(name string) string {
	return filepath.Join(BaseDir(), "profiles", name)
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// Paths locates the files kept in one profile directory.
type Paths struct {
	Dir string
}

// For returns the paths of the named profile.
func For(name string) Paths {
	return Paths{Dir: Dir(name)}
}

// DB returns the SQLite path holding the persisted session and UI state.
func (p Paths) DB() string {
	return filepath.Join(p.Dir, "padesk.db")
}

// LogDir returns the log directory.
func (p Paths) LogDir() string {
	return filepath.Join(p.Dir, "logs")
}

// Log returns the dashboard log file path.
func (p Paths) Log() string {
	return filepath.Join(p.LogDir(), "padesk.log")
}
