package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/padesk/internal/config"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Dir("main")
	want := filepath.Join(home, ".padesk", "profiles", "main")
	if got != want {
		t.Errorf("Dir(main) = %q, want %q", got, want)
	}
}

func TestPathsLiveUnderProfileDir(t *testing.T) {
	p := For("ops")
	for name, got := range map[string]string{
		"db":  p.DB(),
		"log": p.Log(),
	} {
		if !strings.HasPrefix(got, Dir("ops")) {
			t.Errorf("%s path %q not under %q", name, got, Dir("ops"))
		}
	}
	if got, want := (Paths{Dir: "/tmp/x"}).Log(), filepath.Join("/tmp/x", "logs", "padesk.log"); got != want {
		t.Errorf("Log() = %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		flag string
		cfg  *config.Config
		want string
	}{
		{"flag wins", "night", &config.Config{DefaultProfile: "day"}, "night"},
		{"config default", "", &config.Config{DefaultProfile: "day"}, "day"},
		{"nil config", "", nil, DefaultName},
		{"empty config", "", &config.Config{}, DefaultName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.flag, tt.cfg); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with numbers", "ops123", false},
		{"valid with hyphen", "night-shift", false},
		{"valid with underscore", "night_shift", false},
		{"empty", "", true},
		{"uppercase", "Main", true},
		{"space", "night shift", true},
		{"dot", "night.shift", true},
		{"too long", strings.Repeat("a", 65), true},
		{"slash", "a/b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
