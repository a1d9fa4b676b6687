package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/flix/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition describes how to invoke one external program.
type PlayerDefinition struct {
	Description string      `toml:"description"`
	Platforms   []string    `toml:"platforms"`
	Video       *KindConfig `toml:"video,omitempty"`
	Image       *KindConfig `toml:"image,omitempty"`
}

// KindConfig holds the arguments for one media kind.
type KindConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

// PlayerRegistry maps program names to their invocation rules.
type PlayerRegistry struct {
	players map[string]PlayerDefinition
	goos    string
}

// NewPlayerRegistry loads the embedded definitions, then any overrides
// from the given files. Missing override files are ignored.
func NewPlayerRegistry(overrides ...string) (*PlayerRegistry, error) {
	var cfg PlayersConfig
	if err := toml.Unmarshal(playersTOML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}
	if cfg.Players == nil {
		cfg.Players = make(map[string]PlayerDefinition)
	}

	r := &PlayerRegistry{players: cfg.Players, goos: runtime.GOOS}
	for _, path := range overrides {
		r.merge(path)
	}
	return r, nil
}

// UserOverridePaths are the locations checked for custom player definitions.
func UserOverridePaths() []string {
	paths := []string{"./players.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append([]string{filepath.Join(home, ".config", "flix", "players.toml")}, paths...)
	}
	return paths
}

func (r *PlayerRegistry) merge(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user PlayersConfig
	if err := toml.Unmarshal(data, &user); err != nil {
		debuglog.Warnf("ignoring player overrides in %s: %v", path, err)
		return
	}
	for name, def := range user.Players {
		r.players[name] = def
	}
	debuglog.Debugf("merged %d player definitions from %s", len(user.Players), path)
}

// Definition returns the rules for name.
func (r *PlayerRegistry) Definition(name string) (PlayerDefinition, bool) {
	def, ok := r.players[name]
	return def, ok
}

// Command builds the invocation of player for a target of the given kind.
// Unknown players are run with the target as their only argument.
func (r *PlayerRegistry) Command(player string, kind Kind, target string) (*exec.Cmd, error) {
	args, err := r.Args(player, kind)
	if err != nil {
		return nil, err
	}
	return exec.Command(player, append(args, target)...), nil
}

// Args returns the arguments placed before the target.
func (r *PlayerRegistry) Args(player string, kind Kind) ([]string, error) {
	def, ok := r.players[player]
	if !ok {
		return nil, nil
	}

	supported := false
	for _, p := range def.Platforms {
		if p == r.goos {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("%s not supported on %s", player, r.goos)
	}

	var kc *KindConfig
	switch kind {
	case KindVideo:
		kc = def.Video
	case KindImage:
		kc = def.Image
	}
	if kc == nil {
		return nil, fmt.Errorf("%s cannot open %s", player, kind)
	}

	args := r.platformArgs(kc)
	return append([]string(nil), args...), nil
}

func (r *PlayerRegistry) platformArgs(kc *KindConfig) []string {
	switch r.goos {
	case "darwin":
		if len(kc.ArgsDarwin) > 0 {
			return kc.ArgsDarwin
		}
	case "linux":
		if len(kc.ArgsLinux) > 0 {
			return kc.ArgsLinux
		}
	case "windows":
		if len(kc.ArgsWindows) > 0 {
			return kc.ArgsWindows
		}
	}
	return kc.Args
}

// Supports reports whether player has arguments defined for kind on this
// platform. Unknown players are assumed to handle anything.
func (r *PlayerRegistry) Supports(player string, kind Kind) bool {
	_, err := r.Args(player, kind)
	return err == nil
}
