// Package media hands trailer and poster URLs to external programs.
package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/debuglog"
	"github.com/pders01/flix/internal/validation"
)

var ErrNoPlayer = errors.New("no application found to open URL")

// Runner starts a command without waiting for it.
type Runner func(cmd *exec.Cmd) error

// Launcher picks a player per media kind and starts it detached.
type Launcher struct {
	videoPlayer   string
	imageViewer   string
	defaultOpener string
	registry      *PlayerRegistry
	detector      *TypeDetector
	validator     *validation.EndpointValidator
	run           Runner
	lookPath      func(string) (string, error)
}

type LauncherOption func(*Launcher)

// WithValidator rejects URLs the validator does not accept before launching.
func WithValidator(v *validation.EndpointValidator) LauncherOption {
	return func(l *Launcher) { l.validator = v }
}

func WithRunner(run Runner) LauncherOption {
	return func(l *Launcher) { l.run = run }
}

func WithRegistry(r *PlayerRegistry) LauncherOption {
	return func(l *Launcher) { l.registry = r }
}

// WithLookPath replaces exec.LookPath when probing for installed players.
func WithLookPath(fn func(string) (string, error)) LauncherOption {
	return func(l *Launcher) { l.lookPath = fn }
}

func NewLauncher(cfg *config.MediaConfig, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		run:      startDetached,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.registry == nil {
		registry, err := NewPlayerRegistry(UserOverridePaths()...)
		if err != nil {
			debuglog.Warnf("player definitions unavailable: %v", err)
			registry = &PlayerRegistry{players: make(map[string]PlayerDefinition), goos: runtime.GOOS}
		}
		l.registry = registry
	}

	detector, err := NewTypeDetector()
	if err != nil {
		debuglog.Warnf("media type rules unavailable: %v", err)
		detector = &TypeDetector{config: &TypesConfig{}}
	}
	l.detector = detector

	l.defaultOpener = cfg.DefaultOpener
	if l.defaultOpener == "" {
		l.defaultOpener = detector.DefaultOpener()
	}

	players := platformPlayers(cfg, runtime.GOOS)
	l.videoPlayer = l.findCommand(players.Video...)
	l.imageViewer = l.findCommand(players.Image...)
	if l.videoPlayer == "" {
		l.videoPlayer = l.defaultOpener
	}
	if l.imageViewer == "" {
		l.imageViewer = l.defaultOpener
	}

	debuglog.WithFields(map[string]any{
		"video": l.videoPlayer,
		"image": l.imageViewer,
	}).Debugf("media launcher ready")
	return l
}

func platformPlayers(cfg *config.MediaConfig, goos string) config.MediaPlayers {
	switch goos {
	case "darwin":
		return cfg.Darwin
	case "windows":
		return cfg.Windows
	default:
		return cfg.Linux
	}
}

// VideoPlayer returns the program trailers are opened with.
func (l *Launcher) VideoPlayer() string {
	return l.videoPlayer
}

func (l *Launcher) ImageViewer() string {
	return l.imageViewer
}

// Open validates target, picks a program for its kind and starts it.
func (l *Launcher) Open(target string) error {
	if l.validator != nil {
		normalized, err := l.validator.ValidateAndNormalize(target)
		if err != nil {
			return fmt.Errorf("refusing to open %q: %w", target, err)
		}
		target = normalized
	}

	kind := l.detector.DetectKind(target)
	player := l.playerFor(kind)
	if player == "" {
		return ErrNoPlayer
	}

	cmd, err := l.registry.Command(player, kind, target)
	if err != nil {
		// the chosen player has no rule for this kind; let the system decide
		debuglog.Debugf("%v, falling back to %s", err, l.defaultOpener)
		player = l.defaultOpener
		if player == "" {
			return ErrNoPlayer
		}
		cmd = exec.Command(player, target)
	}

	debuglog.WithFields(map[string]any{"player": player, "kind": kind}).Infof("opening %s", target)
	if err := l.run(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", player, err)
	}
	return nil
}

func (l *Launcher) playerFor(kind Kind) string {
	switch kind {
	case KindVideo:
		return l.videoPlayer
	case KindImage:
		return l.imageViewer
	default:
		if l.defaultOpener != "" {
			return l.defaultOpener
		}
		return l.detector.DefaultOpener()
	}
}

func (l *Launcher) findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := l.lookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
