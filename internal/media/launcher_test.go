package media

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flix/internal/config"
	"github.com/pders01/flix/internal/validation"
)

type recordingRunner struct {
	cmds []*exec.Cmd
	err  error
}

func (r *recordingRunner) run(cmd *exec.Cmd) error {
	r.cmds = append(r.cmds, cmd)
	return r.err
}

func installed(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + n, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func testMediaConfig() *config.MediaConfig {
	players := config.MediaPlayers{
		Video: []string{"nonexistent", "custom-video"},
		Image: []string{"custom-image"},
	}
	return &config.MediaConfig{
		Darwin:        players,
		Linux:         players,
		Windows:       players,
		DefaultOpener: "fallback-open",
	}
}

func TestNewLauncher_PicksFirstInstalled(t *testing.T) {
	l := NewLauncher(testMediaConfig(), WithLookPath(installed("custom-video")))

	assert.Equal(t, "custom-video", l.VideoPlayer())
	assert.Equal(t, "fallback-open", l.ImageViewer(), "missing viewer falls back to the default opener")
}

func TestNewLauncher_DefaultOpenerFromPlatform(t *testing.T) {
	cfg := testMediaConfig()
	cfg.DefaultOpener = ""
	l := NewLauncher(cfg, WithLookPath(installed()))

	detector, err := NewTypeDetector()
	require.NoError(t, err)
	assert.Equal(t, detector.DefaultOpener(), l.VideoPlayer())
}

func TestLauncher_Open(t *testing.T) {
	runner := &recordingRunner{}
	l := NewLauncher(testMediaConfig(),
		WithLookPath(installed("custom-video", "custom-image")),
		WithRunner(runner.run),
	)

	require.NoError(t, l.Open("https://www.youtube.com/watch?v=abc"))
	require.NoError(t, l.Open("https://image.tmdb.org/t/p/w500/poster.jpg"))
	require.NoError(t, l.Open("https://example.com/page.html"))

	require.Len(t, runner.cmds, 3)
	assert.Equal(t, []string{"custom-video", "https://www.youtube.com/watch?v=abc"}, runner.cmds[0].Args)
	assert.Equal(t, []string{"custom-image", "https://image.tmdb.org/t/p/w500/poster.jpg"}, runner.cmds[1].Args)
	assert.Equal(t, "fallback-open", runner.cmds[2].Args[0])
}

func TestLauncher_OpenUsesRegistryArgs(t *testing.T) {
	runner := &recordingRunner{}
	registry := &PlayerRegistry{
		goos: runtime.GOOS,
		players: map[string]PlayerDefinition{
			"custom-video": {
				Platforms: []string{runtime.GOOS},
				Video:     &KindConfig{Args: []string{"--fs"}},
			},
			"custom-image": {
				Platforms: []string{runtime.GOOS},
			},
		},
	}
	l := NewLauncher(testMediaConfig(),
		WithLookPath(installed("custom-video", "custom-image")),
		WithRegistry(registry),
		WithRunner(runner.run),
	)

	require.NoError(t, l.Open("https://vimeo.com/42"))
	assert.Equal(t, []string{"custom-video", "--fs", "https://vimeo.com/42"}, runner.cmds[0].Args)

	// no image rule for custom-image, so the default opener takes over
	require.NoError(t, l.Open("https://example.com/a.png"))
	assert.Equal(t, []string{"fallback-open", "https://example.com/a.png"}, runner.cmds[1].Args)
}

func TestLauncher_OpenValidates(t *testing.T) {
	runner := &recordingRunner{}
	l := NewLauncher(testMediaConfig(),
		WithLookPath(installed("custom-video")),
		WithRunner(runner.run),
		WithValidator(validation.NewPlaybackURLValidator("youtube.com", "vimeo.com")),
	)

	require.NoError(t, l.Open("https://www.youtube.com/watch?v=abc"))
	assert.Error(t, l.Open("https://evil.example.com/watch?v=abc"))
	assert.Error(t, l.Open("file:///etc/passwd"))
	assert.Len(t, runner.cmds, 1)
}

func TestLauncher_OpenStartFailure(t *testing.T) {
	runner := &recordingRunner{err: errors.New("boom")}
	l := NewLauncher(testMediaConfig(),
		WithLookPath(installed("custom-video")),
		WithRunner(runner.run),
	)

	err := l.Open("https://youtu.be/abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom-video")
}
