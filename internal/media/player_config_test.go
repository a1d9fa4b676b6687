package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlayerRegistry(t *testing.T) {
	registry, err := NewPlayerRegistry()
	require.NoError(t, err)

	for _, name := range []string{"mpv", "vlc", "iina", "open", "xdg-open", "feh", "start"} {
		_, ok := registry.Definition(name)
		assert.True(t, ok, "expected built-in definition for %s", name)
	}
}

func TestPlayerRegistry_Args(t *testing.T) {
	registry := &PlayerRegistry{
		goos: "linux",
		players: map[string]PlayerDefinition{
			"mpv": {
				Platforms: []string{"linux", "darwin"},
				Video:     &KindConfig{Args: []string{"--generic"}, ArgsLinux: []string{"--linux"}},
				Image:     &KindConfig{Args: []string{"--keep-open=yes"}},
			},
			"iina": {
				Platforms: []string{"darwin"},
				Video:     &KindConfig{Args: []string{"--no-stdin"}},
			},
			"vlc": {
				Platforms: []string{"linux"},
				Video:     &KindConfig{Args: []string{"--play-and-exit"}},
			},
		},
	}

	tests := []struct {
		name    string
		player  string
		kind    Kind
		want    []string
		wantErr bool
	}{
		{name: "platform args win", player: "mpv", kind: KindVideo, want: []string{"--linux"}},
		{name: "generic args", player: "mpv", kind: KindImage, want: []string{"--keep-open=yes"}},
		{name: "wrong platform", player: "iina", kind: KindVideo, wantErr: true},
		{name: "unsupported kind", player: "vlc", kind: KindImage, wantErr: true},
		{name: "unknown player", player: "myplayer", kind: KindVideo, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Args(tt.player, tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, registry.Supports(tt.player, tt.kind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayerRegistry_Command(t *testing.T) {
	registry := &PlayerRegistry{
		goos: "linux",
		players: map[string]PlayerDefinition{
			"mpv": {Platforms: []string{"linux"}, Video: &KindConfig{Args: []string{"--fs"}}},
		},
	}

	cmd, err := registry.Command("mpv", KindVideo, "https://www.youtube.com/watch?v=x")
	require.NoError(t, err)
	assert.Equal(t, []string{"mpv", "--fs", "https://www.youtube.com/watch?v=x"}, cmd.Args)

	cmd, err = registry.Command("custom", KindVideo, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"custom", "u"}, cmd.Args)
}

func TestPlayerRegistry_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "players.toml")
	override := `
[players.mpv]
description = "tuned mpv"
platforms = ["darwin", "linux", "windows"]
[players.mpv.video]
args = ["--fs"]
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o600))

	registry, err := NewPlayerRegistry(path, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	def, ok := registry.Definition("mpv")
	require.True(t, ok)
	assert.Equal(t, "tuned mpv", def.Description)
	assert.Equal(t, []string{"--fs"}, def.Video.Args)
	assert.Nil(t, def.Image)

	_, ok = registry.Definition("vlc")
	assert.True(t, ok, "built-ins survive overrides")
}

func TestPlayerRegistry_BadOverrideIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))

	registry, err := NewPlayerRegistry(path)
	require.NoError(t, err)
	_, ok := registry.Definition("mpv")
	assert.True(t, ok)
}
