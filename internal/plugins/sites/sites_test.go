package sites

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flix/internal/plugins"
)

func TestYouTubePlugin(t *testing.T) {
	p := NewYouTubePlugin()

	assert.Equal(t, "youtube", p.Name())
	assert.Equal(t, 50, p.Priority())
	assert.True(t, p.CanHandle("YouTube"))
	assert.True(t, p.CanHandle("youtube"))
	assert.False(t, p.CanHandle("Vimeo"))

	info, err := p.Resolve(context.Background(), plugins.Video{Key: "dQw4w9WgXcQ", Name: "Official Trailer", Type: "Trailer"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", info.URL)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", info.EmbedURL)
	assert.Equal(t, "Official Trailer", info.Title)
	assert.Equal(t, "Trailer", info.Metadata["type"])
}

func TestVimeoPlugin(t *testing.T) {
	p := NewVimeoPlugin()

	assert.True(t, p.CanHandle("Vimeo"))
	assert.False(t, p.CanHandle("YouTube"))

	info, err := p.Resolve(context.Background(), plugins.Video{Site: "Vimeo", Key: "76979871"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://vimeo.com/76979871", info.URL)
	assert.Equal(t, "https://player.vimeo.com/video/76979871", info.EmbedURL)
}

func TestRegisterDefaults(t *testing.T) {
	registry := plugins.NewRegistry(5 * time.Second)
	RegisterDefaults(registry)

	assert.Len(t, registry.ListPlugins(), 2)
	assert.ElementsMatch(t, []string{"youtube.com", "youtu.be", "vimeo.com"}, registry.Hosts())

	info, err := registry.Resolve(context.Background(), plugins.Video{Site: "", Key: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", info.URL)

	info, err = registry.Resolve(context.Background(), plugins.Video{Site: "Vimeo", Key: "42"})
	require.NoError(t, err)
	assert.Equal(t, "https://vimeo.com/42", info.URL)
}
