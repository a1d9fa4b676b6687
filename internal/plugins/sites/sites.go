// Package sites holds the trailer plugins for the video hosts the catalog
// links to.
package sites

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/flix/internal/plugins"
)

// RegisterDefaults adds every built-in site plugin to r.
func RegisterDefaults(r *plugins.Registry) {
	r.Register(NewYouTubePlugin())
	r.Register(NewVimeoPlugin())
}

// YouTubePlugin resolves YouTube video keys.
type YouTubePlugin struct{}

func NewYouTubePlugin() *YouTubePlugin {
	return &YouTubePlugin{}
}

func (p *YouTubePlugin) Name() string {
	return "youtube"
}

func (p *YouTubePlugin) CanHandle(site string) bool {
	return strings.EqualFold(site, "YouTube")
}

func (p *YouTubePlugin) Hosts() []string {
	return []string{"youtube.com", "youtu.be"}
}

func (p *YouTubePlugin) Priority() int {
	return 50
}

func (p *YouTubePlugin) Resolve(_ context.Context, video plugins.Video, _ *http.Client) (*plugins.PlaybackInfo, error) {
	key := url.QueryEscape(video.Key)
	return &plugins.PlaybackInfo{
		URL:      "https://www.youtube.com/watch?v=" + key,
		EmbedURL: "https://www.youtube.com/embed/" + url.PathEscape(video.Key),
		Title:    video.Name,
		Site:     "YouTube",
		Metadata: map[string]string{
			"key":  video.Key,
			"type": video.Type,
		},
	}, nil
}

// VimeoPlugin resolves Vimeo video ids.
type VimeoPlugin struct{}

func NewVimeoPlugin() *VimeoPlugin {
	return &VimeoPlugin{}
}

func (p *VimeoPlugin) Name() string {
	return "vimeo"
}

func (p *VimeoPlugin) CanHandle(site string) bool {
	return strings.EqualFold(site, "Vimeo")
}

func (p *VimeoPlugin) Hosts() []string {
	return []string{"vimeo.com"}
}

func (p *VimeoPlugin) Priority() int {
	return 50
}

func (p *VimeoPlugin) Resolve(_ context.Context, video plugins.Video, _ *http.Client) (*plugins.PlaybackInfo, error) {
	id := url.PathEscape(video.Key)
	return &plugins.PlaybackInfo{
		URL:      "https://vimeo.com/" + id,
		EmbedURL: "https://player.vimeo.com/video/" + id,
		Title:    video.Name,
		Site:     "Vimeo",
		Metadata: map[string]string{
			"key":  video.Key,
			"type": video.Type,
		},
	}, nil
}
