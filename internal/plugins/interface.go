package plugins

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultSite is assumed for videos whose site is blank.
const DefaultSite = "YouTube"

var ErrUnsupportedSite = errors.New("no plugin can play videos from this site")

// Video identifies a trailer as the catalog reports it.
type Video struct {
	Site string
	Key  string
	Name string
	Type string
}

// PlaybackInfo is what a plugin resolves a video into.
type PlaybackInfo struct {
	// Watch page for an external player or browser
	URL string
	// Embeddable player URL
	EmbedURL string
	Title    string
	Site     string
	Metadata map[string]string
}

// Plugin turns a video key from one hosting site into playable URLs.
type Plugin interface {
	Name() string

	// CanHandle reports whether the plugin serves the catalog's site name
	CanHandle(site string) bool

	// Resolve may use client for metadata lookups
	Resolve(ctx context.Context, video Video, client *http.Client) (*PlaybackInfo, error)

	// Hosts lists the domains resolved URLs point at
	Hosts() []string

	// Priority breaks ties when several plugins handle the same site
	Priority() int
}

// Registry manages all registered plugins
type Registry struct {
	plugins []Plugin
	client  *http.Client
}

func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		plugins: make([]Plugin, 0),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Registry) Register(plugin Plugin) {
	r.plugins = append(r.plugins, plugin)
}

// FindPlugin returns the highest-priority plugin for site, or nil.
func (r *Registry) FindPlugin(site string) Plugin {
	site = normalizeSite(site)

	var bestPlugin Plugin
	highestPriority := -1

	for _, plugin := range r.plugins {
		if plugin.CanHandle(site) && plugin.Priority() > highestPriority {
			bestPlugin = plugin
			highestPriority = plugin.Priority()
		}
	}

	return bestPlugin
}

// Resolve finds the plugin for the video's site and resolves it.
func (r *Registry) Resolve(ctx context.Context, video Video) (*PlaybackInfo, error) {
	if strings.TrimSpace(video.Key) == "" {
		return nil, fmt.Errorf("video has no key")
	}
	video.Site = normalizeSite(video.Site)

	plugin := r.FindPlugin(video.Site)
	if plugin == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSite, video.Site)
	}
	return plugin.Resolve(ctx, video, r.client)
}

// Hosts returns every playback domain of the registered plugins.
func (r *Registry) Hosts() []string {
	var hosts []string
	for _, plugin := range r.plugins {
		hosts = append(hosts, plugin.Hosts()...)
	}
	return hosts
}

// ListPlugins returns all registered plugins
func (r *Registry) ListPlugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}

func normalizeSite(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return DefaultSite
	}
	return site
}
