package media

import (
	_ "embed"
	"net/url"
	"path"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

// Kind is the broad class of media a URL points at.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

type TypeConfig struct {
	Extensions  []string `toml:"extensions"`
	URLPatterns []string `toml:"url_patterns"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Image     TypeConfig                `toml:"image"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if _, err := toml.Decode(string(mediaTypesTOML), &config); err != nil {
		return nil, err
	}
	return &TypeDetector{config: &config}, nil
}

// DetectKind classifies rawURL by file extension first, then by host pattern.
func (d *TypeDetector) DetectKind(rawURL string) Kind {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if lower == "" {
		return KindUnknown
	}

	if ext := extension(lower); ext != "" {
		if contains(d.config.Video.Extensions, ext) {
			return KindVideo
		}
		if contains(d.config.Image.Extensions, ext) {
			return KindImage
		}
	}

	if matchesAny(lower, d.config.Video.URLPatterns) {
		return KindVideo
	}
	if matchesAny(lower, d.config.Image.URLPatterns) {
		return KindImage
	}
	return KindUnknown
}

// DefaultOpener returns the platform's generic "open this" command.
func (d *TypeDetector) DefaultOpener() string {
	if p, ok := d.config.Platforms[runtime.GOOS]; ok && p.DefaultOpener != "" {
		return p.DefaultOpener
	}
	return "xdg-open"
}

func extension(lower string) string {
	p := lower
	if u, err := url.Parse(lower); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(p)
	return strings.TrimPrefix(ext, ".")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(s, pattern) {
			return true
		}
	}
	return false
}
