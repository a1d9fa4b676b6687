package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// EndpointValidator checks absolute http(s) URLs such as the catalog API
// base or a resolved trailer link before it is handed to an external player.
type EndpointValidator struct {
	AllowLocalhost  bool
	AllowPrivateIPs bool
	// AllowedHosts, when non-empty, restricts URLs to these hosts and
	// their subdomains.
	AllowedHosts []string
	MaxLength    int
}

// NewEndpointValidator accepts local and private hosts so a configured
// proxy or test server can stand in for the catalog.
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// NewPlaybackURLValidator only lets through public https/http links on the
// given hosts.
func NewPlaybackURLValidator(hosts ...string) *EndpointValidator {
	return &EndpointValidator{
		AllowedHosts: hosts,
		MaxLength:    2048,
	}
}

// ValidateAndNormalize returns the URL without a trailing slash on the path.
func (v *EndpointValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if parsed.User != nil {
		return "", fmt.Errorf("URL must not carry credentials")
	}
	if strings.Contains(parsed.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	if err := v.validateHost(parsed.Hostname()); err != nil {
		return "", err
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}

func (v *EndpointValidator) validateHost(hostname string) error {
	hostname = strings.ToLower(hostname)

	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}
	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}
	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return fmt.Errorf("suspicious hostname detected")
	}

	if len(v.AllowedHosts) == 0 {
		return nil
	}
	for _, allowed := range v.AllowedHosts {
		allowed = strings.ToLower(allowed)
		if hostname == allowed || strings.HasSuffix(hostname, "."+allowed) {
			return nil
		}
	}
	return fmt.Errorf("host %s is not an allowed playback host", hostname)
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		hostname == "::1" ||
		strings.HasSuffix(hostname, ".localhost") ||
		strings.HasPrefix(hostname, "127.")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}
