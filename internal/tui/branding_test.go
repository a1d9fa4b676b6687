package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/flix/internal/config"
)

func TestBanner(t *testing.T) {
	out := Banner("1.0.0-test")

	if !strings.Contains(out, "Movies in your terminal") {
		t.Errorf("Expected banner to contain tagline, got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}

	if dev := Banner("dev"); strings.Contains(dev, "vdev") {
		t.Errorf("dev builds should not carry a version tag, got: %s", dev)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "█████") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 5 {
		t.Errorf("Expected 5 logo lines, got %d", len(LogoLines))
	}
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(config.TestConfig().UI.Colors)

	ApplyTheme(config.UIColors{Primary: "#123456"})
	if PrimaryColor != lipgloss.Color("#123456") {
		t.Errorf("Expected primary colour to change, got %v", PrimaryColor)
	}
	if TextColor == "" {
		t.Error("Expected empty entries to keep the existing colour")
	}
}
