// ABOUTME: Tests for JSON theme file loading and validation
// ABOUTME: Covers valid load, missing fields fallback, invalid JSON, and file not found

package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile_ValidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	data := `{
		"name": "custom",
		"palette": {
			"primary": "\u001b[97m",
			"muted": "\u001b[2m",
			"accent": "\u001b[1m",
			"warning": "\u001b[33m",
			"error": "\u001b[31m",
			"bold": "\u001b[1m",
			"underline": "\u001b[4m"
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if th.Name != "custom" {
		t.Errorf("Name = %q; want %q", th.Name, "custom")
	}
	if th.Palette.Warning.Code() != "\x1b[33m" {
		t.Errorf("Palette.Warning.Code() = %q; want %q", th.Palette.Warning.Code(), "\x1b[33m")
	}
}

func TestLoadFile_MissingFields_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "partial.json")
	data := `{
		"name": "partial",
		"palette": {
			"warning": "\u001b[33m"
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if th.Name != "partial" {
		t.Errorf("Name = %q; want %q", th.Name, "partial")
	}
	// Explicitly set field
	if th.Palette.Warning.Code() != "\x1b[33m" {
		t.Errorf("Warning = %q; want %q", th.Palette.Warning.Code(), "\x1b[33m")
	}
	// Unset field should fall back to default
	if th.Palette.Error.Code() == "" {
		t.Error("Error should fall back to default, got empty")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Error("LoadFile() should return error for invalid JSON")
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("/nonexistent/theme.json")
	if err == nil {
		t.Error("LoadFile() should return error for missing file")
	}
}
