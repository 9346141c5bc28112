package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// FaviconCachePath returns the deterministic cache path for a host's
// favicon: lowercased hostname with ':' replaced by '_', extension .ico.
func FaviconCachePath(dir, host string) string {
	name := strings.ToLower(host)
	name = strings.ReplaceAll(name, ":", "_")
	return filepath.Join(dir, name+".ico")
}

// DefaultFaviconDir returns the default cache dir: ~/.config/wb/favicons
func DefaultFaviconDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "wb", "favicons"), nil
}
