// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for wrapterm configuration and data.

package config

import (
	"os"
	"path/filepath"
)

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "wrapterm"), nil
}

func settingsPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, configName), nil
}

// HistoryPath returns the location of the command history database,
// creating the parent directory if needed.
func HistoryPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", err
	}
	return filepath.Join(root, "history.db"), nil
}
