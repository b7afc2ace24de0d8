// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Built-in defaults for wrapterm settings.

package config

// RegisterDefaults ensures a section has defaults without overwriting
// existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section)
		if sectionName == "" {
			for k, v := range defaults {
				if _, ok := c[k]; !ok {
					c[k] = v
				}
			}
			return
		}
		c[sectionName] = section
	}

	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func applyDefaults(cfg Config) {
	cfg.RegisterDefaults("terminal", Section{
		"scrollback_lines": 5000,
		"true_color":       true,
		"root_method":      "sudo",
	})
	cfg.RegisterDefaults("history", Section{
		"enabled": true,
		"limit":   20,
	})
}
