package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Plinius pricing CLI configuration
# All figures are indicative.

[storage]
# Backend for saved scenarios: "sqlite" or "memory" (nothing survives the process)
driver = "sqlite"
# SQLite database file; defaults to plinius.db next to this file
# path = "/home/me/.config/plinius/plinius.db"
# Key the scenario collection is stored under
key = "plinius.scenarios"

[scenarios]
# Colors assigned to saved scenarios in insertion order, cycled
palette = ["#2563eb", "#dc2626", "#16a34a", "#d97706", "#7c3aed", "#0891b2", "#db2777", "#4b5563"]

[persistence]
# Attempts before a failed scenario write is logged and dropped
max_attempts = 3
initial_delay = "50ms"
max_delay = "2s"
# Consecutive failed writes before persistence pauses (0 disables)
breaker_threshold = 3
breaker_cooldown = "30s"

[logging]
# debug, info, warn, error
level = "warn"
console = true
file = true
max_size = 20
max_backups = 5
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Decimals shown for prices and risk figures
decimals = 4
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
