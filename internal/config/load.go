package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/leonardotrapani/arrival/internal/provider"
)

var ErrConfigNotFound = errors.New("config not found")

const header = `# Arrival configuration
# Written by "arrival configure". Edits are picked up while arrival runs;
# timing changes apply from the next screen.

`

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	arrivalDir := filepath.Join(configDir, "arrival")
	if err := os.MkdirAll(arrivalDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(arrivalDir, "config.toml"), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads the config at path. Keys missing from the file keep their
// default values.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: run arrival configure", ErrConfigNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	log.Printf("Config: loading configuration from %s", configPath)
	config := DefaultConfig()
	meta, err := toml.DecodeFile(configPath, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	for _, key := range meta.Undecoded() {
		log.Printf("Config: ignoring unknown key %s", key)
	}

	if config.Providers == nil {
		config.Providers = make(map[string]provider.ProviderConfig)
	}

	log.Printf("Config: configuration loaded successfully")
	return config, nil
}

func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(configPath, config)
}

// SaveTo writes config atomically. The file may hold API keys, so it is
// private to the user.
func SaveTo(configPath string, config *Config) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(configPath), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config content: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config content: %w", err)
	}
	if err := os.Rename(tmp.Name(), configPath); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	log.Printf("Config: configuration saved to %s", configPath)
	return nil
}
