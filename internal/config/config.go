// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads and persists the client configuration. Settings are
// resolved with viper in the usual precedence order: command-line flags,
// environment variables (KODA_*), the koda.yaml config file, and finally
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds all client settings.
type Config struct {
	API      APIConfig     `mapstructure:"api" yaml:"api"`
	Language string        `mapstructure:"language" yaml:"language"`
	Session  SessionConfig `mapstructure:"session" yaml:"session"`
	Debug    bool          `mapstructure:"debug" yaml:"debug"`
}

// APIConfig describes how to reach the Shortlink backend.
type APIConfig struct {
	URL      string `mapstructure:"url" yaml:"url"`
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
}

// SessionConfig describes where the session token file lives.
type SessionConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Defaults returns the default settings map applied before any other
// configuration source.
func Defaults() map[string]any {
	return map[string]any{
		"api.url":       "http://localhost:8082",
		"api.base_path": "/api/v1",
		"language":      "en",
		"session.path":  "",
		"debug":         false,
	}
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Koda")
		default: // Linux, macOS, etc.
			configDir = "/etc/koda"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "koda")
	}

	return filepath.Join(configDir, "koda.yaml"), nil
}

// DefaultSessionPath returns where the session token file is stored when the
// user has not configured an explicit location.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "koda", "session.yaml"), nil
}

// Load resolves the configuration for the given command. An explicit config
// file path (from the --config flag) takes precedence over the standard
// search locations. binds maps config keys to flag names whose spelling
// differs from the key (e.g. "api.url" -> "api-url").
func Load[T any](cmd *cobra.Command, defaults map[string]any, explicitFile *string, binds map[string]string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("koda")
	v.SetConfigType("yaml")

	if explicitFile != nil && *explicitFile != "" {
		v.SetConfigFile(*explicitFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("koda")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
		for key, flagName := range binds {
			if f := cmd.Flags().Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return c, err
				}
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteFile persists the configuration to the user (or system) config path.
func WriteFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600 because the file may sit next to the session token file.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}
