// Copyright (c) 2025 Koda Labs
// Koda - terminal client for the Koda Shortlink service
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// isolate redirects the user config dir into a temp dir so tests never read
// a real koda.yaml.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)
	return tmp
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load[Config](&cobra.Command{}, Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.API.URL != "http://localhost:8082" {
		t.Errorf("api url = %q", c.API.URL)
	}
	if c.API.BasePath != "/api/v1" {
		t.Errorf("api base path = %q", c.API.BasePath)
	}
	if c.Language != "en" {
		t.Errorf("language = %q", c.Language)
	}
	if c.Debug {
		t.Error("debug defaulted to true")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("KODA_API_URL", "https://env.example")
	t.Setenv("KODA_LANGUAGE", "de")

	c, err := Load[Config](&cobra.Command{}, Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.API.URL != "https://env.example" {
		t.Errorf("api url = %q, want env value", c.API.URL)
	}
	if c.Language != "de" {
		t.Errorf("language = %q, want de", c.Language)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	tmp := isolate(t)

	path := filepath.Join(tmp, "custom.yaml")
	content := "api:\n  url: https://file.example\nlanguage: de\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	c, err := Load[Config](&cobra.Command{}, Defaults(), &path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.API.URL != "https://file.example" {
		t.Errorf("api url = %q, want file value", c.API.URL)
	}
	if c.API.BasePath != "/api/v1" {
		t.Errorf("base path = %q, defaults must still fill unset keys", c.API.BasePath)
	}
}

func TestLoadFlagBinds(t *testing.T) {
	isolate(t)

	cmd := &cobra.Command{}
	cmd.Flags().String("api-url", "", "")
	if err := cmd.Flags().Set("api-url", "https://flag.example"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	c, err := Load[Config](cmd, Defaults(), nil, map[string]string{"api.url": "api-url"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.API.URL != "https://flag.example" {
		t.Errorf("api url = %q, want flag value", c.API.URL)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	isolate(t)

	c := Config{Language: "de"}
	c.API.URL = "https://written.example"
	c.API.BasePath = "/api/v1"

	if err := WriteFile(&c, false); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load[Config](&cobra.Command{}, Defaults(), nil, nil)
	if err != nil {
		t.Fatalf("Load after write failed: %v", err)
	}
	if loaded.API.URL != "https://written.example" || loaded.Language != "de" {
		t.Errorf("round trip got url=%q language=%q", loaded.API.URL, loaded.Language)
	}
}

func TestDefaultSessionPath(t *testing.T) {
	isolate(t)

	p, err := DefaultSessionPath()
	if err != nil {
		t.Fatalf("DefaultSessionPath failed: %v", err)
	}
	if filepath.Base(p) != "session.yaml" {
		t.Errorf("session path = %q", p)
	}
}
