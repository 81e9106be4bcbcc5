package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/fid-judaica/picaparse/pica"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if cfg.Sep() != pica.DefaultSeparator {
		t.Errorf("Sep = %q, want %q", cfg.Sep(), pica.DefaultSeparator)
	}
	if cfg.Identifier.Prefix != "SET:" || cfg.Identifier.Token != 6 {
		t.Errorf("Identifier = %+v, want SET:/6", cfg.Identifier)
	}
	if !slices.Equal(cfg.Fields, DefaultFields) {
		t.Error("Fields does not match DefaultFields")
	}

	// Reordering the copy must not touch the package default.
	cfg.Fields[0], cfg.Fields[1] = cfg.Fields[1], cfg.Fields[0]
	if DefaultFields[0] != "PPN" {
		t.Error("Default aliases DefaultFields")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "picaparse.toml", `
separator = "$"
fields = ["021A", "045F"]

[identifier]
prefix = "REC:"
token = 1

[database]
path = "catalog.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Sep() != '$' {
		t.Errorf("Sep = %q, want '$'", cfg.Sep())
	}
	if cfg.Identifier.Prefix != "REC:" || cfg.Identifier.Token != 1 {
		t.Errorf("Identifier = %+v, want REC:/1", cfg.Identifier)
	}
	if !slices.Equal(cfg.Fields, []string{"021A", "045F"}) {
		t.Errorf("Fields = %v", cfg.Fields)
	}
	if cfg.Database.Path != "catalog.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	// Omitted keys keep their defaults.
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "picaparse.yaml", `
separator: "$"
identifier:
  prefix: "REC:"
  token: 1
server:
  addr: ":9090"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Sep() != '$' {
		t.Errorf("Sep = %q, want '$'", cfg.Sep())
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Database.Path != "pica.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "picaparse.ini", "separator = $\n")
	if _, err := Load(path); err == nil {
		t.Error("Load accepted .ini config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "empty separator", mutate: func(c *Config) { c.Separator = "" }, ok: false},
		{name: "two rune separator", mutate: func(c *Config) { c.Separator = "ƒƒ" }, ok: false},
		{name: "multibyte separator", mutate: func(c *Config) { c.Separator = "ƒ" }, ok: true},
		{name: "negative token", mutate: func(c *Config) { c.Identifier.Token = -1 }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate = nil, want error")
			}
		})
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	path := writeConfig(t, "picaparse.toml", `
separator = "$"

[identifier]
prefix = "REC:"
token = 1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	lines := []string{
		"REC: 004526808",
		"021A $aDie Wissenschaft des Judentums",
	}
	var titles []string
	for rec, err := range pica.Records(slices.Values(lines), cfg.Options()...) {
		if err != nil {
			t.Fatalf("Records error: %v", err)
		}
		title, err := rec.Value("021A", 'a')
		if err != nil {
			t.Fatalf("Value error: %v", err)
		}
		titles = append(titles, rec.PPN()+" "+title)
	}
	want := []string{"004526808 Die Wissenschaft des Judentums"}
	if !slices.Equal(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load accepted a missing file")
	} else if !strings.Contains(err.Error(), "read config") {
		t.Errorf("error = %v, want read config wrap", err)
	}
}
