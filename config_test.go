package main

import (
	"testing"
)

func validConfig() Config {
	return Config{
		port:           8080,
		stateFile:      "gameState.json",
		maxMessageSize: 4096,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 70000 }, true},
		{"blank state file", func(c *Config) { c.stateFile = "  " }, true},
		{"zero message size", func(c *Config) { c.maxMessageSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("HOLIDAYBOX_PORT", "9191")
	t.Setenv("HOLIDAYBOX_ROW_PRIZE", "Mug")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if cfg.port != 9191 {
		t.Errorf("port = %d, want 9191", cfg.port)
	}
	if cfg.rowPrize != "Mug" {
		t.Errorf("row prize = %q", cfg.rowPrize)
	}
	if cfg.xPrize != "Headphone" || cfg.stateFile != "gameState.json" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cmd.Version != releaseVersion {
		t.Errorf("version = %q", cmd.Version)
	}
}
