package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains session-level configuration
type GameSettings struct {
	MinPlayers       int    `hcl:"min_players,optional"`
	MaxPlayers       int    `hcl:"max_players,optional"`
	CountdownSeconds int    `hcl:"countdown_seconds,optional"`
	Seed             *int64 `hcl:"seed,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			MinPlayers:       2,
			MaxPlayers:       5,
			CountdownSeconds: 15,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = 2
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = 5
	}
	if config.Game.CountdownSeconds == 0 {
		config.Game.CountdownSeconds = 15
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min players must be at least 2, got %d", c.Game.MinPlayers)
	}
	if c.Game.MaxPlayers > 5 {
		return fmt.Errorf("max players must be at most 5, got %d", c.Game.MaxPlayers)
	}
	if c.Game.MinPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("min players %d exceeds max players %d", c.Game.MinPlayers, c.Game.MaxPlayers)
	}
	if c.Game.CountdownSeconds < 1 {
		return fmt.Errorf("countdown seconds must be positive, got %d", c.Game.CountdownSeconds)
	}
	return nil
}

// ListenAddress returns the full listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
