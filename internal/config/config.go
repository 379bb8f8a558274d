// Package config handles loading and parsing application configuration.
//
// Every setting has a default and can be set through the environment
// (a local .env file is loaded first, if present). Optionally a YAML
// file can provide the values, named in priority order by:
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Environment variables always override the file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	// Side-effect import: loads a .env file into the process environment
	// before any variable is read.
	_ "github.com/joho/godotenv/autoload"
)

// DefaultPort is used when PORT is unset, non-numeric or out of range.
const DefaultPort = 3333

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// Port is kept as text so a malformed value falls back to DefaultPort
	// instead of failing startup. Read it through ListenPort.
	Port string `yaml:"port" env:"PORT" env-default:"3333"`

	// Storage selects the person store backend. Both are in-memory.
	Storage string `yaml:"storage" env:"STORAGE_DRIVER" env-default:"memory" validate:"oneof=memory sqlite"`

	// DisableDocs turns off the /api-docs endpoints.
	DisableDocs bool `yaml:"disable_docs" env:"DISABLE_DOCS"`
}

// ListenPort returns the configured port, or DefaultPort when the
// configured value is not a usable TCP port number.
func (c *Config) ListenPort() int {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return DefaultPort
	}
	return port
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.ListenPort())
}

// Load reads the configuration. args are the command-line arguments
// without the program name.
func Load(args []string) (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")

	flags := flag.NewFlagSet("people-api", flag.ContinueOnError)
	flagPath := flags.String("config", "", "Path to the configuration YAML file")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}
	if configPath == "" {
		configPath = *flagPath
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: file does not exist: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}

	return &cfg, nil
}

// MustLoad is Load for main: any failure ends the process, so if this
// returns, the config is valid.
func MustLoad() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}
