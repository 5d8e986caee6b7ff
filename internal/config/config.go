// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON or YAML config file
// and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port" yaml:"port"`

	// Storage selects the key-value backend: memory, file, sqlite or postgres.
	Storage string `json:"storage" yaml:"storage"`

	// StoragePath is the file used by the file and sqlite backends.
	StoragePath string `json:"storage_path" yaml:"storage_path"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn" yaml:"database_dsn"`

	// LogLevel is the minimum level written by the logger.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Config is the path to the Config file.
	Config string `json:"-" yaml:"-"`
}

// Parse parses os.Args and the environment. Configuration errors are fatal.
func Parse() *Options {
	opts, err := ParseArgs(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return opts
}

// ParseArgs builds Options from args and getenv. Precedence, lowest first:
// flag defaults, config file, explicitly set flags, environment variables.
func ParseArgs(args []string, getenv func(string) string) (*Options, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("shopkeeper", flag.ContinueOnError)
	fs.StringVar(&opts.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&opts.Storage, "s", StorageFile, "storage backend: memory | file | sqlite | postgres")
	fs.StringVar(&opts.StoragePath, "p", "shopkeeper.json", "storage file for the file and sqlite backends")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&opts.LogLevel, "l", "info", "log level")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			// Flags given on the command line beat the file, so capture them
			// before the file overwrites the shared variables.
			explicit := map[string]string{}
			fs.Visit(func(f *flag.Flag) {
				explicit[f.Name] = f.Value.String()
			})
			if err := loadFile(opts.Config, opts); err != nil {
				return nil, err
			}
			for name, value := range explicit {
				if err := fs.Set(name, value); err != nil {
					return nil, err
				}
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		opts.Port = serverAddress
	}
	if storage := getenv("STORAGE"); storage != "" {
		opts.Storage = storage
	}
	if path := getenv("STORAGE_PATH"); path != "" {
		opts.StoragePath = path
	}
	if dsn := getenv("DATABASE_DSN"); dsn != "" {
		opts.DatabaseDSN = dsn
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		opts.LogLevel = level
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func loadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, opts)
	default:
		err = json.Unmarshal(data, opts)
	}
	if err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func (o *Options) validate() error {
	switch o.Storage {
	case StorageMemory, StorageFile, StorageSQLite:
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return fmt.Errorf("storage %q requires a database DSN", o.Storage)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}
	return nil
}
