// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads the settings of the osmtrack command from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"m4o.io/osmtrack/model"
	"m4o.io/osmtrack/store"
)

// Environment variables.
const (
	EnvHome      = "OSMTRACK_HOME"
	EnvStore     = "OSMTRACK_STORE"
	EnvGenerator = "OSMTRACK_GENERATOR"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// DatabaseFile is the name of the SQLite database kept in the library
// root. Track names cannot start with a dot, so it never clashes with a
// track directory.
const DatabaseFile = ".osmtrack.db"

// ErrUnknownStore is returned for a store backend other than sqlite or
// memory.
var ErrUnknownStore = errors.New("unknown store")

// Config holds the settings of a library.
type Config struct {
	Home      string
	Store     string
	Generator string
}

// Load reads the configuration from the environment, falling back to the
// defaults for unset variables.
func Load() (*Config, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate home directory: %w", err)
		}

		home = filepath.Join(dir, ".local", "share", "osmtrack")
	}

	backend := strings.ToLower(os.Getenv(EnvStore))
	if backend == "" {
		backend = StoreSQLite
	}

	generator := os.Getenv(EnvGenerator)
	if generator == "" {
		generator = model.DefaultGenerator
	}

	cfg := &Config{
		Home:      home,
		Store:     backend,
		Generator: generator,
	}

	return cfg, cfg.Validate()
}

// Validate checks the store backend.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store)
	}
}

// OpenLibrary opens the library at c.Home with the configured store.
func (c *Config) OpenLibrary(logger *slog.Logger) (*model.Library, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var s store.Store = store.NewMemory()

	if c.Store == StoreSQLite {
		db, err := store.OpenSQLite(filepath.Join(c.Home, DatabaseFile))
		if err != nil {
			return nil, err
		}

		s = db
	}

	lib, err := model.OpenLibrary(c.Home, model.WithStore(s), model.WithLogger(logger))
	if err != nil {
		s.Close()

		return nil, err
	}

	return lib, nil
}
