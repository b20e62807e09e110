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

// Package cli holds the root command and the helpers shared by the
// osmtrack subcommands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmtrack/internal/config"
	"m4o.io/osmtrack/model"
)

// RootCmd is the osmtrack command. Subcommands register themselves with it
// from their package init.
var RootCmd = &cobra.Command{
	Use:          "osmtrack",
	Short:        "Record, edit and exchange tracks as OSM XML",
	Long:         "Record, edit and exchange tracks of POIs and ways, exported as OSM XML",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return nil
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "log debug information")
	flags.String("home", "", "library directory (default $"+config.EnvHome+" or ~/.local/share/osmtrack)")
	flags.String("store", "", "store backend, sqlite or memory (default $"+config.EnvStore+" or sqlite)")
	flags.String("generator", "", "generator written on export (default $"+config.EnvGenerator+" or osmtrack)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Config reads the configuration from the environment; flags set on the
// command line take precedence.
func Config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	for name, value := range map[string]*string{
		"home":      &cfg.Home,
		"store":     &cfg.Store,
		"generator": &cfg.Generator,
	} {
		if !flags.Changed(name) {
			continue
		}

		if *value, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	return cfg, cfg.Validate()
}

// OpenLibrary opens the configured library. The caller closes it.
func OpenLibrary(cmd *cobra.Command) (*model.Library, *config.Config, error) {
	cfg, err := Config(cmd)
	if err != nil {
		return nil, nil, err
	}

	lib, err := cfg.OpenLibrary(slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open library at %s: %w", cfg.Home, err)
	}

	return lib, cfg, nil
}
