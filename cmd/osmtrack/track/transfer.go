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

package track

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"m4o.io/osmtrack"
	"m4o.io/osmtrack/cmd/osmtrack/cli"
	"m4o.io/osmtrack/internal/encoder"
)

var compression encoder.Compression

func init() {
	cli.RootCmd.AddCommand(exportCmd, importCmd)

	flags := exportCmd.Flags()
	flags.VarP(cli.NewCompressionValue(osmtrack.DefaultCompression, &compression), "compression", "z",
		"compression of the export: raw, gzip, lz4, zstd or xz")
	flags.StringP("output", "o", "", "write the export to a file, or stdout for -, instead of the track directory")
	flags.Bool("no-media", false, "leave out media links for strict OSM consumers")

	flags = importCmd.Flags()
	flags.StringP("name", "n", "", "name of the new track (default the file name)")
	flags.StringP("comment", "c", "", "comment of the new track")
	flags.Bool("no-media", false, "ignore media links")
	flags.BoolP("quiet", "q", false, "do not show progress")
}

var exportCmd = &cobra.Command{
	Use:   "export <track>",
	Short: "Export a track as OSM XML",
	Long:  "Export a track as OSM XML, by default into the track directory where it replaces any previous export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, cfg, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		t, err := lib.OpenTrack(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		noMedia, _ := flags.GetBool("no-media")
		output, _ := flags.GetString("output")

		opts := []osmtrack.EncoderOption{
			osmtrack.WithCompression(compression),
			osmtrack.WithGenerator(cfg.Generator),
			osmtrack.WithMedia(!noMedia),
		}

		if output == "" {
			path, err := osmtrack.Export(t, opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, path)

			return nil
		}

		if output == "-" {
			return osmtrack.Encode(out, t, opts...)
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}

		if err := osmtrack.Encode(f, t, opts...); err != nil {
			f.Close()
			os.Remove(output)

			return err
		}

		return f.Close()
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import an OSM XML document as a new track",
	Long:  "Import an OSM XML document, plain or compressed, as a new track; - reads stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		comment, _ := flags.GetString("comment")
		noMedia, _ := flags.GetBool("no-media")
		quiet, _ := flags.GetBool("quiet")

		if name == "" {
			name = trackName(args[0])
		}

		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		in, err := cli.OpenInput(args[0], quiet)
		if err != nil {
			return err
		}

		t, err := osmtrack.Import(cmd.Context(), lib, name, in,
			osmtrack.WithComment(comment),
			osmtrack.WithMediaLinks(!noMedia))

		if cerr := in.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			return err
		}

		fmt.Fprintln(out, t.Name())

		return nil
	},
}

// trackName derives a track name from the path of an imported document by
// dropping its directory and its OSM and compression extensions. Stdin
// yields the empty name, which is replaced by one derived from the time.
func trackName(path string) string {
	if path == "-" {
		return ""
	}

	name := filepath.Base(path)

	for _, c := range encoder.Compressions {
		if trimmed, ok := strings.CutSuffix(name, c.Extension()); ok {
			return trimmed
		}
	}

	return strings.TrimSuffix(name, filepath.Ext(name))
}
