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

package info

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmtrack"
	"m4o.io/osmtrack/cmd/osmtrack/cli"
	"m4o.io/osmtrack/model"
)

var out io.Writer = os.Stdout

type trackInfo struct {
	model.Summary

	Export     string `json:",omitempty"`
	ExportSize int64  `json:",omitempty"`
}

func init() {
	cli.RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
}

var infoCmd = &cobra.Command{
	Use:   "info <track>",
	Short: "Print information about a track",
	Long:  "Print information about a track: its counts, length, bounds and export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		info, err := runInfo(lib, args[0])
		if err != nil {
			return err
		}

		jsonfmt, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}

		if jsonfmt {
			return renderJSON(info)
		}

		renderTxt(info)

		return nil
	},
}

func runInfo(lib *model.Library, name string) (*trackInfo, error) {
	t, err := lib.OpenTrack(name)
	if err != nil {
		return nil, err
	}

	s, err := t.Summary()
	if err != nil {
		return nil, err
	}

	info := &trackInfo{Summary: s}

	if path, err := osmtrack.FindExport(t.Dir(), name); err == nil {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		info.Export = path
		info.ExportSize = fi.Size()
	}

	return info, nil
}

func renderJSON(info *trackInfo) error {
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(b))

	return err
}

func renderTxt(info *trackInfo) {
	fmt.Fprintf(out, "Name: %s\n", info.Name)
	fmt.Fprintf(out, "Created: %s\n", info.Created.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Comment: %s\n", info.Comment)
	fmt.Fprintf(out, "State: %s\n", info.State)
	fmt.Fprintf(out, "POIs: %s\n", humanize.Comma(int64(info.POIs)))
	fmt.Fprintf(out, "Ways: %s\n", humanize.Comma(int64(info.Ways)))
	fmt.Fprintf(out, "Nodes: %s\n", humanize.Comma(int64(info.Nodes)))
	fmt.Fprintf(out, "Media: %s\n", humanize.Comma(int64(info.Media)))
	fmt.Fprintf(out, "Length: %s\n", humanize.SIWithDigits(info.Length, 1, "m"))
	fmt.Fprintf(out, "BoundingBox: %s\n", info.Bounds)

	if info.Export != "" {
		fmt.Fprintf(out, "Export: %s (%s)\n", info.Export, humanize.Bytes(uint64(info.ExportSize)))
	}
}
