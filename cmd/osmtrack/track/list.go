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

// Package track holds the osmtrack subcommands that create, edit, list
// and exchange tracks.
package track

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"m4o.io/osmtrack/cmd/osmtrack/cli"
	"m4o.io/osmtrack/model"
)

var out io.Writer = os.Stdout

// now is the reference for the ages printed by list.
var now = time.Now

func init() {
	cli.RootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tracks of the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		summaries, err := lib.Summaries()
		if err != nil {
			return err
		}

		return renderList(summaries)
	},
}

func renderList(summaries []model.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tSTATE\tPOIS\tWAYS\tNODES\tLENGTH\tCREATED")

	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name,
			s.State,
			humanize.Comma(int64(s.POIs)),
			humanize.Comma(int64(s.Ways)),
			humanize.Comma(int64(s.Nodes)),
			humanize.SIWithDigits(s.Length, 1, "m"),
			humanize.RelTime(s.Created, now(), "ago", "from now"))
	}

	return tw.Flush()
}
