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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"m4o.io/osmtrack/cmd/osmtrack/cli"
	"m4o.io/osmtrack/model"
)

// ErrCoordinate is returned for a coordinate argument that is not
// "lat,lon" in decimal degrees.
var ErrCoordinate = errors.New("invalid coordinate")

func init() {
	cli.RootCmd.AddCommand(newCmd, renameCmd, deleteCmd, poiCmd, wayCmd)

	newCmd.Flags().StringP("comment", "c", "", "comment of the track")

	for _, cmd := range []*cobra.Command{poiCmd, wayCmd} {
		flags := cmd.Flags()
		flags.StringToStringP("tag", "t", nil, "tags as key=value pairs")
		flags.StringSliceP("media", "m", nil, "files to attach")
	}

	wayCmd.Flags().BoolP("area", "a", false, "close the way into an area")
}

var newCmd = &cobra.Command{
	Use:   "new [<name>]",
	Short: "Create an empty track",
	Long:  "Create an empty track, named after the current time unless a name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		var name string
		if len(args) == 1 {
			name = args[0]
		}

		t, err := lib.NewTrack(name)
		if err != nil {
			return err
		}

		if comment, _ := cmd.Flags().GetString("comment"); comment != "" {
			if err := t.SetComment(comment); err != nil {
				return err
			}
		}

		fmt.Fprintln(out, t.Name())

		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <track> <name>",
	Short: "Rename a track and its directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		if r := lib.RenameTrack(args[0], args[1]); r != model.RenameOK {
			return fmt.Errorf("cannot rename %q to %q: %s", args[0], args[1], r)
		}

		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <track>...",
	Short: "Delete tracks with their directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		for _, name := range args {
			if err := lib.DeleteTrack(name); err != nil {
				return err
			}
		}

		return nil
	},
}

var poiCmd = &cobra.Command{
	Use:   "poi <track> <lat,lon>",
	Short: "Add a POI to a track",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseCoordinate(args[1])
		if err != nil {
			return err
		}

		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		t, err := lib.OpenTrack(args[0])
		if err != nil {
			return err
		}

		n, err := t.NewNode(c)
		if err != nil {
			return err
		}

		return attach(cmd, n)
	},
}

var wayCmd = &cobra.Command{
	Use:   "way <track> <lat,lon>...",
	Short: "Add a way to a track",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoordinates(args[1:])
		if err != nil {
			return err
		}

		lib, _, err := cli.OpenLibrary(cmd)
		if err != nil {
			return err
		}
		defer lib.Close()

		t, err := lib.OpenTrack(args[0])
		if err != nil {
			return err
		}

		w, err := t.NewWay()
		if err != nil {
			return err
		}

		for _, c := range coords {
			if _, err := w.NewNode(c); err != nil {
				return err
			}
		}

		if area, _ := cmd.Flags().GetBool("area"); area {
			if err := w.SetArea(true); err != nil {
				return err
			}
		}

		return attach(cmd, w)
	},
}

// attach adds the tags and media given on the command line to e.
func attach(cmd *cobra.Command, e model.Entity) error {
	flags := cmd.Flags()

	tags, err := flags.GetStringToString("tag")
	if err != nil {
		return err
	}

	for k, v := range tags {
		if err := e.AddTag(k, v); err != nil {
			return err
		}
	}

	files, err := flags.GetStringSlice("media")
	if err != nil {
		return err
	}

	for _, f := range files {
		if _, err := e.AttachFile(model.MediaTypeOf(f), f); err != nil {
			return err
		}
	}

	return nil
}

func parseCoordinates(args []string) ([]model.Coordinate, error) {
	coords := make([]model.Coordinate, 0, len(args))

	for _, a := range args {
		c, err := parseCoordinate(a)
		if err != nil {
			return nil, err
		}

		coords = append(coords, c)
	}

	return coords, nil
}

func parseCoordinate(s string) (model.Coordinate, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return model.Coordinate{}, fmt.Errorf("%w: %q", ErrCoordinate, s)
	}

	la, err := model.ParseMicrodegrees(strings.TrimSpace(lat))
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: %q: %w", ErrCoordinate, s, err)
	}

	lo, err := model.ParseMicrodegrees(strings.TrimSpace(lon))
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: %q: %w", ErrCoordinate, s, err)
	}

	c := model.Coordinate{Lat: la, Lon: lo}
	if !c.InRange() {
		return model.Coordinate{}, fmt.Errorf("%w: %q out of range", ErrCoordinate, s)
	}

	return c, nil
}
