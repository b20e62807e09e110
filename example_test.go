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

package osmtrack_test

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"m4o.io/osmtrack"
	"m4o.io/osmtrack/model"
)

func Example() {
	root, err := os.MkdirTemp("", "osmtrack")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	lib, err := model.OpenLibrary(root)
	if err != nil {
		log.Fatal(err)
	}

	t, err := lib.NewTrack("morning walk")
	if err != nil {
		log.Fatal(err)
	}

	cafe, err := t.NewNode(model.NewCoordinate(52.5, 13.4))
	if err != nil {
		log.Fatal(err)
	}

	if err = cafe.AddTag("amenity", "cafe"); err != nil {
		log.Fatal(err)
	}

	park, err := t.NewWay()
	if err != nil {
		log.Fatal(err)
	}

	for _, c := range []model.Coordinate{
		model.NewCoordinate(52.50, 13.40),
		model.NewCoordinate(52.51, 13.41),
		model.NewCoordinate(52.50, 13.42),
	} {
		if _, err = park.NewNode(c); err != nil {
			log.Fatal(err)
		}
	}

	if err = park.AddTag(model.AreaKey, model.AreaYes); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err = osmtrack.Encode(&buf, t); err != nil {
		log.Fatal(err)
	}

	res, err := osmtrack.Decode(&buf)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("POIs: %d, Ways: %d\n", len(res.POIs), len(res.Ways))

	for _, w := range res.Ways {
		fmt.Printf("Area: %t, Members: %d\n", w.Area, len(w.Members))
	}
	// Output:
	// POIs: 1, Ways: 1
	// Area: true, Members: 3
}
