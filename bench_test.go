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

package osmtrack

import (
	"bytes"
	"context"
	"os"
	"runtime/trace"
	"strconv"
	"testing"
	"time"

	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

// benchTrack builds a track of one long way, as recorded by a device
// taking a fix every second, with a POI every hundred fixes.
func benchTrack(b *testing.B, fixes int) *model.Track {
	b.Helper()

	lib, err := model.OpenLibrary(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}

	t, err := lib.NewTrack("bench")
	if err != nil {
		b.Fatal(err)
	}

	w, err := t.NewWay()
	if err != nil {
		b.Fatal(err)
	}

	start := time.Date(2024, 10, 28, 6, 0, 0, 0, time.UTC)

	for i := range fixes {
		c := model.NewCoordinate(model.Degrees(51.5+float64(i)/100_000), model.Degrees(-0.12+float64(i)/50_000))
		ts := start.Add(time.Duration(i) * time.Second)

		if _, err := w.NewNodeAt(c, ts); err != nil {
			b.Fatal(err)
		}

		if i%100 == 0 {
			n, err := t.NewNodeAt(c, ts)
			if err != nil {
				b.Fatal(err)
			}

			if err := n.AddTag("name", "fix "+strconv.Itoa(i)); err != nil {
				b.Fatal(err)
			}
		}
	}

	return t
}

func traced(b *testing.B) func() {
	b.Helper()

	if t, err := strconv.ParseBool(os.Getenv("OSMTRACK_TRACE")); err != nil || !t {
		return func() {}
	}

	f, err := os.Create("trace.out")
	if err != nil {
		b.Errorf("Error opening trace file: %v", err)

		return func() {}
	}

	_ = trace.Start(f)

	return func() {
		trace.Stop()
		f.Close()
	}
}

func BenchmarkEncode(b *testing.B) {
	t := benchTrack(b, 10_000)

	var buf bytes.Buffer

	defer traced(b)()

	for b.Loop() {
		buf.Reset()

		if err := Encode(&buf, t, WithCompression(encoder.GZIP)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkImport(b *testing.B) {
	var buf bytes.Buffer
	if err := Encode(&buf, benchTrack(b, 10_000), WithCompression(encoder.GZIP)); err != nil {
		b.Fatal(err)
	}

	defer traced(b)()

	for b.Loop() {
		lib, err := model.OpenLibrary(b.TempDir())
		if err != nil {
			b.Fatal(err)
		}

		if _, err := Import(context.Background(), lib, "bench", bytes.NewReader(buf.Bytes())); err != nil {
			b.Fatal(err)
		}
	}
}
