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

package encoder

import (
	"fmt"
	"io"
	"strings"

	"m4o.io/osmtrack/internal/encoder/packers"
)

// Compression is an enumeration of the compressions an export can use.
type Compression int

const (
	// RAW writes plain XML.
	RAW Compression = iota

	// GZIP writes gzip compressed XML.
	GZIP

	// LZ4 writes an LZ4 frame.
	LZ4

	// ZSTD writes a Zstandard frame.
	ZSTD

	// XZ writes an xz stream.
	XZ
)

// Compressions lists every Compression, in declaration order.
var Compressions = []Compression{RAW, GZIP, LZ4, ZSTD, XZ}

func (c Compression) String() string {
	switch c {
	case RAW:
		return "raw"
	case GZIP:
		return "gzip"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	case XZ:
		return "xz"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// Extension returns the file name suffix of exports using c.
func (c Compression) Extension() string {
	switch c {
	case GZIP:
		return ".osm.gz"
	case LZ4:
		return ".osm.lz4"
	case ZSTD:
		return ".osm.zst"
	case XZ:
		return ".osm.xz"
	default:
		return ".osm"
	}
}

// ParseCompression is the inverse of Compression.String. The empty string
// and "none" mean RAW.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return RAW, nil
	}

	for _, c := range Compressions {
		if c.String() == strings.ToLower(s) {
			return c, nil
		}
	}

	return RAW, fmt.Errorf("unknown compression %q", s)
}

// Packer compresses what is written to it into an underlying writer. Close
// flushes the compressed stream without closing the underlying writer.
type Packer interface {
	io.WriteCloser
}

// NewPacker creates the appropriate Packer for the compression.
func NewPacker(w io.Writer, c Compression) (Packer, error) {
	switch c {
	case RAW:
		return packers.NewRawPacker(w), nil
	case GZIP:
		return packers.NewGzipPacker(w), nil
	case LZ4:
		return packers.NewLz4Packer(w), nil
	case ZSTD:
		p, err := packers.NewZstdPacker(w)
		if err != nil {
			return nil, err
		}

		return p, nil
	case XZ:
		p, err := packers.NewXzPacker(w)
		if err != nil {
			return nil, err
		}

		return p, nil
	default:
		return nil, fmt.Errorf("unknown compression type: %v", c)
	}
}
