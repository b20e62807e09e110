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
	"bufio"
	"encoding/xml"
	"io"
	"strings"

	"m4o.io/osmtrack/model"
)

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`
	rootElement    = "osm"
)

// xmlWriter writes elements one at a time. The first error is kept and
// every later call is a no-op.
type xmlWriter struct {
	w      *bufio.Writer
	indent string
	depth  int
	err    error
}

func newXMLWriter(w io.Writer, indent string) *xmlWriter {
	return &xmlWriter{w: bufio.NewWriter(w), indent: indent}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (x *xmlWriter) raw(s string) {
	if x.err == nil {
		_, x.err = x.w.WriteString(s)
	}
}

func (x *xmlWriter) newline() {
	x.raw("\n")
	x.raw(strings.Repeat(x.indent, x.depth))
}

// open writes a start tag, or an empty element tag when empty is true.
func (x *xmlWriter) open(name string, empty bool, attrs ...xml.Attr) {
	x.newline()
	x.raw("<" + name)

	for _, a := range attrs {
		x.raw(" " + a.Name.Local + `="`)

		if x.err == nil {
			x.err = xml.EscapeText(x.w, []byte(a.Value))
		}

		x.raw(`"`)
	}

	if empty {
		x.raw("/>")
	} else {
		x.raw(">")
		x.depth++
	}
}

func (x *xmlWriter) close(name string) {
	x.depth--
	x.newline()
	x.raw("</" + name + ">")
}

func (x *xmlWriter) flush() error {
	if x.err == nil {
		x.err = x.w.Flush()
	}

	return x.err
}

// writeHeader opens the document element.
func writeHeader(x *xmlWriter, hdr model.Header) {
	x.raw(xmlDeclaration)
	x.open(rootElement, false, attr("version", hdr.Version), attr("generator", hdr.Generator))
}

// writeTrailer closes the document element.
func writeTrailer(x *xmlWriter) {
	x.close(rootElement)
	x.raw("\n")
}
