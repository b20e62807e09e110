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

package decoder

import (
	"encoding/xml"
)

// The xml* types mirror the elements of an OSM XML document. Attributes
// are kept as text so that missing ones can be told apart from zero.

type xmlDocument struct {
	XMLName   xml.Name  `xml:"osm"`
	Version   string    `xml:"version,attr"`
	Generator string    `xml:"generator,attr"`
	Links     []xmlLink `xml:"link"`
	Nodes     []xmlNode `xml:"node"`
	Ways      []xmlWay  `xml:"way"`
}

type xmlNode struct {
	ID        *string   `xml:"id,attr"`
	Lat       *string   `xml:"lat,attr"`
	Lon       *string   `xml:"lon,attr"`
	Timestamp string    `xml:"timestamp,attr"`
	Tags      []xmlTag  `xml:"tag"`
	Links     []xmlLink `xml:"link"`
}

type xmlWay struct {
	ID        *string   `xml:"id,attr"`
	Timestamp string    `xml:"timestamp,attr"`
	Refs      []xmlRef  `xml:"nd"`
	Tags      []xmlTag  `xml:"tag"`
	Links     []xmlLink `xml:"link"`
}

type xmlRef struct {
	Ref *string `xml:"ref,attr"`
}

type xmlTag struct {
	Key   *string `xml:"k,attr"`
	Value string  `xml:"v,attr"`
}

type xmlLink struct {
	Href *string `xml:"href,attr"`
}
