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

package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MediaType is an enumeration of media kinds.
type MediaType int

const (
	// TEXT is a free-text note.
	TEXT MediaType = iota

	// PICTURE is a photo.
	PICTURE

	// AUDIO is a voice recording.
	AUDIO

	// VIDEO is a video clip.
	VIDEO
)

func (t MediaType) String() string {
	switch t {
	case TEXT:
		return "text"
	case PICTURE:
		return "picture"
	case AUDIO:
		return "audio"
	case VIDEO:
		return "video"
	default:
		return fmt.Sprintf("MediaType(%d)", int(t))
	}
}

// ParseMediaType is the inverse of MediaType.String.
func ParseMediaType(s string) (MediaType, error) {
	for _, t := range []MediaType{TEXT, PICTURE, AUDIO, VIDEO} {
		if t.String() == s {
			return t, nil
		}
	}

	return 0, fmt.Errorf("unknown media type %q", s)
}

var mediaExtensions = map[string]MediaType{
	".txt":  TEXT,
	".jpg":  PICTURE,
	".jpeg": PICTURE,
	".png":  PICTURE,
	".3gp":  AUDIO,
	".amr":  AUDIO,
	".m4a":  AUDIO,
	".mp3":  AUDIO,
	".ogg":  AUDIO,
	".wav":  AUDIO,
	".mp4":  VIDEO,
	".webm": VIDEO,
}

// MediaTypeOf guesses the media type from a file name. Unknown extensions
// are treated as TEXT.
func MediaTypeOf(filename string) MediaType {
	if t, ok := mediaExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}

	return TEXT
}

// ValidMediaFile reports whether name can reference a file of a track
// directory: a plain local file name, with no directory part.
func ValidMediaFile(name string) bool {
	return name != "." && filepath.IsLocal(name) && !strings.ContainsAny(name, `/\`)
}

// Media references a file kept in the owning track's directory.
type Media struct {
	ID   InternalID
	Type MediaType
	File string
}
