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

// decoderOptions provides optional configuration parameters for imports.
type decoderOptions struct {
	links   bool // record link elements as media
	comment string
}

// DecoderOption configures how we read documents.
type DecoderOption func(*decoderOptions)

// WithMediaLinks enables or disables recording link elements as media of
// the imported entities. The linked files are expected in the track
// directory. Links are recorded by default.
func WithMediaLinks(links bool) DecoderOption {
	return func(o *decoderOptions) {
		o.links = links
	}
}

// WithComment sets the comment of the imported track.
func WithComment(comment string) DecoderOption {
	return func(o *decoderOptions) {
		o.comment = comment
	}
}

// defaultDecoderConfig provides a default configuration for imports.
var defaultDecoderConfig = decoderOptions{
	links: true,
}
