package osmtrack

import (
	"m4o.io/osmtrack/internal/encoder"
	"m4o.io/osmtrack/model"
)

const (
	DefaultCompression = encoder.RAW

	DefaultIndent = "  "
)

// encoderOptions provides optional configuration parameters for exports.
type encoderOptions struct {
	compression encoder.Compression
	generator   string
	media       bool
	indent      string
}

// EncoderOption configures how we write documents.
type EncoderOption func(*encoderOptions)

// WithCompression specifies the compression of exported files. The default
// is RAW.
func WithCompression(compression encoder.Compression) EncoderOption {
	return func(o *encoderOptions) {
		o.compression = compression
	}
}

// WithGenerator sets the generator attribute of the document element.
func WithGenerator(generator string) EncoderOption {
	return func(o *encoderOptions) {
		o.generator = generator
	}
}

// WithMedia enables or disables the link elements referencing media. Files
// meant for strict OSM consumers should be written without them. Links are
// written by default.
func WithMedia(media bool) EncoderOption {
	return func(o *encoderOptions) {
		o.media = media
	}
}

// WithIndent sets the indentation of nested elements.
func WithIndent(indent string) EncoderOption {
	return func(o *encoderOptions) {
		o.indent = indent
	}
}

// defaultEncoderConfig provides a default configuration for exports.
var defaultEncoderConfig = encoderOptions{
	compression: DefaultCompression,
	generator:   model.DefaultGenerator,
	media:       true,
	indent:      DefaultIndent,
}

func newEncoderConfig(opts []EncoderOption) encoderOptions {
	cfg := defaultEncoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
