package datauri

import "github.com/spf13/afero"

// config holds configuration for an Encoder.
type config struct {
	fs          afero.Fs
	detector    Detector
	prefix      string
	defaultMIME string
	skipMissing bool
}

// Option configures Encoder behavior.
type Option func(*config)

// WithFilesystem sets the filesystem used for existence checks and reads.
// Use this instead of SetDefaultFs for tests that run in parallel.
//
// Example:
//
//	memFs := afero.NewMemMapFs()
//	afero.WriteFile(memFs, "/app/logo.png", png, 0o644)
//	enc := datauri.New(datauri.WithFilesystem(memFs))
func WithFilesystem(fs afero.Fs) Option {
	return func(c *config) {
		c.fs = fs
	}
}

// WithDetector replaces the built-in media type detection.
// An empty string from the detector selects the default media type.
func WithDetector(d Detector) Option {
	return func(c *config) {
		c.detector = d
	}
}

// WithDefaultMIME sets the media type used when detection finds nothing.
// The default is "application/octet-stream". An empty value is ignored.
func WithDefaultMIME(mimeType string) Option {
	return func(c *config) {
		if mimeType != "" {
			c.defaultMIME = mimeType
		}
	}
}

// WithStrictPrefix switches the output prefix between "data:" (true)
// and the default "data: " (false).
func WithStrictPrefix(strict bool) Option {
	return func(c *config) {
		if strict {
			c.prefix = StrictPrefix
		} else {
			c.prefix = DefaultPrefix
		}
	}
}

// WithSkipMissing makes InlineImages leave images that cannot be found untouched
// instead of failing. Encode and Load are not affected.
func WithSkipMissing(skip bool) Option {
	return func(c *config) {
		c.skipMissing = skip
	}
}
