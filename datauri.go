// Package datauri turns files referenced from view templates into data URIs.
//
// A path is searched in three places, in order, and the first existing entry wins:
//
//  1. relative to the directory of the view being rendered
//  2. relative to the application root (leading slashes are ignored)
//  3. the path as given, absolute or relative to the process
//
// The selected file is read, its media type detected, and its content returned
// base64 encoded:
//
//	enc := datauri.New()
//	uri, err := enc.Encode(ctx, "img/logo.png", datauri.Context{
//	    ViewDir: "/srv/app/views/home",
//	    AppRoot: "/srv/app",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// uri == "data: image/png;base64,iVBORw0KGgo..."
//
// The default prefix is "data: " with a space after the colon. Use
// WithStrictPrefix for the RFC 2397 form "data:".
//
// For per-render use, bind a Context once and call the returned Helper:
//
//	h := enc.Bind(datauri.Context{ViewDir: viewDir, AppRoot: appRoot})
//	src, err := h.DataURL("logo.png")
package datauri

import (
	"context"
	"encoding/base64"

	"github.com/arloliu/datauri/internal/mediatype"
	"github.com/arloliu/datauri/internal/resolver"
	"github.com/spf13/afero"
)

const (
	// DefaultPrefix is the prefix written before the media type.
	DefaultPrefix = "data: "

	// StrictPrefix is the RFC 2397 prefix.
	StrictPrefix = "data:"

	// DefaultMIMEType is used when the media type cannot be determined.
	DefaultMIMEType = mediatype.OctetStream
)

// Context holds the two base directories searched for relative paths.
// It is supplied with every call and never stored by the Encoder.
type Context struct {
	// ViewDir is the directory of the template currently being rendered.
	ViewDir string
	// AppRoot is the top-level directory of the application.
	AppRoot string
}

// Source identifies which search location produced the selected file.
type Source = resolver.Source

const (
	SourceView    = resolver.SourceView
	SourceAppRoot = resolver.SourceAppRoot
	SourceRaw     = resolver.SourceRaw
)

// Result is a resolved and read file.
type Result struct {
	Path     string // selected candidate path
	Source   Source // which candidate was selected
	MIMEType string
	Data     []byte

	prefix string
}

// String returns the data URI for the result.
func (r *Result) String() string {
	prefix := r.prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return prefix + r.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Encoder resolves paths and encodes the selected files.
// It is immutable after New and safe for concurrent use.
//
// Paths are not checked for traversal: ".." segments are passed to the
// filesystem as given. Do not feed untrusted input to an Encoder.
type Encoder struct {
	fs          afero.Fs
	searcher    *resolver.Searcher
	detector    Detector
	prefix      string
	defaultMIME string
	skipMissing bool
}

// New creates an Encoder. Without WithFilesystem, DefaultFs is used.
func New(opts ...Option) *Encoder {
	cfg := &config{
		prefix:      DefaultPrefix,
		defaultMIME: DefaultMIMEType,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	fs := cfg.fs
	if fs == nil {
		fs = DefaultFs
	}

	return &Encoder{
		fs:          fs,
		searcher:    resolver.NewSearcher(fs),
		detector:    cfg.detector,
		prefix:      cfg.prefix,
		defaultMIME: cfg.defaultMIME,
		skipMissing: cfg.skipMissing,
	}
}

// Resolve returns the path of the first existing candidate for rawPath.
// It returns a *NotFoundError when no candidate exists.
func (e *Encoder) Resolve(ctx context.Context, rawPath string, rc Context) (string, Source, error) {
	c, err := e.searcher.Resolve(ctx, rawPath, rc.ViewDir, rc.AppRoot)
	if err != nil {
		return "", 0, err
	}

	return c.Path, c.Source, nil
}

// Load resolves rawPath, reads the selected file and detects its media type.
//
// Read failures, including the selected path being a directory, are returned
// unchanged from the filesystem.
func (e *Encoder) Load(ctx context.Context, rawPath string, rc Context) (*Result, error) {
	c, err := e.searcher.Resolve(ctx, rawPath, rc.ViewDir, rc.AppRoot)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(e.fs, c.Path)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:     c.Path,
		Source:   c.Source,
		MIMEType: e.detect(c.Path, data),
		Data:     data,
		prefix:   e.prefix,
	}, nil
}

// Encode resolves rawPath and returns the selected file as a data URI.
func (e *Encoder) Encode(ctx context.Context, rawPath string, rc Context) (string, error) {
	r, err := e.Load(ctx, rawPath, rc)
	if err != nil {
		return "", err
	}

	return r.String(), nil
}

func (e *Encoder) detect(name string, data []byte) string {
	if e.detector != nil {
		if t := e.detector.Detect(name, data); t != "" {
			return t
		}

		return e.defaultMIME
	}

	return mediatype.Detect(name, data, e.defaultMIME)
}

// Encode encodes rawPath with a default Encoder.
func Encode(ctx context.Context, rawPath string, rc Context) (string, error) {
	return New().Encode(ctx, rawPath, rc)
}
