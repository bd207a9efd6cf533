package datauri

import (
	"context"
	"html/template"
)

// Helper is an Encoder bound to one rendering Context.
// It is a value: WithViewDir returns a copy and leaves the receiver untouched,
// so a partial can be rendered with its own directory while the parent view
// keeps its binding.
type Helper struct {
	enc *Encoder
	rc  Context
}

// Bind returns a Helper that resolves paths against rc.
func (e *Encoder) Bind(rc Context) Helper {
	return Helper{enc: e, rc: rc}
}

// Context returns the bound Context.
func (h Helper) Context() Context {
	return h.rc
}

// WithViewDir returns a copy of h bound to another view directory.
func (h Helper) WithViewDir(dir string) Helper {
	h.rc.ViewDir = dir

	return h
}

// DataURL returns the data URI for path.
func (h Helper) DataURL(path string) (string, error) {
	return h.DataURLContext(context.Background(), path)
}

// DataURLContext is DataURL with a caller supplied context.
func (h Helper) DataURLContext(ctx context.Context, path string) (string, error) {
	return h.enc.Encode(ctx, path, h.rc)
}

// FuncMap returns template functions bound to rc:
//
//	dataURL PATH   the data URI for PATH, as a template.URL
//
// A failed lookup stops template execution with the error.
//
// html/template percent-encodes the space of the default "data: " prefix
// inside URL attributes. Use WithStrictPrefix(true) for markup that must
// carry a literal RFC 2397 URI.
func (e *Encoder) FuncMap(ctx context.Context, rc Context) template.FuncMap {
	return template.FuncMap{
		"dataURL": func(path string) (template.URL, error) {
			uri, err := e.Encode(ctx, path, rc)
			if err != nil {
				return "", err
			}

			return template.URL(uri), nil //nolint:gosec // content is base64 from a local file
		},
	}
}
