package datauri

import (
	"context"
	"errors"

	"github.com/arloliu/datauri/internal/htmlinline"
)

// InlineImages replaces the src of every <img> that references a local file
// with the file's data URI, resolving paths against rc.
//
// Absolute URLs, data URIs, protocol-relative references and anchors are left
// alone. A missing image fails the call unless the Encoder was created with
// WithSkipMissing(true); other errors always fail it.
func (e *Encoder) InlineImages(ctx context.Context, htmlContent string, rc Context) (string, error) {
	return htmlinline.RewriteImages(htmlContent, func(src string) (string, bool, error) {
		uri, err := e.Encode(ctx, src, rc)
		if err != nil {
			if e.skipMissing && errors.Is(err, ErrNotFound) {
				return "", true, nil
			}

			return "", false, err
		}

		return uri, false, nil
	})
}
