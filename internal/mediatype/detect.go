// Package mediatype guesses the media type of file content.
package mediatype

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// OctetStream is the media type used when nothing more specific is known.
const OctetStream = "application/octet-stream"

// Detect returns the bare media type (no parameters) of data read from name.
//
// Content sniffing runs first. When it only finds a generic type, the file
// extension is consulted. fallback is returned when neither produces a type;
// an empty fallback means OctetStream.
func Detect(name string, data []byte, fallback string) string {
	if fallback == "" {
		fallback = OctetStream
	}

	sniffed := ""
	if len(data) > 0 {
		sniffed = bare(mimetype.Detect(data).String())
	}

	if sniffed == "" || isGeneric(sniffed) {
		if byExt := bare(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); byExt != "" {
			return byExt
		}
	}

	if sniffed == "" || sniffed == OctetStream {
		return fallback
	}

	return sniffed
}

// bare strips parameters such as "; charset=utf-8".
func bare(mediaType string) string {
	t, _, _ := strings.Cut(mediaType, ";")

	return strings.TrimSpace(t)
}

func isGeneric(mediaType string) bool {
	return mediaType == OctetStream || mediaType == "text/plain"
}
