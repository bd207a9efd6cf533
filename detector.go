package datauri

// Detector determines the media type of a file.
// Implementations MUST be safe for concurrent use by multiple goroutines.
type Detector interface {
	// Detect returns the media type of data read from name, or "" if unknown.
	Detect(name string, data []byte) string
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(name string, data []byte) string

// Detect calls f(name, data).
func (f DetectorFunc) Detect(name string, data []byte) string {
	return f(name, data)
}
