package resolver

import "strings"

// Source identifies which search location produced a candidate path.
type Source int

const (
	// SourceView is a path relative to the currently rendered view's directory.
	SourceView Source = iota
	// SourceAppRoot is a path relative to the application root.
	SourceAppRoot
	// SourceRaw is the path exactly as given, absolute or process-relative.
	SourceRaw
)

// String returns the lowercase name of the source.
func (s Source) String() string {
	switch s {
	case SourceView:
		return "view"
	case SourceAppRoot:
		return "app-root"
	case SourceRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Candidate is one filesystem location probed during resolution.
type Candidate struct {
	Source Source
	Path   string
}

// Candidates builds the ordered search list for rawPath.
//
// Paths are concatenated with a literal "/" and never cleaned, so "." and ".."
// segments reach the filesystem untouched.
func Candidates(rawPath, viewDir, appRoot string) []Candidate {
	return []Candidate{
		{Source: SourceView, Path: viewDir + "/" + rawPath},
		{Source: SourceAppRoot, Path: appRoot + "/" + strings.TrimLeft(rawPath, "/")},
		{Source: SourceRaw, Path: rawPath},
	}
}
