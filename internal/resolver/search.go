package resolver

import (
	"context"
	"slices"

	"github.com/arloliu/datauri/internal/types"
	"github.com/spf13/afero"
)

// Searcher selects the first existing candidate on a filesystem.
type Searcher struct {
	fs afero.Fs
}

// NewSearcher creates a Searcher over fs.
// If fs is nil, the OS filesystem is used.
func NewSearcher(fs afero.Fs) *Searcher {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &Searcher{fs: fs}
}

// Search probes candidates in order and returns the first one that exists.
// Probing stops at the first hit. Any stat failure counts as absent.
//
// When nothing exists, a *types.NotFoundError lists every probed path,
// most recently tried first.
func (s *Searcher) Search(ctx context.Context, candidates []Candidate) (Candidate, error) {
	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return Candidate{}, err
		}

		tried = append(tried, c.Path)
		if _, err := s.fs.Stat(c.Path); err == nil {
			return c, nil
		}
	}

	slices.Reverse(tried)

	return Candidate{}, &types.NotFoundError{Paths: tried}
}

// Resolve builds the candidates for rawPath and searches them.
func (s *Searcher) Resolve(ctx context.Context, rawPath, viewDir, appRoot string) (Candidate, error) {
	return s.Search(ctx, Candidates(rawPath, viewDir, appRoot))
}
