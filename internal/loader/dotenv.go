package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// DotenvConfig holds dotenv file loading configuration.
type DotenvConfig struct {
	Files       []string // Explicit file paths to load
	SearchPaths []string // Directories to search for env file
	SearchName  string   // Filename to search for (e.g., ".env")
	Override    bool     // If true, values replace variables that are already set
}

// loadDotenvFiles loads dotenv files into the process environment.
// This is called before any env tag processing.
func (e *Engine) loadDotenvFiles(extra []string) error {
	cfg := e.Dotenv
	if cfg == nil {
		cfg = &DotenvConfig{}
	}

	for _, path := range e.resolveEnvFiles(cfg, extra) {
		if err := e.applyDotenv(path, cfg.Override); err != nil {
			return err
		}
	}

	return nil
}

// applyDotenv parses one file from the engine filesystem and exports its
// variables. Existing variables win unless override is set.
func (e *Engine) applyDotenv(path string, override bool) error {
	f, err := e.Fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open env file %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse env file %s: %w", path, err)
	}

	for k, v := range vars {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}

	return nil
}

// resolveEnvFiles returns the list of env files to load.
// Priority: explicit files (configured, then from the target) > search paths
func (e *Engine) resolveEnvFiles(cfg *DotenvConfig, extra []string) []string {
	explicit := append(append([]string{}, cfg.Files...), extra...)
	if len(explicit) > 0 {
		return e.filterExistingFiles(explicit)
	}

	if len(cfg.SearchPaths) > 0 && cfg.SearchName != "" {
		return e.searchForEnvFiles(cfg)
	}

	return nil
}

// filterExistingFiles returns only files that exist.
// Missing files are silently ignored to support optional .env.local patterns.
func (e *Engine) filterExistingFiles(files []string) []string {
	var existing []string
	for _, f := range files {
		if ok, _ := afero.Exists(e.Fs, f); ok {
			existing = append(existing, f)
		}
	}

	return existing
}

// searchForEnvFiles returns the first env file found in the search paths,
// or nil if none found.
func (e *Engine) searchForEnvFiles(cfg *DotenvConfig) []string {
	for _, dir := range cfg.SearchPaths {
		path := filepath.Join(dir, cfg.SearchName)
		if ok, _ := afero.Exists(e.Fs, path); ok {
			return []string{path}
		}
	}

	return nil
}
