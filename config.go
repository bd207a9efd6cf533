package datauri

import (
	"path/filepath"

	"github.com/arloliu/datauri/internal/loader"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// DefaultEnvPrefix is prepended to the `env` tags of Config.
const DefaultEnvPrefix = "DATAURI_"

// Config describes an Encoder and its rendering Context in file form.
//
// Example datauri.yaml:
//
//	appRoot: /srv/app
//	viewDir: /srv/app/views
//	defaultMime: application/octet-stream
//	strictPrefix: false
//	envFiles: [.env, .env.local]
type Config struct {
	ViewDir      string   `yaml:"viewDir" env:"VIEW_DIR"`
	AppRoot      string   `yaml:"appRoot" env:"APP_ROOT" validate:"required"`
	DefaultMIME  string   `yaml:"defaultMime" env:"DEFAULT_MIME" default:"application/octet-stream" validate:"contains=/"`
	StrictPrefix bool     `yaml:"strictPrefix" env:"STRICT_PREFIX"`
	SkipMissing  bool     `yaml:"skipMissing" env:"SKIP_MISSING"`
	EnvFiles     []string `yaml:"envFiles"`
}

// SetDefaults makes the application root the view directory when none is set.
func (c *Config) SetDefaults() {
	if c.ViewDir == "" {
		c.ViewDir = c.AppRoot
	}
}

// DotenvFiles returns the configured dotenv files.
func (c *Config) DotenvFiles() []string {
	return c.EnvFiles
}

// Context returns the rendering Context described by c.
func (c *Config) Context() Context {
	return Context{ViewDir: c.ViewDir, AppRoot: c.AppRoot}
}

// Options returns the Encoder options described by c.
func (c *Config) Options() []Option {
	return []Option{
		WithDefaultMIME(c.DefaultMIME),
		WithStrictPrefix(c.StrictPrefix),
		WithSkipMissing(c.SkipMissing),
	}
}

// configLoader holds configuration for LoadConfig.
type configLoader struct {
	base      Config
	fs        afero.Fs
	envPrefix string
	envFiles  []string
	validator *validator.Validate
}

// ConfigOption configures LoadConfig.
type ConfigOption func(*configLoader)

// WithConfigFilesystem sets the filesystem the config and dotenv files are read from.
func WithConfigFilesystem(fs afero.Fs) ConfigOption {
	return func(l *configLoader) {
		l.fs = fs
	}
}

// WithEnvPrefix replaces DefaultEnvPrefix.
// For example, with prefix "MYAPP_", AppRoot is read from MYAPP_APP_ROOT.
func WithEnvPrefix(prefix string) ConfigOption {
	return func(l *configLoader) {
		l.envPrefix = prefix
	}
}

// WithEnvFiles loads the given dotenv files before the ones named in the config.
// Missing files are ignored.
func WithEnvFiles(files ...string) ConfigOption {
	return func(l *configLoader) {
		l.envFiles = append(l.envFiles, files...)
	}
}

// WithBase starts loading from base instead of the zero Config.
// Values from the file, the environment and defaults are applied on top.
func WithBase(base Config) ConfigOption {
	return func(l *configLoader) {
		l.base = base
	}
}

// WithConfigValidator sets a custom validator instance.
func WithConfigValidator(v *validator.Validate) ConfigOption {
	return func(l *configLoader) {
		l.validator = v
	}
}

// LoadConfig reads the YAML file at path and applies dotenv files,
// environment overrides and defaults before validating the result.
//
// An empty path skips the file, so the configuration can come from the
// environment alone. When no dotenv file is named, a ".env" next to the
// config file (or in the working directory) is loaded if present.
func LoadConfig(path string, opts ...ConfigOption) (*Config, error) {
	l := &configLoader{
		fs:        DefaultFs,
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.validator == nil {
		l.validator = validator.New()
	}

	engine := &loader.Engine{
		Fs:        l.fs,
		Validator: l.validator,
		EnvPrefix: l.envPrefix,
		Dotenv: &loader.DotenvConfig{
			Files:       l.envFiles,
			SearchPaths: []string{"."},
			SearchName:  ".env",
		},
	}

	if path != "" {
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, err
		}
		engine.Source = data
		engine.SourceName = path
		engine.Dotenv.SearchPaths = []string{filepath.Dir(path)}
	}

	cfg := l.base
	cfg.EnvFiles = append([]string(nil), l.base.EnvFiles...)
	if err := engine.Load(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
