// Package loader populates configuration structs from YAML, dotenv files,
// environment variables and `default` tags, then validates them.
package loader

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/arloliu/datauri/internal/types"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Engine is the configuration processing engine.
// Sources are applied in order: YAML source, dotenv files, env tags,
// default tags, validation. Later steps only fill what earlier ones left
// unset, except env which always overrides.
type Engine struct {
	Fs         afero.Fs
	Validator  *validator.Validate
	EnvPrefix  string
	Source     []byte
	SourceName string // Name of the source (e.g., "datauri.yaml", "bytes")
	Dotenv     *DotenvConfig
}

// Load populates target, which must be a non-nil pointer to a struct.
func (e *Engine) Load(target any) error {
	targetVal := reflect.ValueOf(target)
	if targetVal.Kind() != reflect.Pointer || targetVal.IsNil() {
		return &types.FieldError{Message: "target must be a non-nil pointer"}
	}

	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}

	// 1. Unmarshal Source
	if len(e.Source) > 0 {
		if err := yaml.Unmarshal(e.Source, target); err != nil {
			if e.SourceName != "" {
				return fmt.Errorf("failed to unmarshal %s: %w", e.SourceName, err)
			}

			return fmt.Errorf("failed to unmarshal source: %w", err)
		}
	}

	// 2. Dotenv files
	var extra []string
	if src, ok := target.(types.EnvFileSource); ok {
		extra = src.DotenvFiles()
	}
	if err := e.loadDotenvFiles(extra); err != nil {
		return err
	}

	// 3. Env overrides
	if err := processEnv(targetVal, e.EnvPrefix); err != nil {
		return err
	}

	// 4. Defaults, including the target's own SetDefaults
	if err := defaults.Set(target); err != nil {
		return &types.FieldError{Path: "*", Tag: "default", Err: err}
	}

	// 5. Validate
	if e.Validator != nil {
		if err := e.Validator.Struct(target); err != nil {
			return validationError(err)
		}
	}

	return nil
}

func validationError(err error) *types.ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &types.ValidationError{Errors: []error{err}}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fe)
	}

	return &types.ValidationError{Errors: errs}
}
