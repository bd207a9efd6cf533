package loader

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/arloliu/datauri/internal/types"
)

// processEnv applies 'env' tags on the struct fields of v.
// Environment variables always override current values when the variable is set.
func processEnv(v reflect.Value, prefix string) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := range v.NumField() {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := processEnv(fieldVal, prefix); err != nil {
				return err
			}

			continue
		}

		tag := field.Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}

		envVal, ok := os.LookupEnv(prefix + tag)
		if !ok {
			continue
		}

		if err := convert(envVal, fieldVal); err != nil {
			return &types.FieldError{Path: field.Name, Tag: "env", Value: envVal, Err: err}
		}
	}

	return nil
}

// convert sets raw on value. Slices of strings are comma separated.
func convert(raw string, value reflect.Value) error {
	//nolint:exhaustive // only the kinds used by configuration structs
	switch value.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		value.SetBool(b)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := strconv.ParseInt(raw, 10, value.Type().Bits())
		if err != nil {
			return err
		}
		value.SetInt(n)
	case reflect.Slice:
		if value.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", value.Type())
		}
		var parts []string
		for p := range strings.SplitSeq(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		value.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported type %s", value.Type())
	}

	return nil
}
