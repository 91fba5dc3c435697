// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `Load` calls `validateStruct` right after it unmarshals the merged Koanf
// tree into `Settings`.  Any tag violation aborts the command, so lx never
// runs with a half-read configuration.  Errors are flattened into one line
// per field using the koanf key, e.g.
//
//	serve.listen_addr: failed "hostname_port" (got "nope")
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

//
// public API
//

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid settings: " + strings.Join(e.Fields, "; ")
}

// validateStruct returns nil or a *ValidationError.
func validateStruct(s *Settings) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Settings.")
		out.Fields = append(out.Fields, fmt.Sprintf("%s: failed %q (got %q)", key, fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return out
}
