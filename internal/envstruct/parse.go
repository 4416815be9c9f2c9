package envstruct

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
	ErrParse        = errors.New("parse environment variable")
)

//nolint:gochecknoglobals // reflect type lookup.
var durationType = reflect.TypeFor[time.Duration]()

// Populate populates the fields of the pointer to struct v with values from the environment.
//
// lookupEnv is used to look up environment variables. It has the same signature as [os.LookupEnv].
// Fields in the struct v must be tagged with `env:"ENV_VAR"` where ENV_VAR is the name of the environment variable.
// If no environment variable matching ENV_VAR is provided, the field must be tagged with default value
// `envDefault:"value"` or else ErrEnvNotSet is returned.
//
// Supported field types are string, int, bool and [time.Duration].
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()

	var errorList []error

	for i := range refType.NumField() {
		refField := ref.Field(i)
		refTypeField := refType.Field(i)
		tag := refTypeField.Tag

		envVarName, ok := tag.Lookup("env")
		if !ok {
			continue
		}
		if !refField.CanSet() {
			errorList = append(errorList, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, refTypeField.Name))
			continue
		}

		val, err := envLookupWithFallback(envVarName, tag, lookupEnv)
		if err != nil {
			errorList = append(errorList, err)
			continue
		}

		if err = setField(refField, val); err != nil {
			errorList = append(errorList, fmt.Errorf("field: %s, env: %s: %w", refTypeField.Name, envVarName, err))
		}
	}

	if len(errorList) != 0 {
		return errors.Join(errorList...)
	}

	return nil
}

func setField(field reflect.Value, val string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: %q is not a duration", ErrParse, val)
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(val)
	case field.Kind() == reflect.Int:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrParse, val)
		}
		field.SetInt(int64(n))
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", ErrParse, val)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%w: unsupported type %s", ErrInvalidValue, field.Type())
	}
	return nil
}

func envLookupWithFallback(
	envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	envVarValue, ok := lookupEnv(envVarName)
	if !ok {
		envVarValue, ok = tag.Lookup("envDefault")
		if !ok {
			return "", fmt.Errorf("%w: environment variable not set: %s", ErrEnvNotSet, envVarName)
		}
	}
	return envVarValue, nil
}
