package config

import (
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("filemode", func(fl validator.FieldLevel) bool {
			_, err := parseMode(fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
			return doublestar.ValidatePattern(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct checks v against its validate tags. Failures are reported
// as one CONFIG_INVALID error naming every offending field.
func ValidateStruct(v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	valErr, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid settings")
	}

	fields := make([]string, 0, len(valErr))
	for _, fe := range valErr {
		fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
	}
	return errors.Newf(errors.ErrConfigValid, "validation failed on %s", strings.Join(fields, ", ")).
		WithDetail("fields", fields)
}

// Validate checks the settings
func (s *Settings) Validate() error {
	return ValidateStruct(s)
}
