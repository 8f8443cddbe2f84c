package crud

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs tag-based validation and surfaces only the first
// violated rule, matching the single-error contract of mutation results.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		first := errs[0]
		if first.Param() != "" {
			return fmt.Errorf("%s fails rule %q (%s)", strings.ToLower(first.Field()), first.Tag(), first.Param())
		}
		return fmt.Errorf("%s fails rule %q", strings.ToLower(first.Field()), first.Tag())
	}
	return err
}
