package entities

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"quotation_service/pkg/proposalid"
)

var ErrInvalidQuotation = errors.New("invalid quotation")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the schema constraints of a stored quotation.
// The returned error wraps ErrInvalidQuotation.
func (q Quotation) Validate() error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidQuotation, describeFieldError(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuotation, err)
	}
	if !proposalid.Valid(q.ProposalID) {
		return fmt.Errorf("%w: proposalId must be %d lowercase alphanumeric characters", ErrInvalidQuotation, proposalid.Length)
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must not be empty"
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed the %q check", field, fe.Tag())
	}
}
