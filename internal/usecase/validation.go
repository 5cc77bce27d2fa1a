package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports failures as a
// *domain.ValidationError keyed by json field name.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("could not validate input: %w", err)
	}

	out := &domain.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	isLength := fe.Kind() == reflect.String
	isCount := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isLength {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if isCount {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isLength {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if isCount {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be a number"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}

var hundred = decimal.NewFromInt(100)

// PriceToMinorUnits converts a major-unit amount such as "19.99" to minor
// units, rounding half up. Zero and negative results are rejected.
func PriceToMinorUnits(major string) (int64, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(major))
	if err != nil {
		return 0, domain.NewValidationError("price", "must be a number")
	}
	cents := amount.Mul(hundred).Round(0)
	if !cents.IsPositive() {
		return 0, domain.NewValidationError("price", "must be greater than 0")
	}
	return cents.IntPart(), nil
}

func requireCaller(caller *domain.Caller) error {
	if caller == nil || caller.UserID == "" {
		return domain.ErrAuthenticationRequired
	}
	return nil
}
