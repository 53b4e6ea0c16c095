package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apierrors "clubportal/internal/errors"
	"clubportal/pkg/contracts/domain"
)

// seasonPattern accepts a four digit year, e.g. "2024"
var seasonPattern = regexp.MustCompile(`^\d{4}$`)

// Validator validates request payloads using struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator with the domain tags registered
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Amounts are validated as numbers
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "isodate", isISODate)
	mustRegister(v, "season", isSeason)
	mustRegister(v, "boatclass", isBoatClass)
	mustRegister(v, "amount", isAmount)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validator")),
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ValidateStruct validates s and returns a 400 APIError listing every failing field
func (m *Validator) ValidateStruct(s interface{}) error {
	err := m.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fieldPath(fe),
			Message: formatValidationError(fe),
		})
	}
	m.logger.Debug("validation failed", slog.Int("error_count", len(validationErrors)))
	return apierrors.NewValidationErrors(validationErrors)
}

// ValidateVar validates a single value against tag
func (m *Validator) ValidateVar(field, value, tag string) error {
	err := m.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var fe validator.ValidationErrors
	if errors.As(err, &fe) && len(fe) > 0 {
		return apierrors.ErrValidation(field, formatFieldMessage(field, fe[0].Tag(), fe[0].Param()))
	}
	return apierrors.ErrValidation(field, err.Error())
}

// fieldPath strips the root struct name, e.g. "SeasonExport.regattas[0].date" -> "regattas[0].date"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatValidationError(fe validator.FieldError) string {
	return formatFieldMessage(fe.Field(), fe.Tag(), fe.Param())
}

func formatFieldMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "season":
		return fmt.Sprintf("%s must be a four digit year", field)
	case "boatclass":
		return fmt.Sprintf("%s must be one of the known boat classes", field)
	case "amount":
		return fmt.Sprintf("%s must not be negative", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// isISODate validates a calendar date in YYYY-MM-DD format
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

func isSeason(fl validator.FieldLevel) bool {
	return seasonPattern.MatchString(fl.Field().String())
}

func isBoatClass(fl validator.FieldLevel) bool {
	return domain.IsKnownBoatClass(fl.Field().String())
}

// isAmount accepts any non-negative amount; the custom type func has
// already turned decimals into float64
func isAmount(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		return field.Float() >= 0
	case reflect.Int, reflect.Int64, reflect.Int32:
		return field.Int() >= 0
	default:
		return false
	}
}
