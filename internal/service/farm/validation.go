package farm

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// relationChecker is implemented by forms with rules spanning several fields.
type relationChecker interface {
	CheckRelations(verr *models.ValidationError)
}

// forms is shared by every write path: HTTP handlers and WhatsApp commands
// both reach it through the Service.
var forms = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, err := models.ParseDate(value)
		return err == nil
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	mustRegister(v, "feature", func(fl validator.FieldLevel) bool {
		return models.TrackingFeature(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// checkForm runs the struct tags of form, then its relation rules, and
// reports every failure as a *models.ValidationError.
func checkForm(form any) error {
	verr := &models.ValidationError{}

	if err := forms.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			field, _, _ := strings.Cut(fe.Field(), "[")
			verr.Add(field, fieldMessage(fe))
		}
	}
	if rc, ok := form.(relationChecker); ok {
		rc.CheckRelations(verr)
	}
	return verr.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "isodate":
		return "must be a YYYY-MM-DD date"
	case "email":
		return "must be a valid email address"
	case "finite":
		return "must be a finite number"
	case "feature":
		return fmt.Sprintf("unknown tracking feature %q", fe.Value())
	case "gt":
		if param == "0" {
			return "must be positive"
		}
		return "must be greater than " + param
	case "gte":
		if param == "0" {
			return "must not be negative"
		}
		return "must be at least " + param
	case "min":
		if fe.Kind() == reflect.Slice {
			return "at least " + param + " must be selected"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	}
	return "is invalid"
}
