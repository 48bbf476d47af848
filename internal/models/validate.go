package models

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// ValidateSession checks that the fields every session needs are set. It
// reports the first missing field, in the order session_number, laps,
// vehicle, weather.
func ValidateSession(s Session) (bool, string) {
	err := validate.Struct(s)
	if err == nil {
		return true, "Valid"
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return false, "Missing required field: " + verrs[0].Field()
	}
	return false, err.Error()
}

var entryFieldLabels = map[string]string{
	"title":   "Title",
	"vehicle": "Vehicle",
	"date":    "Date",
}

// ValidateMaintenanceEntry checks an entry before it is created. Title,
// vehicle and date must not be blank, and the date must be YYYY-MM-DD.
func ValidateMaintenanceEntry(e MaintenanceEntry) (bool, []string) {
	err := validate.Struct(e)
	if err == nil {
		return true, []string{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := entryFieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "ymd":
			msgs = append(msgs, label+" must be in YYYY-MM-DD format")
		default:
			msgs = append(msgs, label+" is required")
		}
	}
	return false, msgs
}
