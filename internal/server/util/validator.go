package util

import (
	"regexp"

	"github.com/go-playground/validator"
)

// nodeNamePattern matches names such as "003" or "003-HallA".
var nodeNamePattern = regexp.MustCompile(`^\d+(-[a-zA-Z0-9]+)*$`)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator with the nodename tag
// registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	if err := v.RegisterValidation("nodename", validateNodeName); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func validateNodeName(fl validator.FieldLevel) bool {
	return IsValidNodeName(fl.Field().String())
}

func IsValidNodeName(name string) bool {
	return len(name) >= 3 && len(name) <= 30 && nodeNamePattern.MatchString(name)
}
