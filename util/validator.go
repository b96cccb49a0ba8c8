package util

import (
	"github.com/go-playground/validator/v10"

	"github.com/klokal/databuilder/internal/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("category", validateCategory)
	validate.RegisterValidation("region", validateRegion)
}

func validateCategory(fl validator.FieldLevel) bool {
	return model.IsCategory(fl.Field().String())
}

func validateRegion(fl validator.FieldLevel) bool {
	return model.IsRegion(fl.Field().String())
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
