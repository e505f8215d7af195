// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("age_group", validateAgeGroup)
		_ = v.RegisterValidation("gender", validateGender)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateAgeGroup(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "10s", "20s", "30s", "40s", "50s":
		return true
	}
	return false
}

func validateGender(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "M", "F", "O":
		return true
	}
	return false
}
