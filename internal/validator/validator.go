package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var seatRowRgx = regexp.MustCompile(`^[A-Z]{1,2}$`)

func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("seat_row", validateSeatRow)
	validate.RegisterValidation("order_channel", validateOrderChannel)
	validate.RegisterValidation("pos_mode", validatePosMode)

	return validate
}

func validateSeatRow(fl validator.FieldLevel) bool {
	return seatRowRgx.MatchString(fl.Field().String())
}

func validateOrderChannel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "web", "mobile", "pos":
		return true
	}

	return false
}

func validatePosMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "products", "tickets", "checkout":
		return true
	}

	return false
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "seat_row":
		return "must be a row label of one or two uppercase letters"
	case "order_channel":
		return "must be one of web, mobile or pos"
	case "pos_mode":
		return "must be one of products, tickets or checkout"
	default:
		return "is invalid"
	}
}
