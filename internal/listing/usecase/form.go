package usecase

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ListingForm carries the submitted form fields. All values arrive as
// strings, exactly as the web form sends them.
type ListingForm struct {
	Name        string `json:"name" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Year        string `json:"year" validate:"required"`
	Mileage     string `json:"km" validate:"required"`
	Price       string `json:"price" validate:"required"`
	City        string `json:"city" validate:"required"`
	Phone       string `json:"whatsapp" validate:"required,br_phone"`
	Description string `json:"description" validate:"required"`
}

var brPhoneRegex = regexp.MustCompile(`^\d{10,11}$`)

// NewFormValidator returns a validator with the custom phone rule
// registered. Brazilian numbers are 10 or 11 digits, digits only.
func NewFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("br_phone", func(fl validator.FieldLevel) bool {
		return brPhoneRegex.MatchString(fl.Field().String())
	})
	return v
}
