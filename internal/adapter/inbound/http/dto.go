package http

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern matches the login credential format: optional leading plus,
// then 10 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// newValidator creates the request validator with the custom rules the DTOs
// reference.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// formatRequestErrors converts validator errors into a client-facing message.
func formatRequestErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "phone":
			msgs = append(msgs, field+" must be a phone number (10-15 digits, optional +)")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// registerRequest is the body for POST /api/users/register.
type registerRequest struct {
	Number   string `json:"number" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email" validate:"omitempty,email"`
	VkID     string `json:"vkId"`
	Gender   string `json:"gender"`
}

// loginRequest is the body for POST /api/users/login.
type loginRequest struct {
	Number   string `json:"number" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updatePasswordRequest is the body for PUT /api/users/updatePassword.
type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// updateUserRequest is the body for PUT /api/admin/updateUser/{id}.
// Empty fields are left unchanged.
type updateUserRequest struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Number   string `json:"number" validate:"omitempty,phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	VkID     string `json:"vkId"`
}

// createProductRequest is the body for POST /api/products/createProduct.
type createProductRequest struct {
	Price       float64 `json:"price" validate:"required,gt=0"`
	URL         string  `json:"url" validate:"required,url"`
	Gender      string  `json:"gender"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
}

// updateProductRequest is the body for PUT /api/products/updateProduct/{id}.
// Zero-valued fields are left unchanged.
type updateProductRequest struct {
	Price       float64 `json:"price" validate:"omitempty,gt=0"`
	URL         string  `json:"url" validate:"omitempty,url"`
	Gender      string  `json:"gender"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}
