package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mercatto/pos/internal/domain/sale"
	"github.com/mercatto/pos/internal/interfaces/http/dto"
)

// SetupValidator configures gin's validator with JSON field names and the
// terminal's custom tags. Call once before building the router.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// paymethod accepts only the payment methods the retail backend knows
	_ = v.RegisterValidation("paymethod", func(fl validator.FieldLevel) bool {
		return sale.PaymentMethod(fl.Field().String()).IsValid()
	})
}

// HandleValidationError renders a binding failure as a 400 with per-field
// details when the error carries them.
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", details))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "gt":
		return "Must be greater than " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "paymethod":
		return "Unknown payment method"
	case "uuid":
		return "Invalid UUID format"
	default:
		return "Invalid value"
	}
}
