package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds the request body into dst and writes a 400 with a
// field-level message itself when the payload is bad. Returns false if
// the handler should stop.
func BindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, validationMessage(fe))
		}
		RespondBadRequest(c, "validation_failed", strings.Join(msgs, "; "))
		return false
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		RespondBadRequest(c, "invalid_body",
			fmt.Sprintf("field %q must be of type %s", typeErr.Field, typeErr.Type.String()))
		return false
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		RespondBadRequest(c, "invalid_body", "request body is not valid JSON")
		return false
	}

	RespondBadRequest(c, "invalid_body", "could not parse request body")
	return false
}

func validationMessage(fe validator.FieldError) string {
	field := jsonFieldName(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func jsonFieldName(fe validator.FieldError) string {
	// validator reports the Go field name; lowercase the first rune so
	// messages line up with the JSON payload.
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
