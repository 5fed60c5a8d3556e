package rest

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/notesvault/notesvault/internal/common"
)

// Response is the body of every message or error reply.
type Response struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Response{Message: msg})
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var defaultMessages = map[int]string{
	http.StatusBadRequest:          "invalid request",
	http.StatusUnauthorized:        "authentication required",
	http.StatusForbidden:           "invalid or expired token",
	http.StatusNotFound:            "not found",
	http.StatusConflict:            "already exists",
	http.StatusInternalServerError: "internal server error",
}

// fail writes err as a JSON error reply. msg replaces the default text for the
// status unless the status is 500, whose body never carries details.
func fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)

	resp := Response{Message: defaultMessages[status]}
	if msg != "" && status != http.StatusInternalServerError {
		resp.Message = msg
	}

	var ve *common.ValidationError
	if status == http.StatusBadRequest && errors.As(err, &ve) {
		resp.Message = "validation failed"
		resp.Errors = ve.Problems
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts failures into a
// common.ValidationError with one readable line per field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewValidationError(err.Error())
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.ActualTag() {
		case "required":
			problems = append(problems, fmt.Sprintf("field %s is required", fe.Field()))
		case "min":
			problems = append(problems, fmt.Sprintf("field %s must be at least %s characters", fe.Field(), fe.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("field %s is not valid", fe.Field()))
		}
	}
	return common.NewValidationError(problems...)
}
