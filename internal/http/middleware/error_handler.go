package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mrhujaifa/prime-healthcare-backend/domain"
)

// ErrorSource points at the request field or concern that failed.
type ErrorSource struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ErrorEnvelope is the single error response shape for the whole API.
type ErrorEnvelope struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	ErrorSources []ErrorSource `json:"errorSources"`
}

// ErrorHandler is the single boundary that turns errors pushed onto
// the gin context into HTTP responses. Handlers and middleware never
// write error bodies themselves.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status := domain.StatusCodeOf(err)
		message := "something went wrong"
		sources := []ErrorSource{}

		var validationErrs validator.ValidationErrors
		var appErr *domain.AppError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
			errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			status = http.StatusBadRequest
			message = "invalid request body"
			sources = append(sources, ErrorSource{Path: "", Message: message})
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
			message = "validation failed"
			for _, fe := range validationErrs {
				sources = append(sources, ErrorSource{
					Path:    fe.Field(),
					Message: validationMessage(fe),
				})
			}
		case errors.As(err, &appErr):
			message = appErr.Message
			sources = append(sources, ErrorSource{Path: "", Message: message})
		default:
			if status != http.StatusInternalServerError {
				message = err.Error()
			}
			sources = append(sources, ErrorSource{Path: "", Message: message})
		}

		if status == http.StatusInternalServerError {
			log.Printf("INTERNAL_ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			if production {
				// Internal details stay out of production responses.
				sources = []ErrorSource{{Path: "", Message: "something went wrong"}}
			}
		}

		c.JSON(status, ErrorEnvelope{
			Success:      false,
			Message:      message,
			ErrorSources: sources,
		})
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}
