package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/microservices/http-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// respondError writes the response for err. Every handler funnels its
// failures through here so the status mapping lives in one place.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, permission.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, permission.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

// bindJSON decodes and validates the body into obj. An empty body is
// validated as an empty object so required fields are reported by name.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		return bindingErrors(err)
	}
	return nil
}

// bindingErrors converts decoding and validator failures into a field map.
func bindingErrors(err error) *service.ValidationError {
	out := &service.ValidationError{}

	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			out.Add(fe.Field(), fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		out.Add(typeErr.Field, fmt.Sprintf("expected a value of type %s", typeErr.Type))
	case errors.As(err, &syntaxErr):
		out.Add("non_field_errors", "JSON parse error: "+syntaxErr.Error())
	default:
		out.Add("non_field_errors", err.Error())
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return "this field may not be blank"
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "username":
		if err := validators.Username(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
	case "slug":
		if err := validators.Slug(fmt.Sprint(fe.Value())); err != nil {
			return err.Error()
		}
	case "notfuture":
		return "year cannot be later than the current year"
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
