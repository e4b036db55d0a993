package handler

import (
	"reflect"
	"strings"
	"sync"

	"yamdb/internal/microservices/http-api/validators"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes error fields report JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		// registration only fails on an empty tag or nil func
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return validators.Username(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return validators.Slug(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			switch fl.Field().Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return validators.Year(int(fl.Field().Int())) == nil
			}
			return false
		})
	})
}
