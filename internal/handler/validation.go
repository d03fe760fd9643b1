package handler

import (
	"reflect"
	"strings"

	"github.com/cabpool/internal/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 在 gin 的校验引擎上注册业务校验规则。
func RegisterValidators() error {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerValidators(engine)
}

func registerValidators(v *validator.Validate) error {
	// report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"slug": func(fl validator.FieldLevel) bool {
			return service.IsValidSlug(fl.Field().String())
		},
		"navlocation": func(fl validator.FieldLevel) bool {
			return service.IsNavigationLocation(strings.ToLower(strings.TrimSpace(fl.Field().String())))
		},
		"href": func(fl validator.FieldLevel) bool {
			return service.IsValidHref(strings.TrimSpace(fl.Field().String()))
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
