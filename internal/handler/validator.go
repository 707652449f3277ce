package handler

import (
	"errors"
	"net/http"
	"reflect"
	"silkrhyme/internal/apperror"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo's c.Validate.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	// report JSON names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return apperror.New(http.StatusBadRequest, validationMessage(validationErrors[0]), err)
	}
	return apperror.New(http.StatusBadRequest, "请求参数无效", err)
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "缺少参数：" + e.Field()
	case "email":
		return "邮箱格式无效"
	case "gte", "min":
		return "参数取值过小：" + e.Field()
	default:
		return "参数无效：" + e.Field()
	}
}
