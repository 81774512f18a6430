package engine

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"stock-reconciliation/internal/domain"
)

var structRules = newStructRules()

func newStructRules() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// fieldErrors runs the struct tag rules on s and maps each failure through mk.
func fieldErrors(s any, mk func(field, tag string) domain.ValidationError) domain.ValidationErrors {
	err := structRules.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationErrors{{
			Kind:    domain.ErrorKindInvalidField,
			Message: err.Error(),
		}}
	}
	out := make(domain.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, mk(fe.Field(), fe.Tag()))
	}
	return out
}

func tagMessage(field, tag string) string {
	switch tag {
	case "notblank":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s has an unsupported value", field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s failed %s", field, tag)
	}
}
