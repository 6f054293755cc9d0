package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator valida con nombres de campo JSON y compara decimales como números (gt, gte).
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
	})
	return validate
}

// requestError cuerpo ilegible o con campos inválidos.
type requestError struct {
	code    string
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

// bindAndValidate parsea el cuerpo JSON y aplica las etiquetas validate.
func bindAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{code: "INVALID_BODY", message: "cuerpo inválido"}
	}
	if err := getValidator().Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &requestError{code: "VALIDATION", message: "datos inválidos", fields: validationFields(verrs)}
		}
		return &requestError{code: "VALIDATION", message: err.Error()}
	}
	return nil
}

func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e.Namespace())] = validationMessage(e)
	}
	return fields
}

// fieldPath quita el nombre del struct raíz: "TransferRequest.quantity" → "quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es requerido"
	case "min":
		return "debe tener al menos " + e.Param()
	case "max":
		return "debe tener como máximo " + e.Param()
	case "gt":
		return "debe ser mayor que " + e.Param()
	case "gte":
		return "debe ser mayor o igual que " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	default:
		return "es inválido"
	}
}
