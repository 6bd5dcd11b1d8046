// Package validator valida los DTO de entrada con go-playground/validator.
package validator

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/textil-api/internal/domain"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/domain/entity"
	"github.com/jhoicas/textil-api/pkg/gstin"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get devuelve el validador compartido, con los tipos y tags propios registrados.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// nombres de campo según el tag json
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// decimal.Decimal se valida como número: gte=0, gt=0, lte=100
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
			return dbilling.ValidIdentifier(fl.Field().String())
		})
		_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
			return gstin.Validate(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return entity.PaymentMethod(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("discount_mode", func(fl validator.FieldLevel) bool {
			m := entity.DiscountMode(fl.Field().String())
			return m == "" || m == entity.DiscountPercent || m == entity.DiscountFixed
		})

		validate = v
	})
	return validate
}

// ValidationError detalle por campo (ruta json → regla incumplida).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, "; ")
}

// ValidateRequest valida req. El error queda marcado con domain.ErrInvalidInput.
func ValidateRequest(req interface{}) error {
	err := Get().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(errors.Wrap(err, "validación"), domain.ErrInvalidInput)
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fieldPath(fe.Namespace())] = rule(fe)
	}
	return errors.Mark(ve, domain.ErrInvalidInput)
}

// fieldPath quita el nombre del struct raíz: "SaveInvoiceRequest.buyer.phone" → "buyer.phone".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func rule(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}
