package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/dto"
	"github.com/jhoicas/naturalmede-api/internal/domain"
)

var validate = newValidator()

// newValidator reporta los campos con su nombre json (o query) para que details coincida con
// lo que envía el cliente.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	return v
}

// statusFor traduce los errores de dominio a código HTTP y código de error de la API.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyCart):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSessionAlreadyOpen), errors.Is(err, domain.ErrSessionClosed):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInvalidSignature):
		return fiber.StatusBadRequest, "INVALID_SIGNATURE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrLockNotObtained):
		return fiber.StatusLocked, "LOCKED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// fail responde el error de dominio con el formato dto.ErrorResponse.
func fail(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// bind parsea el cuerpo JSON y lo valida. Si devuelve false la respuesta ya fue escrita.
func bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	return check(c, out)
}

// bindQuery parsea y valida los parámetros de query.
func bindQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	return check(c, out)
}

func check(c *fiber.Ctx, out any) (bool, error) {
	err := validate.Struct(out)
	if err == nil {
		return true, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, badRequest(c, "VALIDATION", err.Error())
	}
	details := make(map[string]string, len(verrs))
	for _, e := range verrs {
		details[fieldName(e)] = validationMessage(e)
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Details: details,
	})
}

// fieldName quita el nombre del struct raíz: items[0].product_id.
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "url":
		return "debe ser una URL válida"
	case "uuid":
		return "debe ser un UUID válido"
	case "min":
		return "mínimo " + e.Param()
	case "max":
		return "máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "nefield":
		return "debe ser distinto de " + snake(e.Param())
	default:
		return "valor inválido"
	}
}

// queryDate lee una fecha YYYY-MM-DD o RFC3339 del query. Vacío devuelve nil.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRange lee start/end (o from/to). El fin, si es solo fecha, incluye todo ese día.
func dateRange(c *fiber.Ctx) (from, to *time.Time, ok bool) {
	startKey, endKey := "start_date", "end_date"
	if c.Query(startKey) == "" && c.Query("from") != "" {
		startKey = "from"
	}
	if c.Query(endKey) == "" && c.Query("to") != "" {
		endKey = "to"
	}
	from, err := queryDate(c, startKey)
	if err != nil {
		return nil, nil, false
	}
	to, err = queryDate(c, endKey)
	if err != nil {
		return nil, nil, false
	}
	if to != nil && len(strings.TrimSpace(c.Query(endKey))) == len(time.DateOnly) {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, true
}

// queryDecimal lee un decimal del query. Vacío devuelve cero.
func queryDecimal(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
