package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/domain"
)

// Códigos de error expuestos en el cuerpo {code, detail}.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION"
	CodeEmptyCart         = "EMPTY_CART"
	CodeDuplicateReceipt  = "DUPLICATE_RECEIPT"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeMissingRole       = "MISSING_ROLE"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL"
)

// errorMapping tabla única error de dominio -> (status, code).
// El orden importa: los errores de venta se evalúan antes que ErrInvalidInput.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrEmptyCart, fiber.StatusBadRequest, CodeEmptyCart},
	{domain.ErrDuplicateReceipt, fiber.StatusBadRequest, CodeDuplicateReceipt},
	{domain.ErrProductNotFound, fiber.StatusBadRequest, CodeProductNotFound},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, CodeInsufficientStock},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
	{domain.ErrUserNotFound, fiber.StatusNotFound, CodeNotFound},
}

// writeError traduce err a la respuesta HTTP. Los errores no mapeados son 500
// y su detalle no se expone al cliente.
func writeError(c *fiber.Ctx, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return respondError(c, fiber.StatusBadRequest, reqErr.code, reqErr.detail)
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return respondError(c, m.status, m.code, err.Error())
		}
	}
	log.Error().Err(err).
		Str("request_id", GetRequestID(c)).
		Str("path", c.Path()).
		Msg("error interno")
	return respondError(c, fiber.StatusInternalServerError, CodeInternal, "error interno del servidor")
}

func respondError(c *fiber.Ctx, status int, code, detail string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Detail: detail})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados, etc.).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return respondError(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err)
}
