package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrDuplicateReceipt  = errors.New("número de boleta ya utilizado")
	ErrProductNotFound   = errors.New("producto no existe")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ProductNotFoundError indica qué producto del carrito no existe.
// errors.Is(err, ErrProductNotFound) es verdadero.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %d no existe", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError indica la primera línea del carrito sin stock suficiente.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("producto %d", e.ProductID)
	}
	return fmt.Sprintf("stock insuficiente para %s (solicitado %d, disponible %d)", name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
