package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInvalidSignature   = errors.New("firma inválida")
	ErrSessionAlreadyOpen = errors.New("el usuario ya tiene una sesión POS abierta")
	ErrSessionClosed      = errors.New("la sesión POS está cerrada")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrLockNotObtained    = errors.New("recurso bloqueado por otra operación")
)

// IsNotFound indica si err es (o envuelve) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
