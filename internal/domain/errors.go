package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrNoDefaultSettings     = errors.New("no hay configuración predeterminada para el marketplace")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
	ErrMissingCosts          = errors.New("hay SKUs sin costo registrado")
	ErrRequiredFieldsMissing = errors.New("faltan columnas obligatorias en el mapeo")
	ErrInfeasiblePrice       = errors.New("no existe precio que alcance el margen objetivo")
	ErrUnsupportedFile       = errors.New("tipo de archivo no soportado")
)
