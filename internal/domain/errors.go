package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a códigos de estado.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUnauthorized       = errors.New("no autenticado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNoValidFields      = errors.New("no hay campos válidos para actualizar")
	ErrPartialRejection   = errors.New("el payload contiene campos no permitidos")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrRateLimited        = errors.New("demasiados intentos, intente más tarde")
)

// PartialRejectionError lista los campos descartados cuando el filtrado estricto está activo.
type PartialRejectionError struct {
	Fields []string
}

func (e *PartialRejectionError) Error() string {
	return ErrPartialRejection.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *PartialRejectionError) Unwrap() error { return ErrPartialRejection }
