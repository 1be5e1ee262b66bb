package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrTooManyAttempts    = errors.New("demasiados intentos, intente más tarde")
)

// NotFoundError indica que la entidad buscada por Field = Value no existe.
// errors.Is(err, ErrNotFound) es verdadero.
type NotFoundError struct {
	Entity string
	Field  string
	Value  any
}

// NewNotFound construye un NotFoundError.
func NewNotFound(entity, field string, value any) *NotFoundError {
	return &NotFoundError{Entity: entity, Field: field, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado con %s: '%v'", e.Entity, e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError indica que Value ya está registrado en el campo Field (NIT, email...).
// errors.Is(err, ErrConflict) es verdadero.
type ConflictError struct {
	Entity string
	Field  string
	Value  any
}

// NewConflict construye un ConflictError.
func NewConflict(entity, field string, value any) *ConflictError {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("ya existe un %s con el %s: %v", e.Entity, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
