// Package fault is the error taxonomy shared by every use case. A fault is a
// tagged variant: Kind is the discriminant and the remaining fields carry the
// payload relevant to that kind.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindConflict          Kind = "CONFLICT"
	KindInfrastructure    Kind = "INFRASTRUCTURE_ERROR"
)

// Sentinels match any fault of the same kind with errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInfrastructure    = &Error{Kind: KindInfrastructure}
)

// Shortfall details an InsufficientStock fault.
type Shortfall struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	RequestedQuantity int    `json:"requested_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
}

type Error struct {
	Kind    Kind
	Message string

	// NotFound
	Resource string
	ID       string

	// InsufficientStock
	Shortfall *Shortfall

	// Validation: field name -> messages
	Fields map[string][]string

	// Infrastructure
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Code is the machine-readable code exposed to callers.
func (e *Error) Code() string { return string(e.Kind) }

func NotFound(resource, id string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  fmt.Sprintf("%s with ID '%s' not found", resource, id),
		Resource: resource,
		ID:       id,
	}
}

func InsufficientStock(productID, productName string, requested, available int) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d",
			productName, requested, available),
		Shortfall: &Shortfall{
			ProductID:         productID,
			ProductName:       productName,
			RequestedQuantity: requested,
			AvailableQuantity: available,
		},
	}
}

func Validation(message string, fields map[string][]string) *Error {
	if fields == nil {
		fields = map[string][]string{}
	}
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "unauthorized"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// Conflict reports a request that collides with one still in progress.
func Conflict(message string) *Error {
	if message == "" {
		message = "conflict"
	}
	return &Error{Kind: KindConflict, Message: message}
}

// Infrastructure wraps a storage or transport failure. Faults already carried
// by err are returned unchanged.
func Infrastructure(op string, err error) error {
	if err == nil {
		return nil
	}
	var f *Error
	if errors.As(err, &f) {
		return err
	}
	return &Error{
		Kind:    KindInfrastructure,
		Message: fmt.Sprintf("%s: %v", op, err),
		Op:      op,
		Err:     err,
	}
}

// As extracts the fault carried by err.
func As(err error) (*Error, bool) {
	var f *Error
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf returns the fault kind of err, treating foreign errors as infrastructure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if f, ok := As(err); ok {
		return f.Kind
	}
	return KindInfrastructure
}
