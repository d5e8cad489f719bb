package service

import (
	"errors"
	"fmt"
	"strings"

	"go-pos-core/internal/repository"
	"go-pos-core/pkg/validator"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrDuplicateSKU      = repository.ErrDuplicateSKU
	ErrDuplicateUsername = repository.ErrDuplicateUsername
	ErrInsufficientStock = repository.ErrInsufficientStock

	ErrEmptyCart          = errors.New("sale must have at least one line")
	ErrInvalidQuantity    = errors.New("quantity must be positive and adjustments non-zero")
	ErrInvalidPrice       = errors.New("unit price must be non-negative with at most 2 decimals")
	ErrSKUImmutable       = errors.New("sku cannot be changed after creation")
	ErrAccountInUse       = errors.New("account is referenced by sales or adjustments")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbiddenRole      = errors.New("unknown role")
	ErrSessionExpired     = errors.New("session expired (logged in on another device)")
)

// TransactionError reports a store failure inside an atomic operation. The
// operation was rolled back in full.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

// ValidationError carries field-level failures from request validation.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("field '%s' failed on tag '%s'", f.FailedField, f.Tag))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validate(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

var domainErrors = []error{
	ErrNotFound, ErrDuplicateSKU, ErrDuplicateUsername, ErrInsufficientStock,
	ErrEmptyCart, ErrInvalidQuantity, ErrInvalidPrice, ErrSKUImmutable, ErrAccountInUse,
}

// wrapTx leaves domain errors as they are and wraps everything else as a TransactionError.
func wrapTx(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &TransactionError{Op: op, Err: err}
}
