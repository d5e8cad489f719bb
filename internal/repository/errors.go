package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateSaleKey  = errors.New("idempotency key already used")
)

// notFound maps gorm's sentinel to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
