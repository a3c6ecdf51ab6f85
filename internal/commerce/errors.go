package commerce

import "errors"

var (
	// ErrCustomerNotFound is returned when no customer has the given ID.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound is returned when no product has the given ID.
	ErrProductNotFound = errors.New("product not found")

	ErrCustomerExists = errors.New("customer already exists")
	ErrProductExists  = errors.New("product already exists")

	// ErrEmptyID is returned when trying to store a record with an empty ID.
	ErrEmptyID = errors.New("empty id")

	ErrInvalidData       = errors.New("invalid data")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientStock = errors.New("insufficient stock")
)
