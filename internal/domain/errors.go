package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("cannot transfer to the same account")
	ErrDuplicateNumber     = errors.New("account number already taken")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrStorage             = errors.New("storage failure")
)
