package domain

import "errors"

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSeatAlreadyLocked   = errors.New("seat(s) are already locked")
	ErrSeatAlreadyReserved = errors.New("seat(s) are already reserved")
	ErrSeatLockExpired     = errors.New("seat locks have expired, please select your seats again")
	ErrSeatLockConflict    = errors.New("a locked seat does not belong to the current session")
	ErrOrderNotPending     = errors.New("order is not in a pending state")
	ErrEmptyOrder          = errors.New("order has no items")
)
