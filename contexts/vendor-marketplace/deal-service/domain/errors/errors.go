package errors

import "errors"

var (
	ErrInvalidVendorID     = errors.New("invalid vendor id")
	ErrInvalidDealValue    = errors.New("deal value must be a number greater than zero")
	ErrInvalidField        = errors.New("field is not updatable")
	ErrEmptyUpdate         = errors.New("update must change at least one field")
	ErrInvalidListFilter   = errors.New("invalid list filter")
	ErrUnknownCategory     = errors.New("unknown vendor category")
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrVersionConflict     = errors.New("vendor was modified by another writer")
	ErrRepositoryInvariant = errors.New("repository invariant broken")
)
