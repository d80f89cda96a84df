package errors

import "errors"

var (
	ErrInvalidUserID          = errors.New("invalid user id")
	ErrInvalidRoleID          = errors.New("invalid role id")
	ErrInvalidRoleName        = errors.New("invalid role name")
	ErrInvalidAdminID         = errors.New("invalid admin id")
	ErrRoleNotFound           = errors.New("role not found")
	ErrRoleAlreadyAssigned    = errors.New("role already assigned")
	ErrRoleNotAssigned        = errors.New("role not assigned")
	ErrForbidden              = errors.New("forbidden")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
	ErrOutboxRowMissing       = errors.New("outbox record not found")
)
