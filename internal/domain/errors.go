package domain

import "errors"

// Store-level sentinels. Repositories translate driver errors into these.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// ErrConflict reports a write rejected because the document is not in the
// expected state (for example cancelling a shipped order).
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock is returned when a checkout line exceeds stock.
var ErrInsufficientStock = errors.New("insufficient stock")
