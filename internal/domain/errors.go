package domain

import "errors"

// Failure kinds returned by the order engine. Callers match them with errors.Is;
// the message of a wrapped error carries the entity and values involved.
var (
	ErrNotFound                = errors.New("not found")
	ErrOrderTerminal           = errors.New("order is completed or cancelled")
	ErrInvalidTransition       = errors.New("invalid order status transition")
	ErrItemUnavailable         = errors.New("item unavailable")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrTableUnavailable        = errors.New("table unavailable")
	ErrAlreadyOccupied         = errors.New("table already occupied")
	ErrWorkerInactive          = errors.New("worker inactive")
	ErrPaymentRequired         = errors.New("payment required")
	ErrAlreadyPaid             = errors.New("order already paid")
	ErrUnderPayment            = errors.New("tendered amount is less than order total")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidStatusTransition = errors.New("invalid item status transition")
	ErrStorageUnavailable      = errors.New("storage unavailable")

	ErrReferentialConflict = errors.New("entity is still referenced")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDuplicate           = errors.New("duplicate entity")
	ErrLastSupervisor      = errors.New("cannot deactivate the last active admin or manager")
)
