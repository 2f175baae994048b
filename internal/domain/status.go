package domain

import "fmt"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists order statuses in lifecycle order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further mutation is accepted in this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidArgument, v)
	}
	return s, nil
}

type ItemStatus string

const (
	ItemAvailable    ItemStatus = "available"
	ItemOutOfStock   ItemStatus = "out_of_stock"
	ItemDiscontinued ItemStatus = "discontinued"
	ItemSeasonal     ItemStatus = "seasonal"
)

var ItemStatuses = []ItemStatus{ItemAvailable, ItemOutOfStock, ItemDiscontinued, ItemSeasonal}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemOutOfStock, ItemDiscontinued, ItemSeasonal:
		return true
	}
	return false
}

func ParseItemStatus(v string) (ItemStatus, error) {
	s := ItemStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown item status %q", ErrInvalidArgument, v)
	}
	return s, nil
}

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentDebitCard     PaymentMethod = "debit_card"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentDigitalWallet}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentDigitalWallet:
		return true
	}
	return false
}

func ParsePaymentMethod(v string) (PaymentMethod, error) {
	m := PaymentMethod(v)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidArgument, v)
	}
	return m, nil
}

type WorkerRole string

const (
	RoleCashier WorkerRole = "cashier"
	RoleManager WorkerRole = "manager"
	RoleAdmin   WorkerRole = "admin"
	RoleChef    WorkerRole = "chef"
)

func (r WorkerRole) Valid() bool {
	switch r {
	case RoleCashier, RoleManager, RoleAdmin, RoleChef:
		return true
	}
	return false
}

// IsSupervisor reports whether the role counts towards the last-supervisor guard.
func (r WorkerRole) IsSupervisor() bool {
	return r == RoleAdmin || r == RoleManager
}

func ParseWorkerRole(v string) (WorkerRole, error) {
	r := WorkerRole(v)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown worker role %q", ErrInvalidArgument, v)
	}
	return r, nil
}
