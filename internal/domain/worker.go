package domain

import (
	"fmt"
	"strings"
	"time"
)

// Worker represents a cafeteria staff member who takes orders
type Worker struct {
	ID        int
	Name      string
	Username  string
	Role      WorkerRole
	IsActive  bool
	CreatedAt time.Time
}

// NewWorker creates a new active worker, defaulting the role to cashier
func NewWorker(name, username string, role WorkerRole) (*Worker, error) {
	if role == "" {
		role = RoleCashier
	}

	w := &Worker{
		Name:      strings.TrimSpace(name),
		Username:  strings.TrimSpace(username),
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Worker) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("%w: worker name is required", ErrInvalidArgument)
	}
	if w.Username == "" || len(w.Username) > 50 {
		return fmt.Errorf("%w: username must be 1-50 characters", ErrInvalidArgument)
	}
	if !w.Role.Valid() {
		return fmt.Errorf("%w: unknown worker role %q", ErrInvalidArgument, w.Role)
	}
	return nil
}

// IsActiveSupervisor reports whether the worker is an active admin or manager
func (w *Worker) IsActiveSupervisor() bool {
	return w.IsActive && w.Role.IsSupervisor()
}
