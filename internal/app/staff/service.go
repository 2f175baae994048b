package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

type Service struct {
	store  interfaces.Store
	logger logger.Logger

	// guards the last-supervisor check against concurrent demotions
	mu sync.Mutex
}

func NewService(store interfaces.Store, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

var _ interfaces.StaffService = (*Service)(nil)

func (s *Service) AddWorker(ctx context.Context, cmd interfaces.AddWorkerCommand) (*domain.Worker, error) {
	worker, err := domain.NewWorker(cmd.Name, cmd.Username, cmd.Role)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		_, err := tx.Workers().GetByUsername(ctx, worker.Username)
		switch {
		case err == nil:
			return fmt.Errorf("%w: username %q is taken", domain.ErrDuplicate, worker.Username)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return tx.Workers().Upsert(ctx, worker)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("worker_added", fmt.Sprintf("Worker %s added", worker.Username), "", map[string]interface{}{
		"worker_id": worker.ID,
		"role":      worker.Role,
	})
	return worker, nil
}

// UpdateWorker renames or changes the role. Moving the last active
// supervisor to a non-supervisor role fails with domain.ErrLastSupervisor.
func (s *Service) UpdateWorker(ctx context.Context, cmd interfaces.UpdateWorkerCommand) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var worker *domain.Worker
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		worker, err = tx.Workers().Get(ctx, cmd.ID)
		if err != nil {
			return err
		}

		wasSupervisor := worker.IsActiveSupervisor()
		if cmd.Name != nil {
			worker.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Role != nil {
			worker.Role = *cmd.Role
		}
		if err := worker.Validate(); err != nil {
			return err
		}

		if wasSupervisor && !worker.IsActiveSupervisor() {
			if err := s.ensureAnotherSupervisor(ctx, tx, worker.ID); err != nil {
				return err
			}
		}
		return tx.Workers().Upsert(ctx, worker)
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func (s *Service) SetWorkerActive(ctx context.Context, id int, active bool) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var worker *domain.Worker
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		worker, err = tx.Workers().Get(ctx, id)
		if err != nil {
			return err
		}
		if worker.IsActive == active {
			return nil
		}

		if !active && worker.IsActiveSupervisor() {
			if err := s.ensureAnotherSupervisor(ctx, tx, worker.ID); err != nil {
				return err
			}
		}
		worker.IsActive = active
		return tx.Workers().Upsert(ctx, worker)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("worker_active_changed", "Worker activity changed", "", map[string]interface{}{
		"worker_id": worker.ID,
		"active":    worker.IsActive,
	})
	return worker, nil
}

func (s *Service) ensureAnotherSupervisor(ctx context.Context, tx interfaces.Tx, workerID int) error {
	n, err := tx.Workers().CountActiveSupervisors(ctx, workerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: worker %d", domain.ErrLastSupervisor, workerID)
	}
	return nil
}

func (s *Service) ListWorkers(ctx context.Context, activeOnly bool) ([]*domain.Worker, error) {
	return s.store.Workers().List(ctx, activeOnly)
}
