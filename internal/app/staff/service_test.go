package staff

import (
	"context"
	"testing"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/adapter/memory"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(memory.NewStore(time.Second), logger.NewNop())
}

func TestAddWorker(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	w, err := svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "Mia", Username: "mia"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, w.Role)
	assert.True(t, w.IsActive)

	_, err = svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "Mia Two", Username: "mia"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "X", Username: "x", Role: "janitor"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLastSupervisorGuard(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	admin, err := svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "Ada", Username: "ada", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.SetWorkerActive(ctx, admin.ID, false)
	require.ErrorIs(t, err, domain.ErrLastSupervisor)

	cashier := domain.RoleCashier
	_, err = svc.UpdateWorker(ctx, interfaces.UpdateWorkerCommand{ID: admin.ID, Role: &cashier})
	require.ErrorIs(t, err, domain.ErrLastSupervisor)

	_, err = svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "Max", Username: "max", Role: domain.RoleManager})
	require.NoError(t, err)

	off, err := svc.SetWorkerActive(ctx, admin.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	active, err := svc.ListWorkers(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "max", active[0].Username)
}

func TestUpdateWorker(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	w, err := svc.AddWorker(ctx, interfaces.AddWorkerCommand{Name: "Sam", Username: "sam"})
	require.NoError(t, err)

	name := " Samuel "
	chef := domain.RoleChef
	updated, err := svc.UpdateWorker(ctx, interfaces.UpdateWorkerCommand{ID: w.ID, Name: &name, Role: &chef})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.Name)
	assert.Equal(t, domain.RoleChef, updated.Role)

	_, err = svc.UpdateWorker(ctx, interfaces.UpdateWorkerCommand{ID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
