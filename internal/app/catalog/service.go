package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YelzhanWeb/cafeteria/internal/adapter/logger"
	"github.com/YelzhanWeb/cafeteria/internal/app/inventory"
	"github.com/YelzhanWeb/cafeteria/internal/domain"
	"github.com/YelzhanWeb/cafeteria/internal/interfaces"
)

// Service manages categories and menu items.
type Service struct {
	store  interfaces.Store
	ledger *inventory.Ledger
	logger logger.Logger
}

func NewService(store interfaces.Store, ledger *inventory.Ledger, logger logger.Logger) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		logger: logger,
	}
}

var _ interfaces.CatalogService = (*Service)(nil)

func (s *Service) AddCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return nil, fmt.Errorf("%w: category name must be 1-50 characters", domain.ErrInvalidArgument)
	}

	category := &domain.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.store.Categories().Upsert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.Categories().List(ctx)
}

func (s *Service) AddItem(ctx context.Context, cmd interfaces.AddItemCommand) (*domain.Item, error) {
	item, err := domain.NewItem(cmd.Name, cmd.Description, cmd.Price, cmd.Stock, cmd.Status, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		if _, err := tx.Categories().Get(ctx, item.CategoryID); err != nil {
			return err
		}
		return tx.Items().Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item_added", "Menu item added", "", map[string]interface{}{"item_id": item.ID, "status": item.Status})
	return item, nil
}

// UpdateItem applies the set fields. Price changes never reach existing order
// lines; stock edits re-couple the status.
func (s *Service) UpdateItem(ctx context.Context, cmd interfaces.UpdateItemCommand) (*domain.Item, error) {
	var item *domain.Item
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		var err error
		item, err = tx.Items().Lock(ctx, cmd.ID)
		if err != nil {
			return err
		}

		if cmd.Name != nil {
			item.Name = strings.TrimSpace(*cmd.Name)
		}
		if cmd.Description != nil {
			item.Description = strings.TrimSpace(*cmd.Description)
		}
		if cmd.Price != nil {
			item.Price = domain.Money(*cmd.Price)
		}
		if cmd.Stock != nil {
			item.Stock = *cmd.Stock
		}
		if cmd.CategoryID != nil {
			if _, err := tx.Categories().Get(ctx, *cmd.CategoryID); err != nil {
				return err
			}
			item.CategoryID = *cmd.CategoryID
		}

		if err := item.Validate(); err != nil {
			return err
		}
		item.Recouple()
		item.UpdatedAt = time.Now()
		return tx.Items().Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an unreferenced item. A referenced item is either
// rejected or, with discontinueIfReferenced, kept and marked discontinued; in
// that case the updated item is returned.
func (s *Service) DeleteItem(ctx context.Context, id int, discontinueIfReferenced bool) (*domain.Item, error) {
	var kept *domain.Item
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx interfaces.Tx) error {
		item, err := tx.Items().Lock(ctx, id)
		if err != nil {
			return err
		}

		referenced, err := tx.Orders().ExistsForItem(ctx, id)
		if err != nil {
			return err
		}
		if !referenced {
			return tx.Items().Remove(ctx, id)
		}
		if !discontinueIfReferenced {
			return fmt.Errorf("%w: item %d is on an order", domain.ErrReferentialConflict, id)
		}

		if err := item.ChangeStatus(domain.ItemDiscontinued, false, 0); err != nil {
			return err
		}
		kept = item
		return tx.Items().Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("item_deleted", "Menu item removed", "", map[string]interface{}{
		"item_id":      id,
		"discontinued": kept != nil,
	})
	return kept, nil
}

func (s *Service) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	return s.store.Items().Get(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, filter domain.ItemFilter) ([]*domain.Item, error) {
	return s.store.Items().List(ctx, filter)
}

func (s *Service) SetItemStatus(ctx context.Context, id int, status domain.ItemStatus, opts interfaces.SetStatusOptions) (*domain.Item, error) {
	return s.ledger.SetStatus(ctx, id, status, opts)
}
