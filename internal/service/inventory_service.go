package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/inventory"
)

const (
	MsgItemNotFound     = "Item not found."
	MsgZoneNotFound     = "Storage zone not found."
	MsgExpiryInPast     = "Expiry date must be today or later"
	MsgItemNameEmpty    = "Item name cannot be empty"
	MsgQuantityTooLow   = "Quantity must be at least 1."
	MsgAddItemFailed    = "Failed to add item"
	MsgUpdateItemFailed = "Failed to update item"
	MsgDeleteItemFailed = "Failed to delete item"
	MsgLoadItemsFailed  = "Failed to load items to inventory."
)

// Entry is an item as the inventory view shows it.
type Entry struct {
	*domain.Item
	// DaysRemaining is nil when the item has no expiry date.
	DaysRemaining *int
	Urgency       inventory.Urgency
}

func newEntry(item *domain.Item, today time.Time) Entry {
	e := Entry{Item: item, Urgency: inventory.UrgencyOf(item.ExpiryDate, today)}
	if days, ok := inventory.DaysRemaining(item.ExpiryDate, today); ok {
		e.DaysRemaining = &days
	}
	return e
}

// ItemInput is the add/edit item form.
type ItemInput struct {
	Name       string
	Quantity   int
	ExpiryDate *time.Time
	ZoneID     *int64
}

type InventoryService struct {
	items  ItemRepository
	zones  ZoneRepository
	clock  Clock
	logger *slog.Logger
}

func NewInventoryService(items ItemRepository, zones ZoneRepository, clock Clock, logger *slog.Logger) *InventoryService {
	return &InventoryService{items: items, zones: zones, clock: clock, logger: logger}
}

// ListItems loads the user's items and applies f.
func (s *InventoryService) ListItems(ctx context.Context, userID string, f inventory.Filter) ([]Entry, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list items failed", "user_id", userID, "error", err)
		return nil, domain.Failed(MsgLoadItemsFailed, err)
	}

	today := s.clock.Today()
	filtered := inventory.ApplyFilters(items, f, today)
	entries := make([]Entry, 0, len(filtered))
	for _, item := range filtered {
		entries = append(entries, newEntry(item, today))
	}
	return entries, nil
}

func (s *InventoryService) GetItem(ctx context.Context, userID string, id int64) (*Entry, error) {
	item, err := s.items.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("get item failed", "user_id", userID, "item_id", id, "error", err)
		return nil, domain.Failed(MsgLoadItemsFailed, err)
	}
	if item == nil {
		return nil, domain.NotFound(MsgItemNotFound)
	}
	e := newEntry(item, s.clock.Today())
	return &e, nil
}

func (s *InventoryService) AddItem(ctx context.Context, userID string, in ItemInput) (*Entry, error) {
	fields, err := s.validate(ctx, userID, in, MsgAddItemFailed)
	if err != nil {
		return nil, err
	}

	item, err := s.items.Create(ctx, userID, fields)
	if err != nil {
		s.logger.Error("add item failed", "user_id", userID, "error", err)
		return nil, domain.Failed(MsgAddItemFailed, err)
	}
	s.logger.Info("item added", "user_id", userID, "item_id", item.ID)

	e := newEntry(item, s.clock.Today())
	return &e, nil
}

func (s *InventoryService) UpdateItem(ctx context.Context, userID string, id int64, in ItemInput) (*Entry, error) {
	fields, err := s.validate(ctx, userID, in, MsgUpdateItemFailed)
	if err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, userID, id, fields); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(MsgItemNotFound)
		}
		s.logger.Error("update item failed", "user_id", userID, "item_id", id, "error", err)
		return nil, domain.Failed(MsgUpdateItemFailed, err)
	}

	item, err := s.items.GetByID(ctx, userID, id)
	if err != nil || item == nil {
		s.logger.Error("reload item failed", "user_id", userID, "item_id", id, "error", err)
		return nil, domain.Failed(MsgUpdateItemFailed, err)
	}
	e := newEntry(item, s.clock.Today())
	return &e, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, userID string, id int64) error {
	if err := s.items.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(MsgItemNotFound)
		}
		s.logger.Error("delete item failed", "user_id", userID, "item_id", id, "error", err)
		return domain.Failed(MsgDeleteItemFailed, err)
	}
	s.logger.Info("item deleted", "user_id", userID, "item_id", id)
	return nil
}

// validate checks the form in display order: expiry, name, quantity, zone.
func (s *InventoryService) validate(ctx context.Context, userID string, in ItemInput, failMsg string) (domain.ItemFields, error) {
	if in.ExpiryDate == nil || inventory.Today(*in.ExpiryDate).Before(s.clock.Today()) {
		return domain.ItemFields{}, domain.Invalid(MsgExpiryInPast)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ItemFields{}, domain.Invalid(MsgItemNameEmpty)
	}
	quantity := in.Quantity
	switch {
	case quantity < 0:
		return domain.ItemFields{}, domain.Invalid(MsgQuantityTooLow)
	case quantity == 0:
		quantity = 1
	}

	if in.ZoneID != nil {
		zone, err := s.zones.GetByID(ctx, userID, *in.ZoneID)
		if err != nil {
			s.logger.Error("zone lookup failed", "user_id", userID, "zone_id", *in.ZoneID, "error", err)
			return domain.ItemFields{}, domain.Failed(failMsg, err)
		}
		if zone == nil {
			return domain.ItemFields{}, domain.NotFound(MsgZoneNotFound)
		}
	}

	expiry := inventory.Today(*in.ExpiryDate)
	return domain.ItemFields{
		Name:       name,
		Quantity:   quantity,
		ExpiryDate: &expiry,
		ZoneID:     in.ZoneID,
	}, nil
}
