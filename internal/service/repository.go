package service

import (
	"context"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/inventory"
)

// ZoneRepository is the subset of store.ZoneStore the services require.
type ZoneRepository interface {
	Create(ctx context.Context, userID, name string) (*domain.Zone, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.Zone, error)
	List(ctx context.Context, userID string) ([]*domain.Zone, error)
	Rename(ctx context.Context, userID string, id int64, name string) error
	Delete(ctx context.Context, userID string, id int64) error
}

// ItemRepository is the subset of store.ItemStore the services require.
type ItemRepository interface {
	Create(ctx context.Context, userID string, f domain.ItemFields) (*domain.Item, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.Item, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Item, error)
	CountByZone(ctx context.Context, userID string, zoneID int64) (int, error)
	Update(ctx context.Context, userID string, id int64, f domain.ItemFields) error
	Delete(ctx context.Context, userID string, id int64) error
}

// PhotoRepository is the subset of store.PhotoStore the services require.
type PhotoRepository interface {
	Create(ctx context.Context, userID string, zoneID int64, storageKey, mimeType string) (*domain.Photo, error)
	GetLatestByZone(ctx context.Context, userID string, zoneID int64) (*domain.Photo, error)
	DeleteByZone(ctx context.Context, userID string, zoneID int64) ([]*domain.Photo, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// Clock yields the current civil date in the configured location.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return inventory.Today(now().In(loc))
}
