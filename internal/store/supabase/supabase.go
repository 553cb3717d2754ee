// Package supabase keeps zones and items in a Supabase (PostgREST) project
// instead of the local SQLite file. Method sets match store.ZoneStore and
// store.ItemStore so the services accept either backend. schema.sql holds
// the tables this package expects.
package supabase

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	supa "github.com/supabase-community/supabase-go"
	"github.com/vbonduro/pantrypal/internal/domain"
)

const (
	zonesTable = "zones"
	itemsTable = "items"
)

// Client wraps a supabase client shared by the zone and item stores.
type Client struct {
	client *supa.Client
	now    func() time.Time
}

func NewClient(url, key string) (*Client, error) {
	client, err := supa.NewClient(url, key, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Client{client: client, now: time.Now}, nil
}

func (c *Client) Zones() *ZoneStore { return &ZoneStore{c: c} }

func (c *Client) Items() *ItemStore { return &ItemStore{c: c} }

func id(v int64) string { return strconv.FormatInt(v, 10) }

// isUniqueViolation matches PostgreSQL's unique_violation code as PostgREST
// reports it.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}

// decodeOne decodes a representation response and returns its first row, or
// ErrNotFound when the filter matched nothing.
func decodeOne[T any](data []byte, what string) (*T, error) {
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %w", what, domain.ErrNotFound)
	}
	return &rows[0], nil
}

type zoneRow struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r zoneRow) zone() *domain.Zone {
	return &domain.Zone{ID: r.ID, UserID: r.UserID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type ZoneStore struct {
	c *Client
}

func (s *ZoneStore) Create(_ context.Context, userID, name string) (*domain.Zone, error) {
	data, _, err := s.c.client.From(zonesTable).
		Insert(map[string]any{"user_id": userID, "name": name}, false, "", "", "").
		Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create zone: %w", domain.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create zone: %w", err)
	}
	row, err := decodeOne[zoneRow](data, "zone")
	if err != nil {
		return nil, err
	}
	return row.zone(), nil
}

func (s *ZoneStore) GetByID(_ context.Context, userID string, zoneID int64) (*domain.Zone, error) {
	data, _, err := s.c.client.From(zonesTable).
		Select("*", "", false).
		Eq("id", id(zoneID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	row, err := decodeOne[zoneRow](data, "zone")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.zone(), nil
}

// List returns the user's zones ordered by name, ignoring case.
func (s *ZoneStore) List(_ context.Context, userID string) ([]*domain.Zone, error) {
	data, _, err := s.c.client.From(zonesTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	var rows []zoneRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse zones: %w", err)
	}

	zones := make([]*domain.Zone, 0, len(rows))
	for _, r := range rows {
		zones = append(zones, r.zone())
	}
	slices.SortStableFunc(zones, func(a, b *domain.Zone) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return zones, nil
}

func (s *ZoneStore) Rename(_ context.Context, userID string, zoneID int64, name string) error {
	data, _, err := s.c.client.From(zonesTable).
		Update(map[string]any{"name": name, "updated_at": s.c.now().UTC()}, "", "").
		Eq("id", id(zoneID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to rename zone: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to rename zone: %w", err)
	}
	_, err = decodeOne[zoneRow](data, "zone")
	return err
}

func (s *ZoneStore) Delete(_ context.Context, userID string, zoneID int64) error {
	data, _, err := s.c.client.From(zonesTable).
		Delete("", "").
		Eq("id", id(zoneID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete zone: %w", err)
	}
	_, err = decodeOne[zoneRow](data, "zone")
	return err
}

type itemRow struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ZoneID     *int64    `json:"zone_id"`
	PhotoID    *int64    `json:"photo_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	ExpiryDate *string   `json:"expiry_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r itemRow) item() (*domain.Item, error) {
	item := &domain.Item{
		ID:        r.ID,
		UserID:    r.UserID,
		ZoneID:    r.ZoneID,
		PhotoID:   r.PhotoID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ExpiryDate != nil && *r.ExpiryDate != "" {
		d, err := time.Parse(domain.DateLayout, *r.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry date %q: %w", *r.ExpiryDate, err)
		}
		item.ExpiryDate = &d
	}
	return item, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

type ItemStore struct {
	c *Client
}

func (s *ItemStore) Create(_ context.Context, userID string, f domain.ItemFields) (*domain.Item, error) {
	data, _, err := s.c.client.From(itemsTable).
		Insert(map[string]any{
			"user_id":     userID,
			"zone_id":     f.ZoneID,
			"photo_id":    f.PhotoID,
			"name":        f.Name,
			"quantity":    f.Quantity,
			"expiry_date": formatDate(f.ExpiryDate),
		}, false, "", "", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	row, err := decodeOne[itemRow](data, "item")
	if err != nil {
		return nil, err
	}
	return row.item()
}

func (s *ItemStore) GetByID(_ context.Context, userID string, itemID int64) (*domain.Item, error) {
	data, _, err := s.c.client.From(itemsTable).
		Select("*", "", false).
		Eq("id", id(itemID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	row, err := decodeOne[itemRow](data, "item")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.item()
}

// ListByUser returns every item the user owns in insertion order.
func (s *ItemStore) ListByUser(_ context.Context, userID string) ([]*domain.Item, error) {
	data, _, err := s.c.client.From(itemsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	var rows []itemRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}

	items := make([]*domain.Item, 0, len(rows))
	for _, r := range rows {
		item, err := r.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	slices.SortFunc(items, func(a, b *domain.Item) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *ItemStore) CountByZone(_ context.Context, userID string, zoneID int64) (int, error) {
	_, count, err := s.c.client.From(itemsTable).
		Select("id", "exact", true).
		Eq("user_id", userID).
		Eq("zone_id", id(zoneID)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return int(count), nil
}

// Update overwrites the editable fields. PhotoID is left untouched.
func (s *ItemStore) Update(_ context.Context, userID string, itemID int64, f domain.ItemFields) error {
	data, _, err := s.c.client.From(itemsTable).
		Update(map[string]any{
			"name":        f.Name,
			"quantity":    f.Quantity,
			"expiry_date": formatDate(f.ExpiryDate),
			"zone_id":     f.ZoneID,
			"updated_at":  s.c.now().UTC(),
		}, "", "").
		Eq("id", id(itemID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	_, err = decodeOne[itemRow](data, "item")
	return err
}

func (s *ItemStore) Delete(_ context.Context, userID string, itemID int64) error {
	data, _, err := s.c.client.From(itemsTable).
		Delete("", "").
		Eq("id", id(itemID)).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	_, err = decodeOne[itemRow](data, "item")
	return err
}
