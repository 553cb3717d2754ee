package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/photostore"
)

const (
	MsgZoneNameBlank    = "Zone name cannot be blank."
	MsgZoneNameTooLong  = "Zone name is too long."
	MsgZoneExists       = "A storage zone with this name already exists."
	MsgZoneHasItems     = "Cannot delete zone with items present."
	MsgLoadZonesFailed  = "Failed to load storage zone."
	MsgAddZoneFailed    = "Failed to add storage zone."
	MsgUpdateZoneFailed = "Failed to update storage zone."
	MsgDeleteZoneFailed = "Failed to delete storage zone."
)

const maxZoneNameLen = 200

// ZoneSummary bundles a zone with the number of items assigned to it.
type ZoneSummary struct {
	*domain.Zone
	ItemCount int
}

type ZoneService struct {
	zones    ZoneRepository
	items    ItemRepository
	photos   PhotoRepository
	photoStg photostore.PhotoStore
	logger   *slog.Logger
}

func NewZoneService(
	zones ZoneRepository,
	items ItemRepository,
	photos PhotoRepository,
	photoStg photostore.PhotoStore,
	logger *slog.Logger,
) *ZoneService {
	return &ZoneService{
		zones:    zones,
		items:    items,
		photos:   photos,
		photoStg: photoStg,
		logger:   logger,
	}
}

// ListZones returns the user's zones sorted by name.
func (s *ZoneService) ListZones(ctx context.Context, userID string) ([]*ZoneSummary, error) {
	zones, err := s.zones.List(ctx, userID)
	if err != nil {
		s.logger.Error("list zones failed", "user_id", userID, "error", err)
		return nil, domain.Failed(MsgLoadZonesFailed, err)
	}
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list items for zones failed", "user_id", userID, "error", err)
		return nil, domain.Failed(MsgLoadZonesFailed, err)
	}

	counts := make(map[int64]int, len(zones))
	for _, item := range items {
		if item.ZoneID != nil {
			counts[*item.ZoneID]++
		}
	}
	summaries := make([]*ZoneSummary, 0, len(zones))
	for _, zone := range zones {
		summaries = append(summaries, &ZoneSummary{Zone: zone, ItemCount: counts[zone.ID]})
	}
	return summaries, nil
}

func (s *ZoneService) GetZone(ctx context.Context, userID string, id int64) (*domain.Zone, error) {
	zone, err := s.zones.GetByID(ctx, userID, id)
	if err != nil {
		s.logger.Error("get zone failed", "user_id", userID, "zone_id", id, "error", err)
		return nil, domain.Failed(MsgLoadZonesFailed, err)
	}
	if zone == nil {
		return nil, domain.NotFound(MsgZoneNotFound)
	}
	return zone, nil
}

func (s *ZoneService) AddZone(ctx context.Context, userID, name string) (*domain.Zone, error) {
	name, err := validZoneName(name)
	if err != nil {
		return nil, err
	}

	zone, err := s.zones.Create(ctx, userID, name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict(MsgZoneExists)
		}
		s.logger.Error("add zone failed", "user_id", userID, "error", err)
		return nil, domain.Failed(MsgAddZoneFailed, err)
	}
	s.logger.Info("zone added", "user_id", userID, "zone_id", zone.ID)
	return zone, nil
}

func (s *ZoneService) RenameZone(ctx context.Context, userID string, id int64, name string) (*domain.Zone, error) {
	name, err := validZoneName(name)
	if err != nil {
		return nil, err
	}

	if err := s.zones.Rename(ctx, userID, id, name); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, domain.Conflict(MsgZoneExists)
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.NotFound(MsgZoneNotFound)
		}
		s.logger.Error("rename zone failed", "user_id", userID, "zone_id", id, "error", err)
		return nil, domain.Failed(MsgUpdateZoneFailed, err)
	}

	zone, err := s.zones.GetByID(ctx, userID, id)
	if err != nil || zone == nil {
		s.logger.Error("reload zone failed", "user_id", userID, "zone_id", id, "error", err)
		return nil, domain.Failed(MsgUpdateZoneFailed, err)
	}
	return zone, nil
}

// DeleteZone removes an empty zone together with its scanned photos.
func (s *ZoneService) DeleteZone(ctx context.Context, userID string, id int64) error {
	if _, err := s.GetZone(ctx, userID, id); err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return err
		}
		return domain.Failed(MsgDeleteZoneFailed, err)
	}

	n, err := s.items.CountByZone(ctx, userID, id)
	if err != nil {
		s.logger.Error("count zone items failed", "user_id", userID, "zone_id", id, "error", err)
		return domain.Failed(MsgDeleteZoneFailed, err)
	}
	if n > 0 {
		return domain.Conflict(MsgZoneHasItems)
	}

	photos, err := s.photos.DeleteByZone(ctx, userID, id)
	if err != nil {
		s.logger.Error("delete zone photos failed", "user_id", userID, "zone_id", id, "error", err)
		return domain.Failed(MsgDeleteZoneFailed, err)
	}
	for _, photo := range photos {
		if err := s.photoStg.Delete(ctx, photo.StorageKey); err != nil && !errors.Is(err, photostore.ErrNotFound) {
			s.logger.Error("failed to delete photo file", "storage_key", photo.StorageKey, "error", err)
		}
	}

	if err := s.zones.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound(MsgZoneNotFound)
		}
		s.logger.Error("delete zone failed", "user_id", userID, "zone_id", id, "error", err)
		return domain.Failed(MsgDeleteZoneFailed, err)
	}
	s.logger.Info("zone deleted", "user_id", userID, "zone_id", id, "photos_removed", len(photos))
	return nil
}

func validZoneName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.Invalid(MsgZoneNameBlank)
	}
	if utf8.RuneCountInString(name) > maxZoneNameLen {
		return "", domain.Invalid(MsgZoneNameTooLong)
	}
	return name, nil
}
