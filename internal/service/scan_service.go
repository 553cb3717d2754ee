package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/photostore"
	"github.com/vbonduro/pantrypal/internal/vision"
)

const (
	MsgScanFailed      = "Failed to scan storage zone."
	MsgPhotoNotFound   = "Photo not found."
	MsgLoadPhotoFailed = "Failed to load photo."
)

// ScanResult is a stored zone photo and the items created from it.
type ScanResult struct {
	Photo *domain.Photo
	Items []Entry
}

type ScanService struct {
	zones     ZoneRepository
	photos    PhotoRepository
	items     ItemRepository
	visionAPI vision.VisionAnalyzer
	photoStg  photostore.PhotoStore
	clock     Clock
	logger    *slog.Logger
}

func NewScanService(
	zones ZoneRepository,
	photos PhotoRepository,
	items ItemRepository,
	visionAPI vision.VisionAnalyzer,
	photoStg photostore.PhotoStore,
	clock Clock,
	logger *slog.Logger,
) *ScanService {
	return &ScanService{
		zones:     zones,
		photos:    photos,
		items:     items,
		visionAPI: visionAPI,
		photoStg:  photoStg,
		clock:     clock,
		logger:    logger,
	}
}

// ScanZone analyzes the image, saves it as the zone's latest photo, and adds
// one item to the zone per detected line. Existing items are left alone.
func (s *ScanService) ScanZone(ctx context.Context, userID string, zoneID int64, imageData []byte, mimeType string) (*ScanResult, error) {
	s.logger.Info("scan started", "user_id", userID, "zone_id", zoneID, "mime_type", mimeType, "bytes", len(imageData))

	zone, err := s.zones.GetByID(ctx, userID, zoneID)
	if err != nil {
		s.logger.Error("get zone failed", "zone_id", zoneID, "error", err)
		return nil, domain.Failed(MsgScanFailed, err)
	}
	if zone == nil {
		return nil, domain.NotFound(MsgZoneNotFound)
	}

	result, err := s.visionAPI.Analyze(ctx, bytes.NewReader(imageData), mimeType)
	if err != nil {
		s.logger.Error("vision analysis failed", "zone_id", zoneID, "error", err)
		return nil, domain.Failed(MsgScanFailed, err)
	}
	s.logger.Info("vision analysis complete", "zone_id", zoneID, "items_detected", len(result.Items))

	storageKey, err := s.photoStg.Save(ctx, userID, mimeType, bytes.NewReader(imageData))
	if err != nil {
		s.logger.Error("save photo failed", "zone_id", zoneID, "error", err)
		return nil, domain.Failed(MsgScanFailed, err)
	}
	s.logger.Debug("photo saved", "zone_id", zoneID, "storage_key", storageKey)

	photo, err := s.photos.Create(ctx, userID, zoneID, storageKey, mimeType)
	if err != nil {
		if derr := s.photoStg.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to roll back photo file", "storage_key", storageKey, "error", derr)
		}
		s.logger.Error("create photo record failed", "zone_id", zoneID, "error", err)
		return nil, domain.Failed(MsgScanFailed, err)
	}

	today := s.clock.Today()
	entries := make([]Entry, 0, len(result.Items))
	for _, detected := range result.Items {
		fields := domain.ItemFields{
			Name:     detected.Name,
			Quantity: detected.Count(),
			ZoneID:   &zone.ID,
			PhotoID:  &photo.ID,
		}
		if expiry, ok := detected.ExpiryDate(); ok && !expiry.Before(today) {
			fields.ExpiryDate = &expiry
		}
		item, err := s.items.Create(ctx, userID, fields)
		if err != nil {
			s.logger.Error("failed to create item", "name", detected.Name, "error", err)
			continue
		}
		entries = append(entries, newEntry(item, today))
	}

	s.logger.Info("scan complete", "user_id", userID, "zone_id", zoneID, "items_stored", len(entries))
	return &ScanResult{Photo: photo, Items: entries}, nil
}

// ZonePhoto opens the zone's most recent photo. The caller closes the reader.
func (s *ScanService) ZonePhoto(ctx context.Context, userID string, zoneID int64) (io.ReadCloser, string, error) {
	photo, err := s.photos.GetLatestByZone(ctx, userID, zoneID)
	if err != nil {
		s.logger.Error("get latest photo failed", "zone_id", zoneID, "error", err)
		return nil, "", domain.Failed(MsgLoadPhotoFailed, err)
	}
	if photo == nil {
		return nil, "", domain.NotFound(MsgPhotoNotFound)
	}

	r, mimeType, err := s.photoStg.Get(ctx, photo.StorageKey)
	if err != nil {
		if errors.Is(err, photostore.ErrNotFound) {
			return nil, "", domain.NotFound(MsgPhotoNotFound)
		}
		s.logger.Error("open photo failed", "storage_key", photo.StorageKey, "error", err)
		return nil, "", domain.Failed(MsgLoadPhotoFailed, err)
	}
	return r, mimeType, nil
}
