package web

import (
	"net/http"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/service"
)

type zoneJSON struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ItemCount *int      `json:"itemCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toZoneJSON(z *domain.Zone) zoneJSON {
	return zoneJSON{ID: z.ID, Name: z.Name, CreatedAt: z.CreatedAt, UpdatedAt: z.UpdatedAt}
}

type zoneRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := s.zones.ListZones(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]zoneJSON, 0, len(zones))
	for _, z := range zones {
		j := toZoneJSON(z.Zone)
		count := z.ItemCount
		j.ItemCount = &count
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddZone(w http.ResponseWriter, r *http.Request) {
	var req zoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	zone, err := s.zones.AddZone(r.Context(), userFrom(r.Context()).ID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toZoneJSON(zone))
}

func (s *Server) handleRenameZone(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}
	var req zoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	zone, err := s.zones.RenameZone(r.Context(), userFrom(r.Context()).ID, id, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toZoneJSON(zone))
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}
	if err := s.zones.DeleteZone(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scanJSON is the response to a zone scan.
type scanJSON struct {
	PhotoID int64      `json:"photoId"`
	Items   []itemJSON `json:"items"`
}

func toScanJSON(res *service.ScanResult) scanJSON {
	return scanJSON{PhotoID: res.Photo.ID, Items: toItemsJSON(res.Items)}
}
