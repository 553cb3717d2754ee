package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
	"github.com/vbonduro/pantrypal/internal/inventory"
	"github.com/vbonduro/pantrypal/internal/service"
)

type itemJSON struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Quantity      int               `json:"quantity"`
	ExpiryDate    *string           `json:"expiryDate"`
	ZoneID        *int64            `json:"zoneId"`
	PhotoID       *int64            `json:"photoId,omitempty"`
	DaysRemaining *int              `json:"daysRemaining"`
	Urgency       inventory.Urgency `json:"urgency"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toItemJSON(e service.Entry) itemJSON {
	out := itemJSON{
		ID:            e.ID,
		Name:          e.Name,
		Quantity:      e.Quantity,
		ZoneID:        e.ZoneID,
		PhotoID:       e.PhotoID,
		DaysRemaining: e.DaysRemaining,
		Urgency:       e.Urgency,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.ExpiryDate != nil {
		d := e.ExpiryDate.Format(domain.DateLayout)
		out.ExpiryDate = &d
	}
	return out
}

func toItemsJSON(entries []service.Entry) []itemJSON {
	out := make([]itemJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toItemJSON(e))
	}
	return out
}

// itemQuery is the inventory list's query string.
type itemQuery struct {
	Query    string `validate:"max=200"`
	Zone     string `validate:"omitempty,number"`
	Sort     string `validate:"omitempty,oneof=expiry_asc expiry_desc name"`
	Expiring string `validate:"omitempty,oneof=today soon expired"`
}

func (s *Server) parseFilter(r *http.Request) (inventory.Filter, bool) {
	q := r.URL.Query()
	query := itemQuery{
		Query:    q.Get("q"),
		Zone:     q.Get("zone"),
		Sort:     q.Get("sort"),
		Expiring: q.Get("expiring"),
	}
	if err := s.validate.Struct(query); err != nil {
		return inventory.Filter{}, false
	}

	f := inventory.Filter{
		Query:  query.Query,
		Window: inventory.Window(query.Expiring),
		Sort:   inventory.SortOption(query.Sort),
	}
	if query.Zone != "" {
		id, err := strconv.ParseInt(query.Zone, 10, 64)
		if err != nil {
			return inventory.Filter{}, false
		}
		f.ZoneID = &id
	}
	return f, true
}

type itemRequest struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	ExpiryDate *string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	ZoneID     *int64  `json:"zoneId"`
}

func (s *Server) decodeItem(w http.ResponseWriter, r *http.Request) (service.ItemInput, error) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return service.ItemInput{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return service.ItemInput{}, domain.Invalid(msgInvalidExpiry)
	}

	in := service.ItemInput{Name: req.Name, Quantity: req.Quantity, ZoneID: req.ZoneID}
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		d, err := time.Parse(domain.DateLayout, *req.ExpiryDate)
		if err != nil {
			return service.ItemInput{}, domain.Invalid(msgInvalidExpiry)
		}
		in.ExpiryDate = &d
	}
	return in, nil
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(r)
	if !ok {
		writeBadRequest(w, msgInvalidQuery)
		return
	}
	entries, err := s.inventory.ListItems(r.Context(), userFrom(r.Context()).ID, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemsJSON(entries))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}
	entry, err := s.inventory.GetItem(r.Context(), userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemJSON(*entry))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeItem(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.inventory.AddItem(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemJSON(*entry))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}
	in, err := s.decodeItem(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, err := s.inventory.UpdateItem(r.Context(), userFrom(r.Context()).ID, id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemJSON(*entry))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeBadRequest(w, msgInvalidID)
		return
	}
	if err := s.inventory.DeleteItem(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := s.dashboard.Summary(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ExpiringToday int `json:"expiringToday"`
		ExpiringSoon  int `json:"expiringSoon"`
		TotalItems    int `json:"totalItems"`
	}{sum.ExpiringToday, sum.ExpiringSoon, sum.TotalItems})
}
