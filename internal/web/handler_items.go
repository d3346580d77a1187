package web

import (
	"net/http"

	"github.com/mvallbona/stockledger/internal/domain"
)

type itemRequest struct {
	Name         string       `json:"name"`
	Model        string       `json:"model"`
	FamilyID     string       `json:"family_id"`
	SubfamilyID  string       `json:"subfamily_id"`
	Usage        domain.Usage `json:"usage"`
	ImageURL     string       `json:"image_url"`
	Observations string       `json:"observations"`
}

func (req *itemRequest) toDomain(id string) *domain.Item {
	return &domain.Item{
		ID:           id,
		Name:         req.Name,
		Model:        req.Model,
		FamilyID:     req.FamilyID,
		SubfamilyID:  req.SubfamilyID,
		Usage:        req.Usage,
		ImageURL:     req.ImageURL,
		Observations: req.Observations,
	}
}

// itemLocationsRequest carries the full desired ledger state for one item.
// Absent locations are removed; quantities <= 0 are pruned.
type itemLocationsRequest struct {
	Locations map[string]int `json:"locations"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.ListItems(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item, err := s.inventory.CreateItem(r.Context(), req.toDomain(""))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.inventory.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if item == nil {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item, err := s.inventory.UpdateItem(r.Context(), req.toDomain(r.PathValue("id")))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	plan, err := s.inventory.DeleteItem(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newDeleteResponse(plan))
}

func (s *Server) handleGetItemLocations(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.Entries(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSetItemLocations(w http.ResponseWriter, r *http.Request) {
	var req itemLocationsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	entries, err := s.ledger.Reconcile(r.Context(), r.PathValue("id"), req.Locations)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}
