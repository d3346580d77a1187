package web

import (
	"net/http"

	"github.com/mvallbona/stockledger/internal/cascade"
)

type namedRequest struct {
	Name string `json:"name"`
}

type subfamilyRequest struct {
	Name     string `json:"name"`
	FamilyID string `json:"family_id"`
}

// deleteResponse summarizes an executed cascade: how many rows went and
// from which entities, children first.
type deleteResponse struct {
	RowsRemoved int      `json:"rows_removed"`
	Entities    []string `json:"entities"`
}

func newDeleteResponse(plan *cascade.Plan) deleteResponse {
	resp := deleteResponse{RowsRemoved: plan.TotalRows()}
	for _, e := range plan.Entities() {
		resp.Entities = append(resp.Entities, string(e))
	}
	return resp
}

// Families

func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := s.inventory.ListFamilies(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, families)
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	family, err := s.inventory.CreateFamily(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, family)
}

func (s *Server) handleUpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	family, err := s.inventory.UpdateFamily(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, family)
}

func (s *Server) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	plan, err := s.inventory.DeleteFamily(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newDeleteResponse(plan))
}

// Subfamilies

func (s *Server) handleListSubfamilies(w http.ResponseWriter, r *http.Request) {
	subfamilies, err := s.inventory.ListSubfamilies(r.Context(), r.URL.Query().Get("family_id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, subfamilies)
}

func (s *Server) handleCreateSubfamily(w http.ResponseWriter, r *http.Request) {
	var req subfamilyRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	subfamily, err := s.inventory.CreateSubfamily(r.Context(), req.Name, req.FamilyID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, subfamily)
}

func (s *Server) handleUpdateSubfamily(w http.ResponseWriter, r *http.Request) {
	var req subfamilyRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	subfamily, err := s.inventory.UpdateSubfamily(r.Context(), r.PathValue("id"), req.Name, req.FamilyID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, subfamily)
}

func (s *Server) handleDeleteSubfamily(w http.ResponseWriter, r *http.Request) {
	plan, err := s.inventory.DeleteSubfamily(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newDeleteResponse(plan))
}

// Locations

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.inventory.ListLocations(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, locations)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	location, err := s.inventory.CreateLocation(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, location)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	location, err := s.inventory.UpdateLocation(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, location)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	plan, err := s.inventory.DeleteLocation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, newDeleteResponse(plan))
}
