package server

import (
	"encoding/json"
	"net/http"

	"github.com/joppa/joppa/internal/db"
	"github.com/joppa/joppa/internal/slug"
)

// handleGetCompany returns the default company profile, creating it on
// first use.
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.defaultCompany(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, company)
}

// handleUpdateCompany overwrites the company profile. The public slug is
// re-derived from the name and the cache entry is invalidated.
func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	company, err := s.defaultCompany(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	updated, err := s.store.UpdateCompany(r.Context(), company.ID, db.CompanyPatch{
		Name:              req.Name,
		Slug:              slug.Make(req.Name),
		Website:           req.Website,
		BrandPrimaryColor: req.BrandPrimaryColor,
		BrandTone:         req.BrandTone,
		BrandPitch:        req.BrandPitch,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.companies.invalidate(cacheKeyDefaultCompany)
	s.companies.set(cacheKeyDefaultCompany, updated)
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDashboard returns the company profile and its campaigns, most
// recently updated first.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	company, err := s.defaultCompany(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	jobs, err := s.store.ListJobsByCompany(r.Context(), company.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": company,
		"jobs":    jobs,
	})
}
