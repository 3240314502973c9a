package server

import (
	"net/http"
	"strconv"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/db"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleListPublicJobs lists published jobs for the public job board.
func (s *Server) handleListPublicJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 200, 200)

	jobs, err := s.store.ListPublishedJobs(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleGetPublicCompany returns a company profile by slug together with
// its published jobs, newest first. Safe to cache briefly.
func (s *Server) handleGetPublicCompany(w http.ResponseWriter, r *http.Request) {
	companySlug := r.PathValue("companySlug")
	if companySlug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Company slug is required")
		return
	}

	company, err := s.store.GetCompanyBySlug(r.Context(), companySlug)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	jobs, err := s.store.ListPublishedJobsByCompany(r.Context(), company.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if jobs == nil {
		jobs = []db.Job{}
	}

	w.Header().Set("Cache-Control", "public, s-maxage=60, stale-while-revalidate=300")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": company,
		"jobs":    jobs,
	})
}

// handleGetPublicJob returns one published job by its snapshot slugs,
// together with the latest website copy.
func (s *Server) handleGetPublicJob(w http.ResponseWriter, r *http.Request) {
	companySlug := r.PathValue("companySlug")
	jobSlug := r.PathValue("jobSlug")
	if companySlug == "" || jobSlug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Company and job slugs are required")
		return
	}

	job, err := s.store.GetPublishedJobBySlugs(r.Context(), companySlug, jobSlug)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	content, err := s.store.LatestContentForChannel(r.Context(), job.ID, campaign.ChannelWebsite)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job":     job,
		"content": content,
	})
}
