package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/db"
	"github.com/joppa/joppa/internal/slug"
)

// ChannelMeta describes a channel for clients: display label plus the
// filename used in export packs.
type ChannelMeta struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Filename string `json:"filename"`
}

// CampaignResponse is the full campaign detail payload.
type CampaignResponse struct {
	Job      *db.Job                  `json:"job"`
	Company  *db.Company              `json:"company"`
	Contents map[string]db.JobContent `json:"contents"`
	Runs     []db.GenerationRun       `json:"runs"`
	Channels []ChannelMeta            `json:"channels"`
}

func channelMetas() []ChannelMeta {
	metas := make([]ChannelMeta, 0, len(campaign.AllChannels))
	for _, ch := range campaign.AllChannels {
		label := campaign.ChannelLabels[ch]
		metas = append(metas, ChannelMeta{
			ID:       ch,
			Label:    label,
			Filename: slug.SafeFilename(label) + ".txt",
		})
	}
	return metas
}

// parseJobID reads the {id} path value as a UUID.
func (s *Server) parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid campaign ID")
		return uuid.Nil, false
	}
	return id, true
}

// ownedJob loads a job and checks it belongs to the default company.
// A nil job with nil error means not found.
func (s *Server) ownedJob(ctx context.Context, id uuid.UUID) (*db.Job, *db.Company, error) {
	company, err := s.defaultCompany(ctx)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.store.GetJobByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, company, nil
	}
	if job.CompanyID != company.ID {
		return nil, company, &campaign.ErrNotAllowed{JobID: id}
	}
	return job, company, nil
}

// campaignDetail assembles the full detail payload for a job.
func (s *Server) campaignDetail(ctx context.Context, job *db.Job, company *db.Company) (*CampaignResponse, error) {
	contents, err := s.store.LatestContentByChannel(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	runs, err := s.store.ListGenerationRuns(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return &CampaignResponse{
		Job:      job,
		Company:  company,
		Contents: contents,
		Runs:     runs,
		Channels: channelMetas(),
	}, nil
}

// handleGenerateCampaign creates a draft job from a brain dump and runs the
// full generation pipeline against it.
func (s *Server) handleGenerateCampaign(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	job, err := s.writer.GenerateNew(r.Context(), req.RawIntent, req.Structured)
	if err != nil {
		// The draft row and the failed run stay persisted; surface the job
		// id so clients can inspect the audit trail.
		body := map[string]string{"error": err.Error()}
		if job != nil {
			body["job_id"] = job.ID.String()
		}
		s.jsonResponse(w, HTTPStatus(err), body)
		return
	}

	company, err := s.defaultCompany(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	// Re-read: the pipeline rewrote title, slug and extracted data.
	job, err = s.store.GetJobByID(r.Context(), job.ID)
	if err != nil || job == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload campaign")
		return
	}

	detail, err := s.campaignDetail(r.Context(), job, company)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, detail)
}

// handleWizard regenerates an existing campaign from wizard input.
func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	job, err := s.writer.Regenerate(r.Context(), id, req.RawIntent, req.Structured)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	company, err := s.defaultCompany(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	job, err = s.store.GetJobByID(r.Context(), job.ID)
	if err != nil || job == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to reload campaign")
		return
	}

	detail, err := s.campaignDetail(r.Context(), job, company)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleGetCampaign returns a campaign with latest content and run history.
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	job, company, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}

	detail, err := s.campaignDetail(r.Context(), job, company)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleDeleteCampaign removes a draft campaign and its dependents.
func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	job, _, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if job.Status == db.JobStatusPublished {
		s.errorResponse(w, http.StatusBadRequest, "Unpublish the campaign before deleting it")
		return
	}

	if err := s.store.DeleteJobCascade(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleUpdateStructure applies manual edits to the structured job fields.
// The public slug follows the title.
func (s *Server) handleUpdateStructure(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	var req StructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	job, _, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}

	patch := db.JobStructurePatch{
		Title:          coalesce(req.Title, job.Title),
		Location:       coalesce(req.Location, job.Location),
		Seniority:      coalesce(req.Seniority, job.Seniority),
		EmploymentType: coalesce(req.EmploymentType, job.EmploymentType),
	}
	if req.Title != nil {
		patch.JobSlug = slug.Make(*req.Title)
	}

	updated, err := s.store.UpdateJobStructure(r.Context(), id, patch)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handlePublish toggles the published state. Publishing snapshots the
// company identity onto the job so later renames do not break public URLs.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	job, company, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}

	var updated *db.Job
	if req.Publish {
		updated, err = s.store.PublishJob(r.Context(), id, company)
	} else {
		updated, err = s.store.UnpublishJob(r.Context(), id)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleSaveContent stores a manual edit as a new content version.
func (s *Server) handleSaveContent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	var req SaveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if !campaign.IsChannel(req.Channel) {
		s.errorResponse(w, http.StatusBadRequest, "Unknown channel: "+req.Channel)
		return
	}

	job, _, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}

	payload := db.ContentPayload{Body: req.Body}
	if req.Headline != "" {
		payload.Headline = &req.Headline
	}
	content, err := s.store.InsertJobContent(r.Context(), id, req.Channel, db.ContentStateDraft, payload)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, content)
}

// handleUpdateContentState moves the latest version of a channel between
// review states in place.
func (s *Server) handleUpdateContentState(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseJobID(w, r)
	if !ok {
		return
	}

	var req ContentStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	job, _, err := s.ownedJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Campaign not found")
		return
	}

	latest, err := s.store.LatestContentForChannel(r.Context(), id, req.Channel)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if latest == nil {
		s.errorResponse(w, http.StatusNotFound, "No content for channel "+req.Channel)
		return
	}

	updated, err := s.store.UpdateContentState(r.Context(), latest.ID, req.State)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// coalesce keeps the current value when the patch field is absent.
func coalesce(patch *string, current *string) *string {
	if patch != nil {
		return patch
	}
	return current
}
