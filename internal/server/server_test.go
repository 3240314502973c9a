package server

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/db"
	"github.com/joppa/joppa/internal/llm"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	company  *db.Company
	jobs     map[uuid.UUID]*db.Job
	contents []db.JobContent
	runs     []db.GenerationRun

	listPublishedErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[uuid.UUID]*db.Job)}
}

// newTestServer wires a server around a fake store without a listener.
// gen may be nil for the fallback generation path.
func newTestServer(store Store, gen llm.TextGenerator, adminToken string) *Server {
	return newServer(store, gen, adminToken)
}

func (s *fakeStore) GetOrCreateDefaultCompany(_ context.Context) (*db.Company, error) {
	if s.company == nil {
		s.company = &db.Company{ID: uuid.New(), Name: "My Company", Slug: "my-company", CreatedAt: time.Now()}
	}
	return s.company, nil
}

func (s *fakeStore) CreateDraftJob(_ context.Context, companyID uuid.UUID, rawIntent string) (*db.Job, error) {
	now := time.Now()
	job := &db.Job{
		ID:        uuid.New(),
		CompanyID: companyID,
		Status:    db.JobStatusDraft,
		RawIntent: rawIntent,
		JobSlug:   "draft-" + uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	return job, nil
}

func (s *fakeStore) GetJobByID(_ context.Context, id uuid.UUID) (*db.Job, error) {
	return s.jobs[id], nil
}

func (s *fakeStore) ApplyGeneratedFields(_ context.Context, id uuid.UUID, patch db.JobGeneratedPatch) error {
	job, ok := s.jobs[id]
	if !ok {
		return errors.New("no such job")
	}
	job.Title = &patch.Title
	job.Location = patch.Location
	job.Seniority = patch.Seniority
	job.EmploymentType = patch.EmploymentType
	job.JobSlug = patch.JobSlug
	job.ExtractedData = patch.ExtractedData
	if patch.RawIntent != nil {
		job.RawIntent = *patch.RawIntent
	}
	job.UpdatedAt = time.Now()
	return nil
}

func (s *fakeStore) maxVersion(jobID uuid.UUID, channel string) int {
	max := 0
	for _, c := range s.contents {
		if c.JobID == jobID && c.Channel == channel && c.Version > max {
			max = c.Version
		}
	}
	return max
}

func (s *fakeStore) InsertJobContent(_ context.Context, jobID uuid.UUID, channel string, state string, payload db.ContentPayload) (*db.JobContent, error) {
	c := db.JobContent{
		ID:        uuid.New(),
		JobID:     jobID,
		Channel:   channel,
		Version:   s.maxVersion(jobID, channel) + 1,
		State:     state,
		Content:   payload,
		CreatedAt: time.Now(),
	}
	s.contents = append(s.contents, c)
	return &c, nil
}

func (s *fakeStore) CreateGenerationRun(_ context.Context, jobID uuid.UUID, step, model, prompt string) (uuid.UUID, error) {
	run := db.GenerationRun{
		ID:        uuid.New(),
		JobID:     jobID,
		Step:      step,
		Status:    db.RunStatusRunning,
		Model:     &model,
		Prompt:    &prompt,
		CreatedAt: time.Now(),
	}
	s.runs = append(s.runs, run)
	return run.ID, nil
}

func (s *fakeStore) CompleteGenerationRun(_ context.Context, runID uuid.UUID) error {
	return s.setRunStatus(runID, db.RunStatusSucceeded, nil)
}

func (s *fakeStore) FailGenerationRun(_ context.Context, runID uuid.UUID, message string) error {
	return s.setRunStatus(runID, db.RunStatusFailed, &message)
}

func (s *fakeStore) setRunStatus(runID uuid.UUID, status string, message *string) error {
	for i := range s.runs {
		if s.runs[i].ID == runID {
			s.runs[i].Status = status
			s.runs[i].Error = message
			return nil
		}
	}
	return errors.New("no such run")
}

func (s *fakeStore) UpdateCompany(_ context.Context, id uuid.UUID, patch db.CompanyPatch) (*db.Company, error) {
	if s.company == nil || s.company.ID != id {
		return nil, errors.New("no such company")
	}
	s.company.Name = patch.Name
	s.company.Slug = patch.Slug
	s.company.Website = patch.Website
	s.company.BrandPrimaryColor = patch.BrandPrimaryColor
	s.company.BrandTone = patch.BrandTone
	s.company.BrandPitch = patch.BrandPitch
	return s.company, nil
}

func (s *fakeStore) UpdateJobStructure(_ context.Context, id uuid.UUID, patch db.JobStructurePatch) (*db.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	job.Title = patch.Title
	job.Location = patch.Location
	job.Seniority = patch.Seniority
	job.EmploymentType = patch.EmploymentType
	if patch.JobSlug != "" {
		job.JobSlug = patch.JobSlug
	}
	job.UpdatedAt = time.Now()
	return job, nil
}

func (s *fakeStore) PublishJob(_ context.Context, id uuid.UUID, company *db.Company) (*db.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	job.Status = db.JobStatusPublished
	job.PublishedAt = &now
	job.CompanySlugSnapshot = &company.Slug
	snapshot := map[string]any{"name": company.Name}
	if company.Website != nil {
		snapshot["website"] = *company.Website
	}
	if company.BrandPrimaryColor != nil {
		snapshot["brandPrimaryColor"] = *company.BrandPrimaryColor
	}
	job.BrandSnapshotPublic = snapshot
	return job, nil
}

func (s *fakeStore) UnpublishJob(_ context.Context, id uuid.UUID) (*db.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	job.Status = db.JobStatusDraft
	job.PublishedAt = nil
	return job, nil
}

func (s *fakeStore) DeleteJobCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := s.jobs[id]; !ok {
		return errors.New("job not found")
	}
	var contents []db.JobContent
	for _, c := range s.contents {
		if c.JobID != id {
			contents = append(contents, c)
		}
	}
	s.contents = contents
	var runs []db.GenerationRun
	for _, r := range s.runs {
		if r.JobID != id {
			runs = append(runs, r)
		}
	}
	s.runs = runs
	delete(s.jobs, id)
	return nil
}

func (s *fakeStore) ListJobsByCompany(_ context.Context, companyID uuid.UUID) ([]db.Job, error) {
	var out []db.Job
	for _, job := range s.jobs {
		if job.CompanyID == companyID {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *fakeStore) LatestContentByChannel(_ context.Context, jobID uuid.UUID) (map[string]db.JobContent, error) {
	out := make(map[string]db.JobContent)
	for _, c := range s.contents {
		if c.JobID != jobID {
			continue
		}
		if current, ok := out[c.Channel]; !ok || c.Version > current.Version {
			out[c.Channel] = c
		}
	}
	return out, nil
}

func (s *fakeStore) LatestContentForChannel(_ context.Context, jobID uuid.UUID, channel string) (*db.JobContent, error) {
	var latest *db.JobContent
	for i := range s.contents {
		c := s.contents[i]
		if c.JobID == jobID && c.Channel == channel && (latest == nil || c.Version > latest.Version) {
			latest = &s.contents[i]
		}
	}
	return latest, nil
}

func (s *fakeStore) UpdateContentState(_ context.Context, contentID uuid.UUID, state string) (*db.JobContent, error) {
	for i := range s.contents {
		if s.contents[i].ID == contentID {
			s.contents[i].State = state
			return &s.contents[i], nil
		}
	}
	return nil, nil
}

func (s *fakeStore) LatestContentsForJobs(_ context.Context, jobIDs []uuid.UUID, channels []string) (map[uuid.UUID]map[string]db.JobContent, error) {
	wanted := make(map[string]bool, len(channels))
	for _, ch := range channels {
		wanted[ch] = true
	}
	out := make(map[uuid.UUID]map[string]db.JobContent)
	for _, id := range jobIDs {
		byChannel, _ := s.LatestContentByChannel(context.Background(), id)
		filtered := make(map[string]db.JobContent)
		for ch, c := range byChannel {
			if wanted[ch] {
				filtered[ch] = c
			}
		}
		out[id] = filtered
	}
	return out, nil
}

func (s *fakeStore) ListGenerationRuns(_ context.Context, jobID uuid.UUID) ([]db.GenerationRun, error) {
	var out []db.GenerationRun
	for _, r := range s.runs {
		if r.JobID == jobID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) ListPublishedJobs(_ context.Context, limit int) ([]db.PublicJob, error) {
	if s.listPublishedErr != nil {
		return nil, s.listPublishedErr
	}
	var out []db.PublicJob
	for _, job := range s.jobs {
		if job.Status != db.JobStatusPublished {
			continue
		}
		out = append(out, db.PublicJob{Job: *job, CompanyName: s.company.Name, CompanySlug: s.company.Slug})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt != nil && out[j].PublishedAt != nil && out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out, nil
}

func (s *fakeStore) GetPublishedJobBySlugs(_ context.Context, companySlug, jobSlug string) (*db.Job, error) {
	for _, job := range s.jobs {
		if job.Status != db.JobStatusPublished || job.JobSlug != jobSlug {
			continue
		}
		if job.CompanySlugSnapshot != nil && *job.CompanySlugSnapshot == companySlug {
			return job, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetCompanyBySlug(_ context.Context, companySlug string) (*db.Company, error) {
	if s.company != nil && s.company.Slug == companySlug {
		return s.company, nil
	}
	return nil, nil
}

func (s *fakeStore) ListPublishedJobsByCompany(_ context.Context, companyID uuid.UUID) ([]db.Job, error) {
	var out []db.Job
	for _, job := range s.jobs {
		if job.CompanyID == companyID && job.Status == db.JobStatusPublished {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt != nil && out[j].PublishedAt != nil && out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out, nil
}

// fakeGenerator returns canned text or an error.
type fakeGenerator struct {
	text string
	err  error
}

func (g *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGenerator) Model() string { return "fake-model" }

var _ Store = (*fakeStore)(nil)
var _ Store = (*db.DB)(nil)
var _ campaign.Store = (*fakeStore)(nil)
