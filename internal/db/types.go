package db

import (
	"time"

	"github.com/google/uuid"
)

// Job lifecycle statuses.
const (
	JobStatusDraft     = "draft"
	JobStatusPublished = "published"
	JobStatusArchived  = "archived"
)

// JobContent review states.
const (
	ContentStateDraft       = "draft"
	ContentStateNeedsReview = "needs_review"
	ContentStateApproved    = "approved"
	// ContentStatePublished exists in historical rows; new writes never use it.
	ContentStatePublished = "published"
)

// GenerationRun statuses.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Generation run step labels for known call sites.
const (
	RunStepExtract = "extract"
	RunStepWizard  = "wizard"
	RunStepCopy    = "copy"
	RunStepAssets  = "assets"
)

// Company is the single tenant profile of a deployment.
type Company struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Website           *string   `json:"website,omitempty"`
	BrandPrimaryColor *string   `json:"brand_primary_color,omitempty"`
	BrandTone         *string   `json:"brand_tone,omitempty"`
	BrandPitch        *string   `json:"brand_pitch,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Job is one recruiting requisition.
type Job struct {
	ID                  uuid.UUID      `json:"id"`
	CompanyID           uuid.UUID      `json:"company_id"`
	Status              string         `json:"status"`
	RawIntent           string         `json:"raw_intent"`
	Title               *string        `json:"title,omitempty"`
	Location            *string        `json:"location,omitempty"`
	Seniority           *string        `json:"seniority,omitempty"`
	EmploymentType      *string        `json:"employment_type,omitempty"`
	JobSlug             string         `json:"job_slug"`
	ExtractedData       map[string]any `json:"extracted_data,omitempty"`
	PublishedAt         *time.Time     `json:"published_at,omitempty"`
	CompanySlugSnapshot *string        `json:"company_slug_snapshot,omitempty"`
	BrandSnapshotPublic map[string]any `json:"brand_snapshot_public,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// ContentPayload is the channel copy stored on a JobContent version.
// Modeled as explicit fields rather than an open map so the persistence
// boundary stays typed.
type ContentPayload struct {
	Headline *string `json:"headline"`
	Body     string  `json:"body"`
}

// JobContent is one versioned snapshot of channel copy.
type JobContent struct {
	ID        uuid.UUID      `json:"id"`
	JobID     uuid.UUID      `json:"job_id"`
	Channel   string         `json:"channel"`
	Version   int            `json:"version"`
	State     string         `json:"state"`
	Content   ContentPayload `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// GenerationRun is the audit record of one generation attempt.
type GenerationRun struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	Step      string    `json:"step"`
	Status    string    `json:"status"`
	Model     *string   `json:"model,omitempty"`
	Prompt    *string   `json:"prompt,omitempty"`
	Error     *string   `json:"error,omitempty"`
	CostUSD   *float64  `json:"cost_usd,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
