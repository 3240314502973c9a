package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, company_id, status, raw_intent, title, location, seniority, employment_type,
	job_slug, extracted_data, published_at, company_slug_snapshot, brand_snapshot_public, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var (
		j             Job
		extracted     []byte
		brandSnapshot []byte
	)
	err := row.Scan(&j.ID, &j.CompanyID, &j.Status, &j.RawIntent, &j.Title, &j.Location, &j.Seniority,
		&j.EmploymentType, &j.JobSlug, &extracted, &j.PublishedAt, &j.CompanySlugSnapshot,
		&brandSnapshot, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &j.ExtractedData); err != nil {
			return nil, fmt.Errorf("failed to decode extracted_data: %w", err)
		}
	}
	if len(brandSnapshot) > 0 {
		if err := json.Unmarshal(brandSnapshot, &j.BrandSnapshotPublic); err != nil {
			return nil, fmt.Errorf("failed to decode brand_snapshot_public: %w", err)
		}
	}
	return &j, nil
}

// CreateDraftJob inserts a new job in draft status with a temporary unique
// slug derived from a fresh UUID. The real slug is assigned after generation.
func (db *DB) CreateDraftJob(ctx context.Context, companyID uuid.UUID, rawIntent string) (*Job, error) {
	tempSlug := "draft-" + uuid.New().String()
	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (company_id, status, raw_intent, job_slug)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+jobColumns,
		companyID, JobStatusDraft, rawIntent, tempSlug)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft job: %w", err)
	}
	return j, nil
}

// GetJobByID retrieves a job by its UUID, or nil when absent.
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// JobGeneratedPatch carries the fields resolved from a generation result.
type JobGeneratedPatch struct {
	RawIntent      *string // set on regeneration, nil on first creation
	Title          string
	Location       *string
	Seniority      *string
	EmploymentType *string
	JobSlug        string
	ExtractedData  map[string]any
}

// ApplyGeneratedFields updates a job with the outcome of a generation run.
func (db *DB) ApplyGeneratedFields(ctx context.Context, id uuid.UUID, patch JobGeneratedPatch) error {
	extracted, err := json.Marshal(patch.ExtractedData)
	if err != nil {
		return fmt.Errorf("failed to encode extracted_data: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE jobs
		 SET raw_intent = COALESCE($1, raw_intent),
		     title = $2, location = $3, seniority = $4, employment_type = $5,
		     job_slug = $6, extracted_data = $7, updated_at = NOW()
		 WHERE id = $8`,
		patch.RawIntent, patch.Title, patch.Location, patch.Seniority, patch.EmploymentType,
		patch.JobSlug, extracted, id)
	if err != nil {
		return fmt.Errorf("failed to apply generated fields: %w", err)
	}
	return nil
}

// JobStructurePatch carries manual structure edits from the dashboard.
type JobStructurePatch struct {
	Title          *string
	Location       *string
	Seniority      *string
	EmploymentType *string
	JobSlug        string // empty keeps the current slug
}

// UpdateJobStructure applies manual field edits and returns the updated job.
func (db *DB) UpdateJobStructure(ctx context.Context, id uuid.UUID, patch JobStructurePatch) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET title = $1, location = $2, seniority = $3, employment_type = $4,
		     job_slug = CASE WHEN $5 = '' THEN job_slug ELSE $5 END,
		     updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+jobColumns,
		patch.Title, patch.Location, patch.Seniority, patch.EmploymentType, patch.JobSlug, id)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job structure: %w", err)
	}
	return j, nil
}

// PublishJob marks a job published and freezes the company branding onto the
// job so the public page survives later company edits.
func (db *DB) PublishJob(ctx context.Context, id uuid.UUID, company *Company) (*Job, error) {
	snapshot := map[string]any{
		"name":              company.Name,
		"website":           company.Website,
		"brandPrimaryColor": company.BrandPrimaryColor,
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode brand snapshot: %w", err)
	}
	row := db.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET status = $1, published_at = NOW(), company_slug_snapshot = $2,
		     brand_snapshot_public = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+jobColumns,
		JobStatusPublished, company.Slug, encoded, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to publish job: %w", err)
	}
	return j, nil
}

// UnpublishJob reverts a job to draft and clears the published timestamp.
// The snapshot fields are deliberately left in place.
func (db *DB) UnpublishJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE jobs
		 SET status = $1, published_at = NULL, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+jobColumns,
		JobStatusDraft, id)
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish job: %w", err)
	}
	return j, nil
}

// DeleteJobCascade removes a job together with its content versions and
// generation runs. Children go first; no FK cascade is assumed.
func (db *DB) DeleteJobCascade(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM job_contents WHERE job_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete job contents: %w", err)
	}
	if _, err := db.pool.Exec(ctx, `DELETE FROM generation_runs WHERE job_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete generation runs: %w", err)
	}
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

// ListJobsByCompany returns a company's jobs ordered by last update.
func (db *DB) ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE company_id = $1 ORDER BY updated_at DESC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// ListPublishedJobsByCompany returns a company's published jobs, most
// recently published first, for the public company page.
func (db *DB) ListPublishedJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE company_id = $1 AND status = $2
		 ORDER BY published_at DESC`,
		companyID, JobStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list published company jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// PublicJob is a job row joined with its owning company for public listings.
type PublicJob struct {
	Job
	CompanyName string `json:"company_name"`
	CompanySlug string `json:"company_slug"`
}

// ListPublishedJobs returns published jobs, newest first, joined with the
// owning company for linking.
func (db *DB) ListPublishedJobs(ctx context.Context, limit int) ([]PublicJob, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.pool.Query(ctx,
		`SELECT j.id, j.company_id, j.status, j.raw_intent, j.title, j.location, j.seniority,
		        j.employment_type, j.job_slug, j.extracted_data, j.published_at,
		        j.company_slug_snapshot, j.brand_snapshot_public, j.created_at, j.updated_at,
		        c.name, c.slug
		 FROM jobs j
		 JOIN companies c ON c.id = j.company_id
		 WHERE j.status = $1
		 ORDER BY j.published_at DESC
		 LIMIT $2`,
		JobStatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published jobs: %w", err)
	}
	defer rows.Close()

	var jobs []PublicJob
	for rows.Next() {
		var (
			p             PublicJob
			extracted     []byte
			brandSnapshot []byte
		)
		err := rows.Scan(&p.ID, &p.CompanyID, &p.Status, &p.RawIntent, &p.Title, &p.Location,
			&p.Seniority, &p.EmploymentType, &p.JobSlug, &extracted, &p.PublishedAt,
			&p.CompanySlugSnapshot, &brandSnapshot, &p.CreatedAt, &p.UpdatedAt,
			&p.CompanyName, &p.CompanySlug)
		if err != nil {
			return nil, fmt.Errorf("failed to scan published job: %w", err)
		}
		if len(extracted) > 0 {
			if err := json.Unmarshal(extracted, &p.ExtractedData); err != nil {
				return nil, fmt.Errorf("failed to decode extracted_data: %w", err)
			}
		}
		if len(brandSnapshot) > 0 {
			if err := json.Unmarshal(brandSnapshot, &p.BrandSnapshotPublic); err != nil {
				return nil, fmt.Errorf("failed to decode brand_snapshot_public: %w", err)
			}
		}
		jobs = append(jobs, p)
	}
	return jobs, nil
}

// GetPublishedJobBySlugs resolves a public job page: the job must be
// published and is matched on the slug snapshot captured at publish time.
func (db *DB) GetPublishedJobBySlugs(ctx context.Context, companySlug, jobSlug string) (*Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE status = $1 AND company_slug_snapshot = $2 AND job_slug = $3`,
		JobStatusPublished, companySlug, jobSlug)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get published job: %w", err)
	}
	return j, nil
}
