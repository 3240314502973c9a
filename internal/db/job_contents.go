package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const contentColumns = `id, job_id, channel, version, state, content, created_at`

func scanContent(row pgx.Row) (*JobContent, error) {
	var (
		c       JobContent
		payload []byte
	)
	if err := row.Scan(&c.ID, &c.JobID, &c.Channel, &c.Version, &c.State, &payload, &c.CreatedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &c.Content); err != nil {
			return nil, fmt.Errorf("failed to decode content payload: %w", err)
		}
	}
	return &c, nil
}

// insertContentAttempts bounds retries when concurrent writers race for the
// same version slot.
const insertContentAttempts = 3

// InsertJobContent stores the next content version for a channel. The
// version is computed inside the INSERT itself and guarded by the unique
// (job_id, channel, version) index, so each save gets a new, ordered
// version even under concurrent writes; a loser of the race retries.
func (db *DB) InsertJobContent(ctx context.Context, jobID uuid.UUID, channel string, state string, payload ContentPayload) (*JobContent, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content payload: %w", err)
	}

	for attempt := 0; attempt < insertContentAttempts; attempt++ {
		row := db.pool.QueryRow(ctx,
			`INSERT INTO job_contents (job_id, channel, version, state, content)
			 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4
			 FROM job_contents WHERE job_id = $1 AND channel = $2
			 RETURNING `+contentColumns,
			jobID, channel, state, encoded)
		c, err := scanContent(row)
		if err == nil {
			return c, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			continue
		}
		return nil, fmt.Errorf("failed to insert job content: %w", err)
	}
	return nil, fmt.Errorf("failed to insert job content: version conflict persisted after %d attempts", insertContentAttempts)
}

// LatestContentForChannel returns the highest-version row for a channel,
// or nil when the channel has no content yet.
func (db *DB) LatestContentForChannel(ctx context.Context, jobID uuid.UUID, channel string) (*JobContent, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM job_contents
		 WHERE job_id = $1 AND channel = $2
		 ORDER BY version DESC LIMIT 1`,
		jobID, channel)
	c, err := scanContent(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest content: %w", err)
	}
	return c, nil
}

// LatestContentByChannel returns the newest version of every channel that
// has content for the job.
func (db *DB) LatestContentByChannel(ctx context.Context, jobID uuid.UUID) (map[string]JobContent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM job_contents
		 WHERE job_id = $1
		 ORDER BY version DESC`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job contents: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]JobContent)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job content: %w", err)
		}
		// Rows arrive newest-first; keep the first per channel.
		if _, ok := latest[c.Channel]; !ok {
			latest[c.Channel] = *c
		}
	}
	return latest, nil
}

// UpdateContentState mutates the review state of an existing content row in
// place. State changes never create a new version.
func (db *DB) UpdateContentState(ctx context.Context, contentID uuid.UUID, state string) (*JobContent, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE job_contents SET state = $1 WHERE id = $2 RETURNING `+contentColumns,
		state, contentID)
	c, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update content state: %w", err)
	}
	return c, nil
}

// LatestContentsForJobs bulk-loads the newest row per (job, channel) for a
// set of jobs, restricted to the given channels. Used by the Indeed feed.
func (db *DB) LatestContentsForJobs(ctx context.Context, jobIDs []uuid.UUID, channels []string) (map[uuid.UUID]map[string]JobContent, error) {
	if len(jobIDs) == 0 {
		return map[uuid.UUID]map[string]JobContent{}, nil
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+contentColumns+` FROM job_contents
		 WHERE job_id = ANY($1) AND channel = ANY($2)
		 ORDER BY version DESC`,
		jobIDs, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents for jobs: %w", err)
	}
	defer rows.Close()

	byJob := make(map[uuid.UUID]map[string]JobContent)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job content: %w", err)
		}
		if byJob[c.JobID] == nil {
			byJob[c.JobID] = make(map[string]JobContent)
		}
		if _, ok := byJob[c.JobID][c.Channel]; !ok {
			byJob[c.JobID][c.Channel] = *c
		}
	}
	return byJob, nil
}
