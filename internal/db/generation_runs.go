package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const runColumns = `id, job_id, step, status, model, prompt, error, cost_usd, created_at, updated_at`

// CreateGenerationRun inserts an audit record in running status before a
// generation attempt begins.
func (db *DB) CreateGenerationRun(ctx context.Context, jobID uuid.UUID, step, model, prompt string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generation_runs (job_id, step, status, model, prompt)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		jobID, step, RunStatusRunning, model, prompt).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create generation run: %w", err)
	}
	return id, nil
}

// CompleteGenerationRun marks a run succeeded.
func (db *DB) CompleteGenerationRun(ctx context.Context, runID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, updated_at = NOW() WHERE id = $2`,
		RunStatusSucceeded, runID)
	if err != nil {
		return fmt.Errorf("failed to complete generation run: %w", err)
	}
	return nil
}

// FailGenerationRun marks a run failed and captures the error message.
func (db *DB) FailGenerationRun(ctx context.Context, runID uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs SET status = $1, error = $2, updated_at = NOW() WHERE id = $3`,
		RunStatusFailed, message, runID)
	if err != nil {
		return fmt.Errorf("failed to fail generation run: %w", err)
	}
	return nil
}

// ListGenerationRuns returns a job's runs, newest first.
func (db *DB) ListGenerationRuns(ctx context.Context, jobID uuid.UUID) ([]GenerationRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM generation_runs WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation runs: %w", err)
	}
	defer rows.Close()

	var runs []GenerationRun
	for rows.Next() {
		var r GenerationRun
		if err := rows.Scan(&r.ID, &r.JobID, &r.Step, &r.Status, &r.Model, &r.Prompt, &r.Error,
			&r.CostUSD, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, nil
}
