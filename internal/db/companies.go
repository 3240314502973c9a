package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/joppa/joppa/internal/slug"
)

const companyColumns = `id, name, slug, website, brand_primary_color, brand_tone, brand_pitch, created_at`

// slugAttempts bounds the numeric-suffix probing before falling back to a
// timestamp suffix.
const slugAttempts = 50

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.BrandPrimaryColor, &c.BrandTone, &c.BrandPitch, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetDefaultCompany returns the oldest company row, or nil when none exists.
// The deployment model is single-tenant: the first company created is "the"
// company.
func (db *DB) GetDefaultCompany(ctx context.Context) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at ASC LIMIT 1`)
	c, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default company: %w", err)
	}
	return c, nil
}

// GetOrCreateDefaultCompany returns the default company, creating a
// "My Company" row on first use.
func (db *DB) GetOrCreateDefaultCompany(ctx context.Context) (*Company, error) {
	existing, err := db.GetDefaultCompany(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	name := "My Company"
	base := slug.Make(name)
	if base == "" {
		base = "bedrijf"
	}
	unique, err := db.uniqueCompanySlug(ctx, base)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, slug) VALUES ($1, $2) RETURNING `+companyColumns,
		name, unique)
	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create default company: %w", err)
	}
	return c, nil
}

// GetCompanyBySlug retrieves a company by its public slug, or nil when absent.
func (db *DB) GetCompanyBySlug(ctx context.Context, companySlug string) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE slug = $1`, companySlug)
	c, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by slug: %w", err)
	}
	return c, nil
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// CompanyPatch holds the mutable profile fields of a company.
type CompanyPatch struct {
	Name              string
	Slug              string
	Website           *string
	BrandPrimaryColor *string
	BrandTone         *string
	BrandPitch        *string
}

// UpdateCompany overwrites the company profile and returns the updated row.
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, patch CompanyPatch) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE companies
		 SET name = $1, slug = $2, website = $3, brand_primary_color = $4, brand_tone = $5, brand_pitch = $6
		 WHERE id = $7
		 RETURNING `+companyColumns,
		patch.Name, patch.Slug, patch.Website, patch.BrandPrimaryColor, patch.BrandTone, patch.BrandPitch, id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return c, nil
}

// uniqueCompanySlug probes for a free slug: the base first, then numeric
// suffixes -2..-51, then a unix-timestamp suffix as last resort.
func (db *DB) uniqueCompanySlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 0; i < slugAttempts; i++ {
		var id uuid.UUID
		err := db.pool.QueryRow(ctx,
			`SELECT id FROM companies WHERE slug = $1 LIMIT 1`, candidate).Scan(&id)
		if err == pgx.ErrNoRows {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check company slug: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d", base, i+2)
	}
	return fmt.Sprintf("%s-%d", base, time.Now().Unix()), nil
}
