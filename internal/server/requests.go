package server

import (
	"github.com/go-playground/validator/v10"
)

// GenerateRequest represents the request body for /api/campaigns/generate.
type GenerateRequest struct {
	RawIntent  string         `json:"raw_intent" validate:"required,min=10"`
	Structured map[string]any `json:"structured,omitempty"`
}

// WizardRequest represents the request body for /api/campaigns/{id}/wizard.
type WizardRequest struct {
	RawIntent  string         `json:"raw_intent" validate:"required,min=10"`
	Structured map[string]any `json:"structured,omitempty"`
}

// StructureRequest represents manual field edits on a campaign.
type StructureRequest struct {
	Title          *string `json:"title,omitempty"`
	Location       *string `json:"location,omitempty"`
	Seniority      *string `json:"seniority,omitempty"`
	EmploymentType *string `json:"employment_type,omitempty"`
}

// PublishRequest toggles the published state of a campaign.
type PublishRequest struct {
	Publish bool `json:"publish"`
}

// SaveContentRequest represents a manual content save (new version).
type SaveContentRequest struct {
	Channel  string `json:"channel" validate:"required"`
	Headline string `json:"headline,omitempty"`
	Body     string `json:"body" validate:"required,min=10"`
}

// ContentStateRequest moves the latest version of a channel to a new state.
type ContentStateRequest struct {
	Channel string `json:"channel" validate:"required"`
	State   string `json:"state" validate:"required,oneof=draft needs_review approved"`
}

// CompanyRequest represents a company profile update.
type CompanyRequest struct {
	Name              string  `json:"name" validate:"required,min=1"`
	Website           *string `json:"website,omitempty"`
	BrandPrimaryColor *string `json:"brand_primary_color,omitempty"`
	BrandTone         *string `json:"brand_tone,omitempty"`
	BrandPitch        *string `json:"brand_pitch,omitempty"`
}

// BulletsRequest represents the request body for /api/assist/bullets.
type BulletsRequest struct {
	Text string `json:"text" validate:"required,min=3"`
	Tone string `json:"tone,omitempty"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the WizardRequest using the validator.
func (r *WizardRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SaveContentRequest using the validator.
func (r *SaveContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ContentStateRequest using the validator.
func (r *ContentStateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompanyRequest using the validator.
func (r *CompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BulletsRequest using the validator.
func (r *BulletsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
