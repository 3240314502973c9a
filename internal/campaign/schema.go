package campaign

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Campaign is the structured generation result shared by the Gemini path and
// the fallback generator. Downstream code is agnostic to which path
// produced it.
type Campaign struct {
	Job      JobFields                 `json:"job"`
	Contents map[string]ChannelContent `json:"contents"`
}

// JobFields carries the job attributes resolved from the intent.
type JobFields struct {
	Title          string `json:"title"`
	Location       string `json:"location,omitempty"`
	Seniority      string `json:"seniority,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	JobSlug        string `json:"jobSlug,omitempty"`
	Summary        string `json:"summary,omitempty"`
}

// ChannelContent is one channel's copy.
type ChannelContent struct {
	Headline string `json:"headline,omitempty"`
	Body     string `json:"body"`
}

//go:embed campaign_schema.json
var campaignSchemaJSON string

var campaignSchema = gojsonschema.NewStringLoader(campaignSchemaJSON)

// SchemaError indicates a parsed generation result does not match the
// campaign schema. It is distinct from a parse failure so the audit trail
// records which stage rejected the output.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("generation output does not match campaign schema: %s", strings.Join(e.Errors, "; "))
}

// DecodeCampaign validates a raw JSON document against the campaign schema
// and decodes it. Validation happens before decoding so type mismatches
// surface as SchemaError rather than silent zero values.
func DecodeCampaign(raw json.RawMessage) (*Campaign, error) {
	result, err := gojsonschema.Validate(campaignSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &SchemaError{Errors: []string{err.Error()}}
	}
	if !result.Valid() {
		schemaErr := &SchemaError{}
		for _, desc := range result.Errors() {
			schemaErr.Errors = append(schemaErr.Errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, schemaErr
	}

	var c Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &SchemaError{Errors: []string{err.Error()}}
	}
	return &c, nil
}
