package campaign

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/joppa/joppa/internal/db"
	"github.com/joppa/joppa/internal/llm"
	"github.com/joppa/joppa/internal/slug"
)

// Store is the persistence surface the writer needs. *db.DB satisfies it.
type Store interface {
	GetOrCreateDefaultCompany(ctx context.Context) (*db.Company, error)
	CreateDraftJob(ctx context.Context, companyID uuid.UUID, rawIntent string) (*db.Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ApplyGeneratedFields(ctx context.Context, id uuid.UUID, patch db.JobGeneratedPatch) error
	InsertJobContent(ctx context.Context, jobID uuid.UUID, channel string, state string, payload db.ContentPayload) (*db.JobContent, error)
	CreateGenerationRun(ctx context.Context, jobID uuid.UUID, step, model, prompt string) (uuid.UUID, error)
	CompleteGenerationRun(ctx context.Context, runID uuid.UUID) error
	FailGenerationRun(ctx context.Context, runID uuid.UUID, message string) error
}

// Writer orchestrates the end-to-end generation-and-persistence workflow.
// A nil generator means no credential is configured; the deterministic
// fallback is used instead of calling out.
type Writer struct {
	store Store
	gen   llm.TextGenerator
}

// NewWriter creates a campaign writer. gen may be nil.
func NewWriter(store Store, gen llm.TextGenerator) *Writer {
	return &Writer{store: store, gen: gen}
}

// modelLabel is what gets recorded on generation run audit rows.
func (w *Writer) modelLabel() string {
	if w.gen != nil {
		return w.gen.Model()
	}
	return "demo"
}

// GenerateNew creates a fresh draft job from a raw intent and runs the full
// pipeline against it. The returned job is non-nil as soon as the draft row
// exists, even when a later step fails; partial output stays persisted and
// the failure is recorded on the generation run.
func (w *Writer) GenerateNew(ctx context.Context, rawIntent string, structured map[string]any) (*db.Job, error) {
	company, err := w.store.GetOrCreateDefaultCompany(ctx)
	if err != nil {
		return nil, err
	}

	job, err := w.store.CreateDraftJob(ctx, company.ID, rawIntent)
	if err != nil {
		return nil, err
	}

	runID, err := w.store.CreateGenerationRun(ctx, job.ID, db.RunStepExtract, w.modelLabel(), "extract+copy+channels")
	if err != nil {
		return job, err
	}

	if err := w.run(ctx, runParams{
		job:       job,
		company:   company,
		rawIntent: rawIntent,
		// first creation keeps the intent already stored on the draft row
		updateIntent: false,
		structured:   structured,
		variant:      VariantBrainDump,
		channels:     AllChannels,
	}); err != nil {
		_ = w.store.FailGenerationRun(ctx, runID, err.Error())
		return job, err
	}

	if err := w.store.CompleteGenerationRun(ctx, runID); err != nil {
		return job, err
	}
	return job, nil
}

// Regenerate reruns the pipeline for an existing job, typically from the
// wizard. The caller-selected channel subset applies and a structured title
// override wins over the generated title.
func (w *Writer) Regenerate(ctx context.Context, jobID uuid.UUID, rawIntent string, structured map[string]any) (*db.Job, error) {
	company, err := w.store.GetOrCreateDefaultCompany(ctx)
	if err != nil {
		return nil, err
	}

	job, err := w.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}
	if job.CompanyID != company.ID {
		return nil, &ErrNotAllowed{JobID: jobID}
	}

	runID, err := w.store.CreateGenerationRun(ctx, job.ID, db.RunStepWizard, w.modelLabel(), "wizard-regenerate")
	if err != nil {
		return job, err
	}

	if err := w.run(ctx, runParams{
		job:          job,
		company:      company,
		rawIntent:    rawIntent,
		updateIntent: true,
		structured:   structured,
		variant:      VariantInput,
		channels:     EnabledChannels(structured),
	}); err != nil {
		_ = w.store.FailGenerationRun(ctx, runID, err.Error())
		return job, err
	}

	if err := w.store.CompleteGenerationRun(ctx, runID); err != nil {
		return job, err
	}
	return job, nil
}

type runParams struct {
	job          *db.Job
	company      *db.Company
	rawIntent    string
	updateIntent bool
	structured   map[string]any
	variant      PromptVariant
	channels     []string
}

// run executes generation and persistence for one attempt. Any error aborts
// the remaining steps; rows already written stay in place.
func (w *Writer) run(ctx context.Context, p runParams) error {
	generated, err := w.generate(ctx, p.rawIntent, p.company, p.variant)
	if err != nil {
		return err
	}

	title := ""
	if t, _ := p.structured["title"].(string); t != "" {
		title = t
	}
	if title == "" {
		title = generated.Job.Title
	}
	if title == "" {
		title = "Vacature"
	}

	jobSlug := slug.Make(generated.Job.JobSlug)
	if jobSlug == "" {
		jobSlug = slug.Make(title)
	}
	if jobSlug == "" {
		jobSlug = fmt.Sprintf("vacature-%.8s", p.job.ID.String())
	}

	extracted := map[string]any{}
	if generated.Job.Summary != "" {
		extracted["summary"] = generated.Job.Summary
	}
	if p.structured != nil {
		extracted["input_v1"] = p.structured
	}

	patch := db.JobGeneratedPatch{
		Title:          title,
		Location:       optional(generated.Job.Location),
		Seniority:      optional(generated.Job.Seniority),
		EmploymentType: optional(generated.Job.EmploymentType),
		JobSlug:        jobSlug,
		ExtractedData:  extracted,
	}
	if p.updateIntent {
		patch.RawIntent = &p.rawIntent
	}
	if err := w.store.ApplyGeneratedFields(ctx, p.job.ID, patch); err != nil {
		return err
	}

	for _, channel := range p.channels {
		content, ok := generated.Contents[channel]
		if !ok || content.Body == "" {
			// Channels without their own copy reuse the website body.
			content = generated.Contents[ChannelWebsite]
		}
		if content.Body == "" {
			continue
		}

		payload := db.ContentPayload{Body: content.Body}
		if content.Headline != "" {
			payload.Headline = &content.Headline
		}
		if _, err := w.store.InsertJobContent(ctx, p.job.ID, channel, db.ContentStateDraft, payload); err != nil {
			return err
		}
	}

	return nil
}

// generate obtains a campaign from Gemini or, when no credential is
// configured, from the deterministic fallback. Generation and parse
// failures are never silently substituted with the fallback.
func (w *Writer) generate(ctx context.Context, rawIntent string, company *db.Company, variant PromptVariant) (*Campaign, error) {
	companyInput := CompanyInput{
		Name:       company.Name,
		Website:    deref(company.Website),
		BrandTone:  deref(company.BrandTone),
		BrandPitch: deref(company.BrandPitch),
	}

	if w.gen == nil {
		return FallbackGenerate(rawIntent, companyInput), nil
	}

	prompt := BuildCampaignPrompt(PromptInput{
		RawIntent: rawIntent,
		Company:   companyInput,
		Variant:   variant,
	})

	text, err := w.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := llm.ExtractJSON(text, &raw); err != nil {
		return nil, err
	}
	return DecodeCampaign(raw)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
