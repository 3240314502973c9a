package campaign

import "strings"

// PromptVariant selects the framing of the campaign prompt. The schema is
// identical across variants; only the framing sentences differ.
type PromptVariant string

const (
	// VariantBrainDump frames the intent as loose, exploratory input.
	VariantBrainDump PromptVariant = "brain_dump"
	// VariantInput frames the intent as structured wizard input.
	VariantInput PromptVariant = "input"
)

// CompanyInput is the company profile fed into prompt construction.
type CompanyInput struct {
	Name       string
	Website    string
	BrandTone  string
	BrandPitch string
}

// PromptInput is the full input of the campaign prompt builder.
type PromptInput struct {
	RawIntent string
	Company   CompanyInput
	Variant   PromptVariant
}

// BuildCampaignPrompt renders the generation instruction: writing-style
// rules, the strict output schema, per-channel guidance and the company
// context. Pure and deterministic; same input yields the same string.
func BuildCampaignPrompt(input PromptInput) string {
	brainDump := input.Variant != VariantInput

	lines := []string{
		"Je bent een Nederlandse recruitment copywriter en campaign builder.",
	}
	if brainDump {
		lines = append(lines, "Doel: maak van een 'brain dump' een publicatie-klare vacature + kanaalteksten.")
	} else {
		lines = append(lines, "Doel: maak van de input een publicatie-klare vacature + kanaalteksten.")
	}

	lines = append(lines,
		"",
		"Regels:",
		"- Schrijf warm, menselijk, niet-technisch Nederlands.",
		"- Gebruik geen buzzwords of overdreven AI-taal.",
		"- Als iets ontbreekt, kies redelijke aannames (zonder bedragen te verzinnen).",
		"- Output MOET geldige JSON zijn (geen markdown, geen uitleg).",
		"",
		"Geef JSON met dit schema:",
		"{",
		`  "job": { "title": string, "location"?: string, "seniority"?: string, "employmentType"?: string, "jobSlug"?: string, "summary"?: string },`,
		`  "contents": {`,
		`     "website": { "headline"?: string, "body": string },`,
		`     "indeed": { "headline"?: string, "body": string },`,
		`     "linkedin": { "headline"?: string, "body": string },`,
		`     "instagram": { "headline"?: string, "body": string },`,
		`     "facebook": { "headline"?: string, "body": string },`,
		`     "tiktok": { "headline"?: string, "body": string }`,
		"  }",
		"}",
		"",
		"Schrijf website-body als een nette vacature met secties en duidelijke bullets.",
		"Indeed-body mag compacter, maar compleet.",
	)
	if brainDump {
		lines = append(lines, "LinkedIn/Instagram/Facebook/TikTok: kort, wervend, met CTA en max ~1200 tekens. Gebruik spaarzaam emoji: liever geen.")
	} else {
		lines = append(lines, "LinkedIn/Instagram/Facebook/TikTok: kort, wervend, met CTA en max ~1200 tekens.")
	}

	lines = append(lines, "", "Bedrijf: "+input.Company.Name)
	if input.Company.Website != "" {
		lines = append(lines, "Website: "+input.Company.Website)
	}
	if input.Company.BrandTone != "" {
		lines = append(lines, "Tone of voice: "+input.Company.BrandTone)
	}
	if input.Company.BrandPitch != "" {
		lines = append(lines, "Pitch: "+input.Company.BrandPitch)
	}

	lines = append(lines, "")
	if brainDump {
		lines = append(lines, "Brain dump:")
	} else {
		lines = append(lines, "Input:")
	}
	lines = append(lines, input.RawIntent)

	return strings.Join(lines, "\n")
}

// BuildBulletsPrompt renders the instruction for the bullets assist
// endpoint: turn free text into 4-8 short task bullets as JSON.
func BuildBulletsPrompt(text, tone string) string {
	lines := []string{
		"Je bent een Nederlandse recruiter.",
		"Zet de input om naar 4-8 concrete taken (bullets).",
		"Regels:",
		"- Korte bullets (max 12 woorden).",
		"- Begin met een werkwoord.",
		"- Geen salaris, geen fluff, geen emoji.",
	}
	if tone != "" {
		lines = append(lines, "Tone of voice: "+tone)
	}
	lines = append(lines,
		"",
		"Output moet geldige JSON zijn (geen markdown):",
		`{ "bullets": string[] }`,
		"",
		"Input:",
		text,
	)
	return strings.Join(lines, "\n")
}
