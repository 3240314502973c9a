package campaign

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackGenerate_DutchLabels(t *testing.T) {
	c := FallbackGenerate("Titel: Backend Developer\nLocatie: Utrecht\nSenior profiel gewenst", CompanyInput{Name: "Acme"})

	assert.Equal(t, "Backend Developer", c.Job.Title)
	assert.Equal(t, "Utrecht", c.Job.Location)
	assert.Equal(t, "Senior", c.Job.Seniority)
	assert.Equal(t, "backend-developer", c.Job.JobSlug)
}

func TestFallbackGenerate_AllChannelsPresent(t *testing.T) {
	c := FallbackGenerate("We zoeken een monteur in Rotterdam, medior niveau", CompanyInput{Name: "Acme", BrandTone: "nuchter"})

	require.Len(t, c.Contents, len(AllChannels))
	for _, channel := range AllChannels {
		content, ok := c.Contents[channel]
		require.True(t, ok, "missing channel %s", channel)
		assert.NotEmpty(t, content.Body, "empty body for %s", channel)
	}
	assert.NotEmpty(t, c.Job.Title)
	assert.Equal(t, "Medior", c.Job.Seniority)
}

func TestFallbackGenerate_ConformsToSchema(t *testing.T) {
	c := FallbackGenerate("Functie: Kok\nLocation: Amsterdam, centrum", CompanyInput{Name: "Bistro"})

	encoded, err := json.Marshal(c)
	require.NoError(t, err)

	decoded, err := DecodeCampaign(encoded)
	require.NoError(t, err, "fallback output must satisfy the same schema as the Gemini path")
	assert.Equal(t, "Kok", decoded.Job.Title)
	assert.Equal(t, "Amsterdam", decoded.Job.Location, "location stops at the first comma")
}

func TestPickTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "label stripped", input: "Functie: Lasser", expected: "Lasser"},
		{name: "role label", input: "rol - Projectleider", expected: "Projectleider"},
		{name: "skips empty lines", input: "\n\n  \nVerkoper binnendienst\nmeer tekst", expected: "Verkoper binnendienst"},
		{name: "empty intent", input: "", expected: "Nieuwe rol"},
		{name: "long line capped", input: "Titel: " + repeat("x", 120), expected: repeat("x", 80)},
		{name: "multibyte line capped on rune boundary", input: "Titel: " + repeat("é", 120), expected: repeat("é", 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pickTitle(tt.input))
		})
	}
}

func TestPickSeniority_Precedence(t *testing.T) {
	// "senior" wins even when other keywords are present.
	assert.Equal(t, "Senior", pickSeniority("junior of senior, maakt niet uit"))
	assert.Equal(t, "Lead", pickSeniority("lead engineer, geen junior"))
	assert.Equal(t, "", pickSeniority("gewoon een vakman"))
}

func TestFallbackGenerate_TikTokHeadline(t *testing.T) {
	c := FallbackGenerate("Bezorger gezocht", CompanyInput{Name: "Acme"})
	assert.Equal(t, "Stop met scrollen: Bezorger gezocht", c.Contents[ChannelTikTok].Headline)
	assert.Equal(t, "Bezorger gezocht bij Acme", c.Contents[ChannelWebsite].Headline)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
