package campaign

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joppa/joppa/internal/slug"
)

// maxTitleLength caps titles derived from the first intent line.
const maxTitleLength = 80

var (
	titleLabelPrefix = regexp.MustCompile(`(?i)^(functie|rol|role|title|titel|job)\s*[:\-]\s*`)
	locationLabelNL  = regexp.MustCompile(`(?i)locatie\s*[:\-]\s*([^\n,]+)`)
	locationLabelEN  = regexp.MustCompile(`(?i)location\s*[:\-]\s*([^\n,]+)`)
)

// FallbackGenerate produces a structurally valid campaign without any
// external service, used when no generation credential is configured. The
// output conforms to the same schema contract as the Gemini path: all six
// channels carry a body and the job always has a title and slug.
func FallbackGenerate(rawIntent string, company CompanyInput) *Campaign {
	title := pickTitle(rawIntent)
	location := pickLocation(rawIntent)
	seniority := pickSeniority(rawIntent)

	companyName := company.Name
	if companyName == "" {
		companyName = "My Company"
	}
	tone := company.BrandTone
	if tone == "" {
		tone = "direct & helder"
	}

	jobSlug := slug.Make(title)
	if jobSlug == "" {
		jobSlug = "job"
	}

	contents := make(map[string]ChannelContent, len(AllChannels))
	for _, channel := range AllChannels {
		headline := fmt.Sprintf("%s bij %s", title, companyName)
		if channel == ChannelTikTok {
			headline = "Stop met scrollen: " + title
		}
		contents[channel] = ChannelContent{
			Headline: headline,
			Body:     fallbackBody(channel, headline, title, location, seniority, tone),
		}
	}

	return &Campaign{
		Job: JobFields{
			Title:     title,
			Location:  location,
			Seniority: seniority,
			JobSlug:   jobSlug,
		},
		Contents: contents,
	}
}

// pickTitle takes the first non-empty line of the intent, strips a leading
// label prefix and caps the length.
func pickTitle(raw string) string {
	first := "Nieuwe rol"
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			first = trimmed
			break
		}
	}
	first = titleLabelPrefix.ReplaceAllString(first, "")
	if utf8.RuneCountInString(first) > maxTitleLength {
		first = string([]rune(first)[:maxTitleLength])
	}
	return first
}

// pickLocation matches a "locatie:" or "location:" label up to the next
// comma or newline.
func pickLocation(raw string) string {
	if m := locationLabelNL.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	if m := locationLabelEN.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// pickSeniority scans for seniority keywords in precedence order.
func pickSeniority(raw string) string {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "senior"):
		return "Senior"
	case strings.Contains(t, "lead"):
		return "Lead"
	case strings.Contains(t, "medior"):
		return "Medior"
	case strings.Contains(t, "junior"):
		return "Junior"
	}
	return ""
}

func fallbackBody(channel, headline, title, location, seniority, tone string) string {
	switch channel {
	case ChannelWebsite:
		return strings.Join([]string{
			"## Over de rol",
			fmt.Sprintf("Je zoekt iemand die ownership pakt en snel waarde levert. Dit is geschreven in een %s tone of voice.", tone),
			"",
			"## Wat je gaat doen",
			"- Kernverantwoordelijkheid #1",
			"- Kernverantwoordelijkheid #2",
			"- Samenwerken met team(s)",
			"",
			"## Wat jij meebrengt",
			"- 3+ jaar relevante ervaring (pas aan)",
			"- Sterke communicatie",
			"- Hands-on mentaliteit",
			"",
			"## Solliciteer",
			"Klik op 'Solliciteren' en we nemen snel contact op.",
		}, "\n")
	case ChannelIndeed:
		return strings.Join([]string{
			headline,
			"",
			"Locatie: " + orTBD(location),
			"Senioriteit: " + orTBD(seniority),
			"",
			"Korte samenvatting",
			"- Punt 1",
			"- Punt 2",
			"",
			"Solliciteren: via de sollicitatielink",
		}, "\n")
	default:
		locationLine := location
		if locationLine == "" {
			locationLine = "Locatie in overleg"
		}
		seniorityLine := seniority
		if seniorityLine == "" {
			seniorityLine = "Niveau in overleg"
		}
		hashtag := strings.ReplaceAll(slug.Make(title), "-", "")
		return strings.Join([]string{
			headline,
			"",
			"📍 " + locationLine,
			"✅ " + seniorityLine,
			"",
			"Wat ga je doen?",
			"- Punt 1",
			"- Punt 2",
			"",
			"Reageer / solliciteer via link in bio.",
			"#vacature #werken #" + hashtag,
		}, "\n")
	}
}

func orTBD(s string) string {
	if s == "" {
		return "n.t.b."
	}
	return s
}
