// Package campaign implements the generation pipeline that turns a free-text
// job intent into channel copy: prompt construction, Gemini invocation with a
// deterministic fallback, JSON recovery and schema validation, and versioned
// persistence of the result.
package campaign

// Channel names are wire-level constants shared with the dashboard, the
// public API and the Indeed feed. Do not rename.
const (
	ChannelWebsite   = "website"
	ChannelIndeed    = "indeed"
	ChannelInstagram = "instagram"
	ChannelFacebook  = "facebook"
	ChannelTikTok    = "tiktok"
	ChannelLinkedIn  = "linkedin"
)

// AllChannels lists every publication channel in output order.
var AllChannels = []string{
	ChannelWebsite,
	ChannelIndeed,
	ChannelInstagram,
	ChannelFacebook,
	ChannelTikTok,
	ChannelLinkedIn,
}

// DefaultChannels is the enabled subset when a caller supplies no selection.
var DefaultChannels = []string{ChannelWebsite, ChannelIndeed}

// ChannelLabels maps channel ids to display labels used in exports and the
// Indeed feed.
var ChannelLabels = map[string]string{
	ChannelWebsite:   "Website",
	ChannelIndeed:    "Indeed",
	ChannelInstagram: "Instagram",
	ChannelFacebook:  "Facebook",
	ChannelTikTok:    "TikTok",
	ChannelLinkedIn:  "LinkedIn",
}

// IsChannel reports whether name is a known channel.
func IsChannel(name string) bool {
	_, ok := ChannelLabels[name]
	return ok
}

// EnabledChannels derives the channel subset from the structured wizard
// input (`channels: {website: true, ...}`), falling back to DefaultChannels
// when nothing is selected.
func EnabledChannels(structured map[string]any) []string {
	selection, _ := structured["channels"].(map[string]any)
	var enabled []string
	for _, ch := range AllChannels {
		if on, _ := selection[ch].(bool); on {
			enabled = append(enabled, ch)
		}
	}
	if len(enabled) == 0 {
		return DefaultChannels
	}
	return enabled
}
