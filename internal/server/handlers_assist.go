package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/llm"
)

const assistMaxBullets = 10

// handleAssistBullets turns free text about tasks into bullet points. With a
// configured generator it asks the model; the heuristic splitter covers the
// no-credential case and any generation or parse failure.
func (s *Server) handleAssistBullets(w http.ResponseWriter, r *http.Request) {
	var req BulletsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	bullets := s.generateBullets(r, req)
	if len(bullets) > assistMaxBullets {
		bullets = bullets[:assistMaxBullets]
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"bullets": bullets})
}

func (s *Server) generateBullets(r *http.Request, req BulletsRequest) []string {
	if s.gen == nil {
		return campaign.FallbackBullets(req.Text)
	}

	prompt := campaign.BuildBulletsPrompt(req.Text, req.Tone)
	text, err := s.gen.GenerateText(r.Context(), prompt)
	if err != nil {
		log.Printf("Bullet generation failed, using fallback: %v", err)
		return campaign.FallbackBullets(req.Text)
	}

	var out struct {
		Bullets []string `json:"bullets"`
	}
	if err := llm.ExtractJSON(text, &out); err != nil || len(out.Bullets) == 0 {
		log.Printf("Bullet output unusable, using fallback: %v", err)
		return campaign.FallbackBullets(req.Text)
	}
	return out.Bullets
}
