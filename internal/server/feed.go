package server

import (
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joppa/joppa/internal/campaign"
	"github.com/joppa/joppa/internal/db"
)

const feedLimit = 200

// feedSource is the Indeed XML source feed document.
type feedSource struct {
	XMLName       xml.Name  `xml:"source"`
	Publisher     string    `xml:"publisher"`
	PublisherURL  string    `xml:"publisherurl"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Jobs          []feedJob `xml:"job"`
}

type feedJob struct {
	Title           cdata  `xml:"title"`
	Date            string `xml:"date"`
	ReferenceNumber string `xml:"referencenumber"`
	URL             string `xml:"url"`
	Company         cdata  `xml:"company"`
	City            cdata  `xml:"city"`
	Country         string `xml:"country"`
	Description     cdata  `xml:"description"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// handleIndeedFeed serves the Indeed source feed of published jobs. The
// latest indeed copy is used per job, with the website copy as fallback.
func (s *Server) handleIndeedFeed(w http.ResponseWriter, r *http.Request) {
	base := requestOrigin(r)
	feed := feedSource{
		Publisher:     "Joppa",
		PublisherURL:  base,
		LastBuildDate: time.Now().UTC().Format(http.TimeFormat),
	}

	jobs, err := s.store.ListPublishedJobs(r.Context(), feedLimit)
	if err != nil {
		// Indeed keeps polling; serve a diagnostic document instead of a 500.
		feed.Jobs = []feedJob{{
			Title:           cdata{Value: "Feed error"},
			Date:            time.Now().UTC().Format(time.RFC3339),
			ReferenceNumber: "error",
			URL:             base,
			Company:         cdata{Value: "Joppa"},
			City:            cdata{Value: "Amsterdam"},
			Country:         "NL",
			Description:     cdata{Value: "Kon vacatures niet ophalen: " + err.Error()},
		}}
		s.writeFeed(w, feed)
		return
	}

	jobIDs := make([]uuid.UUID, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}

	contents, err := s.store.LatestContentsForJobs(r.Context(), jobIDs,
		[]string{campaign.ChannelIndeed, campaign.ChannelWebsite})
	if err != nil {
		log.Printf("Feed content lookup failed: %v", err)
		contents = nil
	}

	for _, job := range jobs {
		feed.Jobs = append(feed.Jobs, buildFeedJob(base, job, contents[job.ID]))
	}
	s.writeFeed(w, feed)
}

func buildFeedJob(base string, job db.PublicJob, byChannel map[string]db.JobContent) feedJob {
	companyName := job.CompanyName
	if companyName == "" {
		companyName = "Bedrijf"
	}
	companySlug := job.CompanySlug
	if job.CompanySlugSnapshot != nil && *job.CompanySlugSnapshot != "" {
		companySlug = *job.CompanySlugSnapshot
	}
	if companySlug == "" {
		companySlug = "bedrijf"
	}
	jobSlug := job.JobSlug
	if jobSlug == "" {
		jobSlug = "vacature"
	}

	title := "Vacature"
	if job.Title != nil && *job.Title != "" {
		title = *job.Title
	}

	body := ""
	if content, ok := byChannel[campaign.ChannelIndeed]; ok {
		body = content.Content.Body
	} else if content, ok := byChannel[campaign.ChannelWebsite]; ok {
		body = content.Content.Body
	}

	city := "Nederland"
	if job.Location != nil {
		if first := strings.TrimSpace(strings.SplitN(*job.Location, ",", 2)[0]); first != "" {
			city = first
		}
	}

	published := time.Now().UTC()
	if job.PublishedAt != nil {
		published = *job.PublishedAt
	}

	return feedJob{
		Title:           cdata{Value: title},
		Date:            published.Format(time.RFC3339),
		ReferenceNumber: job.ID.String(),
		URL:             fmt.Sprintf("%s/jobs/%s/%s", base, companySlug, jobSlug),
		Company:         cdata{Value: companyName},
		City:            cdata{Value: city},
		Country:         "NL",
		Description:     cdata{Value: body},
	}
}

func (s *Server) writeFeed(w http.ResponseWriter, feed feedSource) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	// Indeed fetches frequently; keep this fresh but cachable.
	w.Header().Set("Cache-Control", "public, max-age=60")

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		log.Printf("Error encoding feed: %v", err)
	}
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
