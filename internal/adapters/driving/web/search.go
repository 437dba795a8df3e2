package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

type searchData struct {
	Query   string
	Results []domain.SearchResult
}

type copilotData struct {
	Query   string
	K       int
	Prompt  string
	Sources []domain.CopilotSource
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	data := searchData{Query: q}
	if q != "" {
		results, err := s.ports.Search.Search(r.Context(), q, domain.SearchOptions{})
		if err != nil {
			serverError(w, err)
			return
		}
		data.Results = results
	}
	s.render(w, r, "search", "Search", data)
}

func (s *Server) handleCopilot(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	// Unparseable k falls back to the configured default.
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))

	prompt, err := s.ports.Copilot.BuildPrompt(r.Context(), q, k)
	if err != nil {
		serverError(w, err)
		return
	}
	s.render(w, r, "copilot", "Copilot", copilotData{
		Query:   q,
		K:       prompt.K,
		Prompt:  prompt.Prompt,
		Sources: prompt.Sources,
	})
}
