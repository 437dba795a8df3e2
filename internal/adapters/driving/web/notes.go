package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

const (
	msgNoteNotFound = "Note not found."
	msgNoteDeleted  = "Note deleted."
	msgBadTaskLine  = "Bad task line."
)

type browseData struct {
	Query string
	Notes []domain.NoteSummary
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "new", "New note", nil)
}

func (s *Server) handleNewSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	note, err := s.ports.Notes.Create(r.Context(), r.PostForm.Get("title"), r.PostForm.Get("body"))
	if note == nil {
		serverError(w, err)
		return
	}
	redirectWithFlash(w, r, noteURL(note.Path), reindexMessage(err))
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	notes, err := s.ports.Notes.List(r.Context(), q)
	if err != nil {
		serverError(w, err)
		return
	}
	s.render(w, r, "browse", "Notes", browseData{Query: q, Notes: notes})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	note, ok := s.loadNote(w, r, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	s.render(w, r, "note", note.Title, note)
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	note, ok := s.loadNote(w, r, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	s.render(w, r, "edit", "Edit "+note.Title, note)
}

func (s *Server) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadNote(w, r, r.URL.Query().Get("path"))
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	title := existing.Title
	if _, sent := r.PostForm["title"]; sent {
		title = r.PostForm.Get("title")
	}
	note, err := s.ports.Notes.Update(r.Context(), existing.Path, title, r.PostForm.Get("body"))
	if note == nil {
		if isNotFound(err) {
			redirectWithFlash(w, r, "/browse", msgNoteNotFound)
			return
		}
		serverError(w, err)
		return
	}
	redirectWithFlash(w, r, noteURL(note.Path), reindexMessage(err))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	err := s.ports.Notes.Delete(r.Context(), r.PostForm.Get("path"))
	switch {
	case isNotFound(err):
		redirectWithFlash(w, r, "/browse", msgNoteNotFound)
	case err != nil:
		serverError(w, err)
	default:
		redirectWithFlash(w, r, "/browse", msgNoteDeleted)
	}
}

// loadNote reads the note at path or redirects to /browse with a flash.
func (s *Server) loadNote(w http.ResponseWriter, r *http.Request, path string) (*domain.Note, bool) {
	note, err := s.ports.Notes.Get(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			redirectWithFlash(w, r, "/browse", msgNoteNotFound)
			return nil, false
		}
		serverError(w, err)
		return nil, false
	}
	return note, true
}

// isNotFound reports errors that mean the requested note is not there.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrOutsideNotesDir) ||
		errors.Is(err, domain.ErrInvalidInput)
}

// reindexMessage describes a rebuild failure after a successful write.
func reindexMessage(err error) string {
	if err == nil {
		return ""
	}
	logger.Warn("Saved, but reindexing failed: %v", err)
	return "Saved, but the search index could not be rebuilt: " + err.Error()
}

func noteURL(path string) string {
	return "/note?path=" + url.QueryEscape(path)
}
