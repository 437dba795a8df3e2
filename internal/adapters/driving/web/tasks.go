package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

type tasksData struct {
	Query    string
	ShowDone bool
	Tasks    []domain.Task
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	showDone := r.URL.Query().Get("done") == "1"

	tasks, err := s.ports.Tasks.List(r.Context(), domain.TaskFilter{
		Query:       strings.TrimSpace(q),
		IncludeDone: showDone,
	})
	if err != nil {
		serverError(w, err)
		return
	}
	s.render(w, r, "tasks", "Tasks", tasksData{Query: q, ShowDone: showDone, Tasks: tasks})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	path := r.PostForm.Get("path")
	if _, err := s.ports.Notes.Get(r.Context(), path); err != nil {
		if isNotFound(err) {
			redirectWithFlash(w, r, "/tasks", msgNoteNotFound)
			return
		}
		serverError(w, err)
		return
	}

	line, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("line_no")))
	if err != nil || line <= 0 {
		redirectWithFlash(w, r, "/tasks", msgBadTaskLine)
		return
	}

	if _, err := s.ports.Tasks.Complete(r.Context(), path, line); err != nil {
		if isNotFound(err) {
			redirectWithFlash(w, r, "/tasks", msgNoteNotFound)
			return
		}
		serverError(w, err)
		return
	}
	redirectWithFlash(w, r, backTo(r, "/tasks"), "")
}

// backTo returns the local page the request came from, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
