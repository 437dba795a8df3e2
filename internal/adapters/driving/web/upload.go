package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

// imageExts maps accepted sniffed content types to file extensions.
var imageExts = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type uploadResponse struct {
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// handleUpload stores one image from the "file" form field and answers
// with the Markdown needed to embed it in a note.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		http.Error(w, "unreadable upload", http.StatusBadRequest)
		return
	}
	head = head[:n]
	ext, ok := imageExts[http.DetectContentType(head)]
	if !ok {
		http.Error(w, "only PNG, JPEG, GIF and WebP images are accepted", http.StatusUnsupportedMediaType)
		return
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if err := s.saveUpload(name, io.MultiReader(bytes.NewReader(head), file)); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
			return
		}
		serverError(w, err)
		return
	}
	logger.Debug("Stored upload %s", name)

	link := "/uploads/" + name
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(uploadResponse{URL: link, Markdown: fmt.Sprintf("![](%s)", link)})
}

func (s *Server) saveUpload(name string, src io.Reader) error {
	if err := os.MkdirAll(s.uploadsDir, 0700); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.uploadsDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.uploadsDir, name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storing upload: %w", err)
	}
	return nil
}

// handleUploaded serves a stored image. Directory listings and hidden
// files are not served.
func (s *Server) handleUploaded(w http.ResponseWriter, r *http.Request) {
	name := path.Base(path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/uploads/")))
	if name == "/" || name == "." || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	full := filepath.Join(s.uploadsDir, name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, full)
}
