package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

const (
	noteExt     = ".md"
	maxSlugLen  = 60
	idLen       = 10
	headerFence = "---"
)

var (
	// headerRe splits a file into its front matter and body.
	headerRe = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n(.*)\z`)

	// kvRe matches a "key: value" header line.
	kvRe = regexp.MustCompile(`^([A-Za-z0-9_\-]+):\s*(.*?)\s*$`)

	slugRe = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// header is the YAML front matter of a note file.
type header struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Created string `yaml:"created"`
	Updated string `yaml:"updated"`
}

// NoteStore keeps notes as Markdown files with a YAML header, grouped into
// <root>/<YYYY>/<YYYY-MM>/ folders by creation time.
type NoteStore struct {
	root string
	now  func() time.Time
}

// Option configures a NoteStore.
type Option func(*NoteStore)

// WithClock overrides the time source used for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *NoteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewNoteStore creates a store rooted at root, creating the directory.
func NewNoteStore(root string, opts ...Option) (*NoteStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving notes directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0700); err != nil {
		return nil, fmt.Errorf("creating notes directory: %w", err)
	}

	s := &NoteStore{root: abs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the notes directory.
func (s *NoteStore) Root() string {
	return s.root
}

// Create writes a new note.
func (s *NoteStore) Create(_ context.Context, title, body string) (*domain.Note, error) {
	now := s.now().Truncate(time.Second)
	stamp := now.Format(domain.TimeLayout)

	dir := filepath.Join(s.root, now.Format("2006"), now.Format("2006-01"))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating note folder: %w", err)
	}

	id := newID()
	name := fmt.Sprintf("%s_%s_%s%s", strings.ReplaceAll(stamp, ":", "-"), Slug(title), id, noteExt)
	note := &domain.Note{
		ID:      id,
		Path:    filepath.Join(dir, name),
		Title:   title,
		Body:    body,
		Created: now,
		Updated: now,
	}
	if err := writeNote(note); err != nil {
		return nil, err
	}
	logger.Debug("Created note %s at %s", id, note.Path)
	return note, nil
}

// Update rewrites the note at path, keeping its ID and creation time.
func (s *NoteStore) Update(ctx context.Context, path, title, body string) (*domain.Note, error) {
	existing, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		ID:      existing.ID,
		Path:    existing.Path,
		Title:   title,
		Body:    body,
		Created: existing.Created,
		Updated: s.now().Truncate(time.Second),
	}
	if err := writeNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note at path. A missing file is not an error.
func (s *NoteStore) Delete(_ context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// Load reads the note at path.
func (s *NoteStore) Load(_ context.Context, path string) (*domain.Note, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("note %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading note: %w", err)
	}
	return s.parse(abs, string(data)), nil
}

// List returns every note under the root, most recently modified first.
// Files that cannot be read are skipped with a warning.
func (s *NoteStore) List(ctx context.Context) ([]domain.Note, error) {
	type entry struct {
		path  string
		mtime time.Time
	}
	var entries []entry

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsNoteFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Removed between listing and stat.
			return nil
		}
		entries = append(entries, entry{path: path, mtime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking notes directory: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].mtime.Equal(entries[j].mtime) {
			return entries[i].mtime.After(entries[j].mtime)
		}
		return entries[i].path > entries[j].path
	})

	notes := make([]domain.Note, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(e.path)
		if err != nil {
			logger.Warn("Skipping unreadable note %s: %v", e.path, err)
			continue
		}
		notes = append(notes, *s.parse(e.path, string(data)))
	}
	return notes, nil
}

// resolve returns the absolute form of path, which must lie under the root.
func (s *NoteStore) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving note path: %w", err)
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrOutsideNotesDir)
	}
	return abs, nil
}

// parse builds a Note from file contents. Missing header fields fall back
// to the file stem and the current time.
func (s *NoteStore) parse(path, text string) *domain.Note {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	now := s.now().Truncate(time.Second)

	m := headerRe.FindStringSubmatch(text)
	if m == nil {
		return &domain.Note{ID: stem, Path: path, Title: stem, Body: text, Created: now, Updated: now}
	}

	h := parseHeader(m[1])
	note := &domain.Note{
		ID:    firstNonEmpty(h.ID, stem),
		Path:  path,
		Title: firstNonEmpty(h.Title, stem),
		Body:  m[2],
	}
	note.Created = parseTime(h.Created, now)
	note.Updated = parseTime(h.Updated, note.Created)
	return note
}

// parseHeader decodes YAML front matter, falling back to plain
// "key: value" lines for headers that are not valid YAML.
func parseHeader(text string) header {
	var h header
	if err := yaml.Unmarshal([]byte(text), &h); err == nil {
		return h
	}

	h = header{}
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		kv := kvRe.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if kv == nil {
			continue
		}
		switch kv[1] {
		case "id":
			h.ID = kv[2]
		case "title":
			h.Title = kv[2]
		case "created":
			h.Created = kv[2]
		case "updated":
			h.Updated = kv[2]
		}
	}
	return h
}

func parseTime(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if t, err := time.ParseInLocation(domain.TimeLayout, s, time.Local); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return fallback
}

// render produces the on-disk form of a note.
func render(n *domain.Note) ([]byte, error) {
	h, err := yaml.Marshal(header{
		ID:      n.ID,
		Title:   n.Title,
		Created: n.CreatedString(),
		Updated: n.UpdatedString(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding note header: %w", err)
	}

	var b strings.Builder
	b.WriteString(headerFence + "\n")
	b.Write(h)
	b.WriteString(headerFence + "\n")
	b.WriteString(n.Body)
	return []byte(b.String()), nil
}

func writeNote(n *domain.Note) error {
	data, err := render(n)
	if err != nil {
		return err
	}
	return writeAtomic(n.Path, data)
}

// writeAtomic writes data to a temp file beside dest and renames it over dest.
func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Slug turns a title into a lowercase file-name fragment of at most 60
// characters, or "note" when nothing usable remains.
func Slug(title string) string {
	slug := strings.ToLower(strings.Trim(slugRe.ReplaceAllString(title, "-"), "-"))
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	if slug == "" {
		return "note"
	}
	return slug
}

// IsNoteFile reports whether path names a visible Markdown note.
func IsNoteFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, noteExt) && !strings.HasPrefix(base, ".")
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLen]
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
