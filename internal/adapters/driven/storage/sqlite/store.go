package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/ports/driven"
	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
	"github.com/cardinalphin/fire-and-forget-notes/internal/lsa"
)

// formatVersion identifies the layout written by Save. Files carrying any
// other version are treated as absent.
const formatVersion = "2"

// Meta keys.
const (
	metaFormatVersion = "format_version"
	metaBuiltAt       = "built_at"
	metaLatentDim     = "latent_dim"
	metaVocabSize     = "vocab_size"
	metaChunkCount    = "chunk_count"
)

// IndexStore persists search indexes as standalone SQLite files.
type IndexStore struct{}

var _ driven.IndexStore = (*IndexStore)(nil)

// NewIndexStore creates a new index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Save writes idx to a fresh database next to path and renames it into
// place, so a reader never observes a half-written file.
func (s *IndexStore) Save(ctx context.Context, idx *index.Index, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.db")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp index file: %w", err)
	}

	if err := writeIndex(ctx, idx, tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing index file: %w", err)
	}
	logger.Debug("Saved index with %d chunks to %s", idx.Len(), path)
	return nil
}

// Load reads the index at path. Any failure is logged and reported as an
// absent index so that the caller rebuilds from the notes.
func (s *IndexStore) Load(ctx context.Context, path string) (*index.Index, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Index file %s not readable, rebuilding: %v", path, err)
		}
		return nil, nil
	}

	idx, err := readIndex(ctx, path)
	if err != nil {
		logger.Warn("Index file %s unusable, rebuilding: %v", path, err)
		return nil, nil
	}
	logger.Debug("Loaded index with %d chunks from %s", idx.Len(), path)
	return idx, nil
}

// ModTime returns the modification time of the index file.
func (s *IndexStore) ModTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// openDB opens the database file at path.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func writeIndex(ctx context.Context, idx *index.Index, path string) (err error) {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	if err := migrate(db, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	model := idx.Model()
	meta := map[string]string{
		metaFormatVersion: formatVersion,
		metaBuiltAt:       idx.BuiltAt().Format(time.RFC3339Nano),
		metaLatentDim:     strconv.Itoa(model.Dim()),
		metaVocabSize:     strconv.Itoa(model.VocabularySize()),
		metaChunkCount:    strconv.Itoa(idx.Len()),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("writing meta %s: %w", k, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (seq, id, note_id, note_path, note_title, note_created, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer chunkStmt.Close()
	embStmt, err := tx.PrepareContext(ctx, `INSERT INTO embeddings (seq, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing embedding insert: %w", err)
	}
	defer embStmt.Close()

	embeddings := idx.Embeddings()
	for i, c := range idx.Chunks() {
		if _, err := chunkStmt.ExecContext(ctx, i, c.ID, c.NoteID, c.NotePath, c.NoteTitle,
			c.NoteCreated.Format(time.RFC3339Nano), c.Text); err != nil {
			return fmt.Errorf("writing chunk %s: %w", c.ID, err)
		}
		if _, err := embStmt.ExecContext(ctx, i, float32SliceToBytes(embeddings[i])); err != nil {
			return fmt.Errorf("writing embedding %d: %w", i, err)
		}
	}

	vocabStmt, err := tx.PrepareContext(ctx, `INSERT INTO vocabulary (col, term, idf) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing vocabulary insert: %w", err)
	}
	defer vocabStmt.Close()
	idf := model.IDF()
	for col, term := range model.Terms() {
		if _, err := vocabStmt.ExecContext(ctx, col, term, idf[col]); err != nil {
			return fmt.Errorf("writing term %q: %w", term, err)
		}
	}

	for row, comp := range model.Components() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO components (row, data) VALUES (?, ?)`,
			row, float64SliceToBytes(comp)); err != nil {
			return fmt.Errorf("writing component %d: %w", row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

func readIndex(ctx context.Context, path string) (*index.Index, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, err
	}
	if v := meta[metaFormatVersion]; v != formatVersion {
		return nil, fmt.Errorf("unsupported format version %q", v)
	}
	builtAt, err := time.Parse(time.RFC3339Nano, meta[metaBuiltAt])
	if err != nil {
		return nil, fmt.Errorf("parsing build time: %w", err)
	}

	terms, idf, err := readVocabulary(ctx, db)
	if err != nil {
		return nil, err
	}
	components, err := readComponents(ctx, db)
	if err != nil {
		return nil, err
	}
	if want := meta[metaLatentDim]; want != strconv.Itoa(len(components)) {
		return nil, fmt.Errorf("latent dim %s but %d components", want, len(components))
	}
	model, err := lsa.Restore(terms, idf, components)
	if err != nil {
		return nil, err
	}

	chunks, embeddings, err := readChunks(ctx, db)
	if err != nil {
		return nil, err
	}
	if want := meta[metaChunkCount]; want != strconv.Itoa(len(chunks)) {
		return nil, fmt.Errorf("chunk count %s but %d chunks stored", want, len(chunks))
	}
	return index.Restore(chunks, model, embeddings, builtAt)
}

func readMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("querying meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning meta: %w", err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meta: %w", err)
	}
	return meta, nil
}

func readVocabulary(ctx context.Context, db *sql.DB) ([]string, []float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT col, term, idf FROM vocabulary ORDER BY col`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying vocabulary: %w", err)
	}
	defer rows.Close()

	var (
		terms []string
		idf   []float64
	)
	for rows.Next() {
		var (
			col  int
			term string
			w    float64
		)
		if err := rows.Scan(&col, &term, &w); err != nil {
			return nil, nil, fmt.Errorf("scanning vocabulary: %w", err)
		}
		if col != len(terms) {
			return nil, nil, fmt.Errorf("vocabulary column %d out of sequence", col)
		}
		terms = append(terms, term)
		idf = append(idf, w)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating vocabulary: %w", err)
	}
	return terms, idf, nil
}

func readComponents(ctx context.Context, db *sql.DB) ([][]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT row, data FROM components ORDER BY row`)
	if err != nil {
		return nil, fmt.Errorf("querying components: %w", err)
	}
	defer rows.Close()

	var components [][]float64
	for rows.Next() {
		var (
			row  int
			data []byte
		)
		if err := rows.Scan(&row, &data); err != nil {
			return nil, fmt.Errorf("scanning component: %w", err)
		}
		if row != len(components) {
			return nil, fmt.Errorf("component %d out of sequence", row)
		}
		if len(data)%8 != 0 {
			return nil, fmt.Errorf("component %d has truncated data", row)
		}
		components = append(components, bytesToFloat64Slice(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating components: %w", err)
	}
	return components, nil
}

func readChunks(ctx context.Context, db *sql.DB) ([]domain.Chunk, [][]float32, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.seq, c.id, c.note_id, c.note_path, c.note_title, c.note_created, c.text,
		       e.seq IS NULL, e.data
		FROM chunks c LEFT JOIN embeddings e ON e.seq = c.seq
		ORDER BY c.seq`)
	if err != nil {
		return nil, nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var (
		chunks     []domain.Chunk
		embeddings [][]float32
	)
	for rows.Next() {
		var (
			seq     int
			c       domain.Chunk
			created string
			missing bool
			data    []byte
		)
		if err := rows.Scan(&seq, &c.ID, &c.NoteID, &c.NotePath, &c.NoteTitle, &created, &c.Text, &missing, &data); err != nil {
			return nil, nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if seq != len(chunks) {
			return nil, nil, fmt.Errorf("chunk %d out of sequence", seq)
		}
		if missing {
			return nil, nil, fmt.Errorf("chunk %d has no embedding", seq)
		}
		if len(data)%4 != 0 {
			return nil, nil, fmt.Errorf("embedding %d has truncated data", seq)
		}
		if c.NoteCreated, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, nil, fmt.Errorf("parsing chunk %s creation time: %w", c.ID, err)
		}
		chunks = append(chunks, c)
		embeddings = append(embeddings, bytesToFloat32Slice(data))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, embeddings, nil
}

// migrate runs all pending migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
// The result is never nil so that NOT NULL columns accept empty vectors.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// float64SliceToBytes converts a []float64 to a byte slice for storage.
func float64SliceToBytes(floats []float64) []byte {
	buf := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// bytesToFloat64Slice converts a byte slice back to []float64.
func bytesToFloat64Slice(data []byte) []float64 {
	floats := make([]float64, len(data)/8)
	for i := range floats {
		floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return floats
}
