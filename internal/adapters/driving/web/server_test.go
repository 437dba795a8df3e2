package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/memory"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/services"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

const (
	lisbonPath = memory.Root + "/lisbon.md"
	gardenPath = memory.Root + "/garden.md"
)

var seedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)

type fixture struct {
	server  *Server
	notes   *memory.NoteStore
	uploads string
	metrics *metrics.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	notes := memory.NewNoteStore()
	for i, n := range []domain.Note{
		{ID: "lisbon", Path: lisbonPath, Title: "Lisbon trip",
			Body: "Flights to Lisbon booked for May.\n**pack the camera charger\n***renew passport\n"},
		{ID: "garden", Path: gardenPath, Title: "Garden",
			Body: "Tomatoes need staking before the summer heat.\nWater the basil daily.\n"},
		{ID: "release", Path: memory.Root + "/release.md", Title: "Release",
			Body: "Deploy pipeline is flaky; retry the integration tests.\n**tag the release candidate\n"},
	} {
		n.Created = seedTime.Add(time.Duration(i) * time.Hour)
		n.Updated = n.Created
		notes.Put(n)
	}

	indexes := services.NewIndexService(notes, memory.NewIndexStore(), "/memory/index.db")
	collector := metrics.NewCollector()
	uploads := filepath.Join(t.TempDir(), "images")

	search := services.NewSearchService(indexes, domain.DefaultMaxResults)
	search.SetMetrics(collector)

	srv, err := New(&Ports{
		Notes:   services.NewNoteService(notes, indexes),
		Search:  search,
		Tasks:   services.NewTaskService(notes, indexes),
		Copilot: services.NewCopilotService(indexes, domain.DefaultCopilotK),
	}, WithMetrics(collector), WithUploadsDir(uploads), WithMaxUpload(64<<10))
	require.NoError(t, err)

	return &fixture{server: srv, notes: notes, uploads: uploads, metrics: collector}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (f *fixture) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

// flashOf returns the flash message set by a response.
func flashOf(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge > 0 {
			msg, _ := url.QueryUnescape(c.Value)
			return msg
		}
	}
	return ""
}

func TestNew_RequiresPorts(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Ports{})
	assert.Error(t, err)
}

func TestHome_RedirectsToBrowse(t *testing.T) {
	f := newFixture(t)
	rec := f.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/browse", rec.Header().Get("Location"))
}

func TestBrowse(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/browse")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Lisbon trip")
	assert.Contains(t, body, "Garden")
	assert.Less(t, strings.Index(body, "Release"), strings.Index(body, "Lisbon trip"), "newest first")

	rec = f.get("/browse?q=basil")
	body = rec.Body.String()
	assert.Contains(t, body, "Garden")
	assert.NotContains(t, body, "Lisbon trip")
}

func TestNewNote_CreatesAndRedirects(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.get("/new").Code)

	rec := f.post("/new", url.Values{"title": {"  "}, "body": {"call the plumber about the sink"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/note?path="), loc)
	assert.Empty(t, flashOf(rec))

	rec = f.get(loc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Untitled")
	assert.Contains(t, rec.Body.String(), "call the plumber about the sink")

	rec = f.get("/search?q=plumber+sink")
	assert.Contains(t, rec.Body.String(), "Untitled", "new note is searchable straight away")
}

func TestViewNote_NotFound(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{
		"/note?path=" + url.QueryEscape(memory.Root+"/missing.md"),
		"/note?path=" + url.QueryEscape("/etc/passwd"),
		"/note",
		"/note/edit?path=" + url.QueryEscape("/etc/passwd"),
	} {
		rec := f.get(target)
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/browse", rec.Header().Get("Location"), target)
		assert.Equal(t, "Note not found.", flashOf(rec), target)
	}
}

func TestFlash_ShownOnceOnNextPage(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/browse", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: url.QueryEscape("Note deleted.")})
	rec := f.do(req)

	assert.Contains(t, rec.Body.String(), `<div class="flash">Note deleted.</div>`)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestEditNote(t *testing.T) {
	f := newFixture(t)
	target := "/note/edit?path=" + url.QueryEscape(gardenPath)

	rec := f.get(target)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Water the basil daily.")

	rec = f.post(target, url.Values{"title": {"Allotment"}, "body": {"Pumpkins this year."}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/note?path="+url.QueryEscape(gardenPath), rec.Header().Get("Location"))

	note, err := f.notes.Load(context.Background(), gardenPath)
	require.NoError(t, err)
	assert.Equal(t, "Allotment", note.Title)
	assert.Equal(t, "Pumpkins this year.", note.Body)
}

func TestEditNote_KeepsTitleWhenNotSent(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/note/edit?path="+url.QueryEscape(gardenPath), url.Values{"body": {"new body"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	note, err := f.notes.Load(context.Background(), gardenPath)
	require.NoError(t, err)
	assert.Equal(t, "Garden", note.Title)
}

func TestDeleteNote(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/note/delete", url.Values{"path": {gardenPath}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/browse", rec.Header().Get("Location"))
	assert.Equal(t, "Note deleted.", flashOf(rec))

	_, err := f.notes.Load(context.Background(), gardenPath)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec = f.post("/note/delete", url.Values{"path": {gardenPath}})
	assert.Equal(t, "Note not found.", flashOf(rec))
}

func TestSearchPage(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/search")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "No results.")

	rec = f.get("/search?q=tomatoes+staking")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Garden")
	assert.Contains(t, body, "score ")
	assert.Contains(t, body, "2025-03-01T10:00:00")
}

func TestCopilotPage(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/copilot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="10"`, "default k")
	assert.NotContains(t, rec.Body.String(), "Sources")

	rec = f.get("/copilot?q=lisbon+flights&k=99")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="20"`, "k is clamped")
	assert.Contains(t, body, "Question: lisbon flights")
	assert.Contains(t, body, "Sources")

	rec = f.get("/copilot?q=lisbon&k=abc")
	assert.Contains(t, rec.Body.String(), `value="10"`, "bad k falls back to the default")
}

func TestTasksPage(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/tasks")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pack the camera charger")
	assert.Contains(t, body, "tag the release candidate")
	assert.NotContains(t, body, "renew passport")

	rec = f.get("/tasks?done=1&q=passport")
	body = rec.Body.String()
	assert.Contains(t, body, "renew passport")
	assert.NotContains(t, body, "camera charger")
}

func TestCompleteTask(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/tasks/complete",
		strings.NewReader(url.Values{"path": {lisbonPath}, "line_no": {"2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/tasks?q=lisbon")
	rec := f.do(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tasks?q=lisbon", rec.Header().Get("Location"))

	note, err := f.notes.Load(context.Background(), lisbonPath)
	require.NoError(t, err)
	assert.Contains(t, note.Body, "***pack the camera charger")
}

func TestCompleteTask_Errors(t *testing.T) {
	f := newFixture(t)

	rec := f.post("/tasks/complete", url.Values{"path": {memory.Root + "/missing.md"}, "line_no": {"2"}})
	assert.Equal(t, "/tasks", rec.Header().Get("Location"))
	assert.Equal(t, "Note not found.", flashOf(rec))

	for _, line := range []string{"", "0", "-1", "two"} {
		rec = f.post("/tasks/complete", url.Values{"path": {lisbonPath}, "line_no": {line}})
		assert.Equal(t, "/tasks", rec.Header().Get("Location"), line)
		assert.Equal(t, "Bad task line.", flashOf(rec), line)
	}
}

func TestBackTo(t *testing.T) {
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/tasks"},
		{"http://example.com/browse", "/browse"},
		{"http://evil.test/phish", "/tasks"},
		{"/tasks?done=1", "/tasks?done=1"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/tasks/complete", nil)
		req.Header.Set("Referer", tt.referer)
		assert.Equal(t, tt.want, backTo(req, "/tasks"), tt.referer)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_StoresAndServesImage(t *testing.T) {
	f := newFixture(t)
	data := pngBytes(t)

	rec := f.do(uploadRequest(t, "shot.png", data))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	assert.Equal(t, "![]("+resp.URL+")", resp.Markdown)

	stored, err := os.ReadFile(filepath.Join(f.uploads, strings.TrimPrefix(resp.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	rec = f.get(resp.URL)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, rec.Body.Bytes())
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t)

	rec := f.do(uploadRequest(t, "notes.txt", []byte("just some text")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	big := append(pngBytes(t), bytes.Repeat([]byte{0}, 128<<10)...)
	rec = f.do(uploadRequest(t, "big.png", big))
	assert.GreaterOrEqual(t, rec.Code, 400)
	assert.Less(t, rec.Code, 500)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec = f.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploaded_NotFound(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.uploads, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(f.uploads, ".tmp-1"), []byte("x"), 0600))

	for _, target := range []string{"/uploads/missing.png", "/uploads/.tmp-1", "/uploads/"} {
		assert.Equal(t, http.StatusNotFound, f.get(target).Code, target)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	f.get("/browse")
	f.get("/search?q=basil")

	rec = f.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `fireforget_http_requests_total{method="GET",route="/browse",status="200"} 1`)
	assert.Contains(t, body, "fireforget_searches_total 1")
}
