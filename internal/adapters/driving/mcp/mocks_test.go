package mcp

import (
	"context"

	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	lastOpt domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpt = opts
	return m.results, m.err
}

// mockNoteService is a mock implementation of driving.NoteService.
type mockNoteService struct {
	note      *domain.Note
	summaries []domain.NoteSummary
	err       error
	gotPath   string
	gotTitle  string
	gotBody   string
}

func (m *mockNoteService) Create(_ context.Context, title, body string) (*domain.Note, error) {
	m.gotTitle, m.gotBody = title, body
	return m.note, m.err
}

func (m *mockNoteService) Update(_ context.Context, path, title, body string) (*domain.Note, error) {
	m.gotPath, m.gotTitle, m.gotBody = path, title, body
	return m.note, m.err
}

func (m *mockNoteService) Delete(_ context.Context, path string) error {
	m.gotPath = path
	return m.err
}

func (m *mockNoteService) Get(_ context.Context, path string) (*domain.Note, error) {
	m.gotPath = path
	return m.note, m.err
}

func (m *mockNoteService) List(_ context.Context, _ string) ([]domain.NoteSummary, error) {
	return m.summaries, m.err
}

// mockTaskService is a mock implementation of driving.TaskService.
type mockTaskService struct {
	tasks     []domain.Task
	err       error
	gotFilter domain.TaskFilter
}

func (m *mockTaskService) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	m.gotFilter = filter
	return m.tasks, m.err
}

func (m *mockTaskService) Complete(_ context.Context, _ string, _ int) (bool, error) {
	return false, m.err
}
