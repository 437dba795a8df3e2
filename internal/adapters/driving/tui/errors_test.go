package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingSearchService.Error(), ErrMissingNoteService.Error())
	assert.Contains(t, ErrMissingSearchService.Error(), "search service")
	assert.Contains(t, ErrMissingNoteService.Error(), "note service")
}
