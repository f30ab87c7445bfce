package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcom/watchlist/internal/watchlist/domain"
)

func validCandidate() domain.Candidate {
	return domain.Candidate{
		Title:       "Inception",
		Type:        "Movie",
		Genre:       "Sci-Fi",
		Rating:      9,
		ReleaseYear: 2010,
		Notes:       "great",
	}
}

func TestValidate_ValidCandidate(t *testing.T) {
	assert.NoError(t, validCandidate().Validate())
}

func TestValidate_FieldViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Candidate)
		wantField string
	}{
		{"empty title", func(c *domain.Candidate) { c.Title = "" }, "title"},
		{"blank title", func(c *domain.Candidate) { c.Title = "   " }, "title"},
		{"empty type", func(c *domain.Candidate) { c.Type = "" }, "type"},
		{"unknown type", func(c *domain.Candidate) { c.Type = "Documentary" }, "type"},
		{"lowercase type", func(c *domain.Candidate) { c.Type = "movie" }, "type"},
		{"empty genre", func(c *domain.Candidate) { c.Genre = "" }, "genre"},
		{"rating zero", func(c *domain.Candidate) { c.Rating = 0 }, "rating"},
		{"rating too high", func(c *domain.Candidate) { c.Rating = 11 }, "rating"},
		{"rating negative", func(c *domain.Candidate) { c.Rating = -3 }, "rating"},
		{"year too early", func(c *domain.Candidate) { c.ReleaseYear = 1899 }, "releaseYear"},
		{"year missing", func(c *domain.Candidate) { c.ReleaseYear = 0 }, "releaseYear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)

			err := c.Validate()
			require.Error(t, err)
			require.True(t, domain.IsValidationError(err))

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidate_CheckOrderIsDeterministic(t *testing.T) {
	// All fields invalid: the title violation must win.
	c := domain.Candidate{}

	err := c.Validate()
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)

	// Title fixed: type precedes genre, rating and year.
	c.Title = "Something"
	err = c.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "type", vErr.Field)

	c.Type = "Series"
	err = c.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "genre", vErr.Field)

	c.Genre = "Drama"
	err = c.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rating", vErr.Field)

	c.Rating = 5
	err = c.Validate()
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "releaseYear", vErr.Field)
}

func TestValidate_StatusAndNotesNeverMandatory(t *testing.T) {
	c := validCandidate()
	c.Status = ""
	c.Notes = ""
	assert.NoError(t, c.Validate())
}
