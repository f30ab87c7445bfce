package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaType represents the kind of media an entry tracks.
// Values are exact: no case normalization happens anywhere.
type MediaType string

const (
	MediaTypeMovie  MediaType = "Movie"
	MediaTypeSeries MediaType = "Series"
)

// Status represents where an entry sits in the watch cycle.
type Status string

const (
	StatusPlanToWatch Status = "Plan to Watch"
	StatusWatching    Status = "Watching"
	StatusWatched     Status = "Watched"
)

// NextStatus advances a status through the closed cycle
// Plan to Watch -> Watching -> Watched -> Plan to Watch.
// Matching is case-insensitive. A value outside the three recognized
// statuses is treated as Plan to Watch, so it advances to Watching and
// re-enters the cycle instead of producing an error.
func NextStatus(s Status) Status {
	switch {
	case strings.EqualFold(string(s), string(StatusWatching)):
		return StatusWatched
	case strings.EqualFold(string(s), string(StatusWatched)):
		return StatusPlanToWatch
	default:
		return StatusWatching
	}
}

// ResolveStatus maps an absent or blank status to the default.
func ResolveStatus(s string) Status {
	if strings.TrimSpace(s) == "" {
		return StatusPlanToWatch
	}
	return Status(s)
}

// Entry is a single watchlist record owned by exactly one user.
type Entry struct {
	ID          uuid.UUID `json:"id"           gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id"      gorm:"type:uuid;not null;index"`
	Title       string    `json:"title"        gorm:"not null"`
	Type        MediaType `json:"type"         gorm:"type:varchar(20);not null;index"`
	Genre       string    `json:"genre"        gorm:"not null;index"`
	Rating      int       `json:"rating"       gorm:"not null"`
	ReleaseYear int       `json:"release_year" gorm:"not null"`
	Status      Status    `json:"status"       gorm:"type:varchar(20);not null;index"`
	Notes       string    `json:"notes,omitempty" gorm:"type:text"`
	Cover       string    `json:"cover,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName customization.
func (Entry) TableName() string {
	return "watchlist_entries"
}

// Statistics holds the per-user group-by-count aggregations.
// Categories with zero entries are absent from their map.
type Statistics struct {
	GenreCounts  map[string]int64 `json:"genre_counts"`
	StatusCounts map[string]int64 `json:"status_counts"`
	TypeCounts   map[string]int64 `json:"type_counts"`
}
