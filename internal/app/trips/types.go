package trips

import (
	"time"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/validation"
)

// CreateInput carries the fields of a new trip. Title is required.
type CreateInput struct {
	Title       validation.Optional[string]
	Description validation.Optional[string]
	StartDate   validation.Optional[time.Time]
	EndDate     validation.Optional[time.Time]
}

// UpdateInput is a partial update: only specified fields change, and null clears.
type UpdateInput struct {
	Title       validation.Optional[string]
	Description validation.Optional[string]
	StartDate   validation.Optional[time.Time]
	EndDate     validation.Optional[time.Time]
}

// ReplaceInput overwrites every mutable field. Omitted optional fields are cleared.
type ReplaceInput struct {
	Title       validation.Optional[string]
	Description validation.Optional[string]
	StartDate   validation.Optional[time.Time]
	EndDate     validation.Optional[time.Time]
}

func fields(title, description validation.Optional[string], start, end validation.Optional[time.Time]) validation.Fields {
	return validation.Fields{
		"title":       title,
		"description": description,
		"start_date":  start,
		"end_date":    end,
	}
}

var (
	createSchema = validation.Schema{
		Required: []string{"title"},
		Optional: []string{"description", "start_date", "end_date"},
	}
	updateSchema = validation.Schema{
		Optional: []string{"title", "description", "start_date", "end_date"},
	}
	replaceSchema = createSchema
)
