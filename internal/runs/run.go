// Package runs keeps the history of analysis runs in PostgreSQL.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/regtriage/internal/classify"
)

// Run is one completed analysis pass.
type Run struct {
	ID            uuid.UUID `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	TotalCases    int       `json:"total_cases"`
	FilteredCases int       `json:"filtered_cases"`
}

// Entry is a stored classification record with its manifest position.
type Entry struct {
	Position int `json:"position"`
	classify.Record
}
