package ports

import (
	"time"

	"loom/internal/data/history"
)

// HistoryStore abstracts run persistence for report surfaces, keeping
// the sqlite store behind a seam the CLI renders against.
type HistoryStore interface {
	SaveRun(run history.Run) error
	LoadRuns(projectKey string, since time.Time) ([]history.Run, error)
}
